package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cyp0633/libdasa/chart"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reprint the period tree whenever a chart file changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("chart", "", "chart TOML file to watch")
	watchCmd.Flags().Int("depth", 0, "number of levels to build (default from chart or config)")
	_ = watchCmd.MarkFlagRequired("chart")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	path, _ := cmd.Flags().GetString("chart")
	c, err := chart.Load(path)
	if err != nil {
		return err
	}
	if err := rt.printChart(cmd, c); err != nil {
		return err
	}

	w, err := chart.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("watching chart: %w", err)
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching chart: %w", err)
	}
	rt.logger.Info("watching chart", "file", w.File)

	return rt.watchLoop(ctx, cmd, w.Changes)
}

// watchLoop reprints the tree for every change until ctx is done or changes
// is closed. Load errors are logged and the previous output stays valid.
func (r *runtime) watchLoop(ctx context.Context, cmd *cobra.Command, changes <-chan chart.Change) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if change.Err != nil {
				r.logger.Warn("chart reload failed", "file", change.File, "error", change.Err)
				continue
			}
			if err := r.printChart(cmd, change.Chart); err != nil {
				r.logger.Warn("chart rebuild failed", "file", change.File, "error", err)
			}
		}
	}
}

func (r *runtime) printChart(cmd *cobra.Command, c *chart.Chart) error {
	in, err := r.inputFromChart(cmd, c)
	if err != nil {
		return err
	}
	return writePeriods(cmd.OutOrStdout(), r, in)
}
