package main

import (
	"time"

	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/cyp0633/libdasa/dasa"
)

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the periods active at a given time",
	Long:  "active prints the lineage of periods running at --at (default: the chart target, or now) and the drill-down of sub-periods along it.",
	Args:  cobra.NoArgs,
	RunE:  runActive,
}

func init() {
	addInputFlags(activeCmd)
	activeCmd.Flags().String("at", "", "time to look up (RFC 3339 or YYYY-MM-DD[ HH:MM[:SS]])")
	activeCmd.Flags().Int("level", 0, "deepest level of the active path (default: tree depth)")
	rootCmd.AddCommand(activeCmd)
}

func runActive(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	in, err := rt.resolveInput(cmd)
	if err != nil {
		return err
	}

	at := in.target.OrElse(time.Now())
	if s, _ := cmd.Flags().GetString("at"); s != "" {
		if at, err = parseTime(s, rt.dates.Location); err != nil {
			return err
		}
	}
	level, _ := cmd.Flags().GetInt("level")
	if level <= 0 {
		level = in.tree.Depth
	}

	path, err := rt.engine.ActiveAt(in.tree, in.startJD, at, level)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write([]byte(in.header())); err != nil {
		return err
	}
	offset := rt.dates.OffsetYears(in.startJD, at)
	if err := writeActiveLine(w, at.In(rt.dates.Location).Format(dasa.DateLayout), offset, path); err != nil {
		return err
	}

	opts := rt.formatOptions(in)
	opts.Filter = mo.Some(path)
	_, err = w.Write([]byte(dasa.Format(in.tree.Periods, opts)))
	return err
}
