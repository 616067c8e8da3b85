package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyp0633/libdasa/dasa"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Show the active periods at each occurrence of a recurrence rule",
	Example: `  dasa sample --moon 200 --date 1990-04-12T06:30:00Z --rule "FREQ=YEARLY;COUNT=10"
  dasa sample --chart natal.toml --rule "FREQ=MONTHLY;INTERVAL=6" --level 2`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	addInputFlags(sampleCmd)
	sampleCmd.Flags().String("rule", "", "RFC 5545 RRULE value, e.g. FREQ=YEARLY;COUNT=12")
	sampleCmd.Flags().Int("level", 0, "deepest level of each active path (default: tree depth)")
	_ = sampleCmd.MarkFlagRequired("rule")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	in, err := rt.resolveInput(cmd)
	if err != nil {
		return err
	}

	rule, _ := cmd.Flags().GetString("rule")
	level, _ := cmd.Flags().GetInt("level")
	if level <= 0 {
		level = in.tree.Depth
	}

	samples, err := rt.engine.Sample(in.tree, in.start, rule, level)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, s := range samples {
		label := s.Time.In(rt.dates.Location).Format(dasa.DateLayout)
		path, err := s.Path.Get()
		if err != nil {
			if _, werr := fmt.Fprintf(w, "%s  %v\n", label, err); werr != nil {
				return werr
			}
			continue
		}
		if err := writeActiveLine(w, label, s.Offset, path); err != nil {
			return err
		}
	}
	rt.logger.Debug("sampled rule", "rule", rule, "occurrences", len(samples))
	return nil
}
