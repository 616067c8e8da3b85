package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyp0633/libdasa/dasa"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Print the period tree down to the display level",
	Args:  cobra.NoArgs,
	RunE:  runPeriods,
}

func init() {
	addInputFlags(periodsCmd)
	rootCmd.AddCommand(periodsCmd)
}

func runPeriods(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	in, err := rt.resolveInput(cmd)
	if err != nil {
		return err
	}
	return writePeriods(cmd.OutOrStdout(), rt, in)
}

func writePeriods(w io.Writer, rt *runtime, in *input) error {
	if _, err := io.WriteString(w, in.header()); err != nil {
		return err
	}
	_, err := io.WriteString(w, dasa.Format(in.tree.Periods, rt.formatOptions(in)))
	return err
}

func joinLords(lords []dasa.Lord) string {
	names := make([]string, len(lords))
	for i, l := range lords {
		names[i] = l.String()
	}
	return strings.Join(names, "/")
}

// writeActiveLine prints the lineage of path and how much of its innermost
// period is left at offset.
func writeActiveLine(w io.Writer, label string, offset float64, path dasa.Path) error {
	p := path.Innermost()
	_, err := fmt.Fprintf(w, "%s  %s  %.4f years left of %.4f\n",
		label, joinLords(path.Lords()), p.End()-offset, p.DurationYears)
	return err
}
