package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyp0633/libdasa/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the period tree as iCalendar or XML",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	addInputFlags(exportCmd)
	exportCmd.Flags().String("format", "ics", "output format: ics or xml")
	exportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	exportCmd.Flags().Int("level", 0, "deepest level exported (default: display level)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	format, _ := cmd.Flags().GetString("format")
	if format != "ics" && format != "xml" {
		return fmt.Errorf("unknown export format %q (want ics or xml)", format)
	}

	in, err := rt.resolveInput(cmd)
	if err != nil {
		return err
	}

	level, _ := cmd.Flags().GetInt("level")
	if level <= 0 {
		level = rt.cfg.EffectiveDisplayLevel(in.tree.Depth)
	}
	opts := exportOptions(rt, in, level)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		err = writeExportFile(out, format, in, opts)
	} else {
		err = writeExport(cmd.OutOrStdout(), format, in, opts)
	}
	if err != nil {
		return err
	}
	rt.logger.Debug("exported tree", "format", format, "max_level", level)
	return nil
}

func exportOptions(rt *runtime, in *input, level int) export.Options {
	return export.Options{
		Start:    in.startJD,
		Dates:    rt.dates,
		MaxLevel: level,
		Name:     in.name,
		Stamp:    time.Now(),
	}
}

// writeExportFile writes the export to path. A failure to close the file is
// reported like a failed write.
func writeExportFile(path, format string, in *input, opts export.Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()
	return writeExport(f, format, in, opts)
}

func writeExport(w io.Writer, format string, in *input, opts export.Options) error {
	if format == "xml" {
		return export.WriteXML(w, export.XML(in.tree, opts))
	}
	cal, err := export.ICalendar(in.tree, opts)
	if err != nil {
		return err
	}
	return export.EncodeICalendar(w, cal)
}
