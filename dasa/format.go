package dasa

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

// DateLayout is the layout used for period start dates.
const DateLayout = "2006-01-02 15:04:05"

// DateConverter turns an offset in years from a reference instant, given as a
// julian day, into a calendar time.
type DateConverter interface {
	OffsetToDate(startJD, offsetYears float64) time.Time
}

// FormatOptions controls Format.
type FormatOptions struct {
	StartLevel  int // First level emitted, defaults to 1
	EndLevel    int // Last level emitted, 0 means every materialized level
	IndentWidth int // Spaces per level below level 1

	// Filter restricts the output to the sibling selected by the path at each
	// level it covers. Levels below the path are emitted in full.
	Filter mo.Option[Path]

	Start float64       // Julian day of the reference instant
	Dates DateConverter // Start date column is omitted when nil
}

// Format renders periods as an indented table, one line per period with its
// lord, remaining years and start date. Levels are taken from the periods, so
// a Children slice may be passed; the filter path still starts at level 1.
func Format(periods []Period, opts FormatOptions) string {
	if opts.StartLevel < 1 {
		opts.StartLevel = 1
	}

	var filter []int
	if path, ok := opts.Filter.Get(); ok {
		filter = path.Indices()
	}

	level := 1
	if len(periods) > 0 && periods[0].Level > 1 {
		level = periods[0].Level
	}

	var b strings.Builder
	formatLevel(&b, periods, level, filter, &opts)
	return b.String()
}

func formatLevel(b *strings.Builder, periods []Period, level int, filter []int, opts *FormatOptions) {
	if opts.EndLevel > 0 && level > opts.EndLevel {
		return
	}
	for i := range periods {
		if level <= len(filter) && i != filter[level-1] {
			continue
		}
		p := &periods[i]
		if level >= opts.StartLevel {
			writePeriod(b, p, opts)
		}
		formatLevel(b, p.Children, level+1, filter, opts)
	}
}

func writePeriod(b *strings.Builder, p *Period, opts *FormatOptions) {
	indent := (p.Level - 1) * opts.IndentWidth
	fmt.Fprintf(b, "%s%-8s %9.4f", strings.Repeat(" ", indent), p.Lord, p.RemainingYears)
	if opts.Dates != nil {
		date := opts.Dates.OffsetToDate(opts.Start, p.StartOffset)
		b.WriteString("  ")
		b.WriteString(date.Format(DateLayout))
	}
	b.WriteByte('\n')
}
