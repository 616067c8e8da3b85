// Package export renders period trees as iCalendar and XML documents.
package export

import (
	"strings"
	"time"

	"github.com/cyp0633/libdasa/dasa"
)

// Options controls which periods are exported and how their dates are
// computed.
type Options struct {
	Start    float64            // Julian day of the reference instant
	Dates    dasa.DateConverter // Required for iCalendar; XML omits dates when nil
	MaxLevel int                // Deepest level exported, 0 means all
	Name     string             // Calendar or document name
	Stamp    time.Time          // DTSTAMP of exported events, time.Now() when zero
}

func (o *Options) includes(level int) bool {
	return o.MaxLevel <= 0 || level <= o.MaxLevel
}

// lineage returns the lords from level 1 down to the period at indices.
func lineage(tree *dasa.Tree, indices []int) []dasa.Lord {
	lords := make([]dasa.Lord, 0, len(indices))
	periods := tree.Periods
	for _, i := range indices {
		lords = append(lords, periods[i].Lord)
		periods = periods[i].Children
	}
	return lords
}

func joinLords(lords []dasa.Lord) string {
	names := make([]string, len(lords))
	for i, l := range lords {
		names[i] = l.String()
	}
	return strings.Join(names, "/")
}
