package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/cyp0633/libdasa/dasa"
)

// PropLevel is the non-standard property carrying a period's level.
const PropLevel = "X-DASA-LEVEL"

const productID = "-//github.com/cyp0633/libdasa//NONSGML v1.0//EN"

// uidNamespace scopes the name-based UUIDs of exported events.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/cyp0633/libdasa"))

// ErrNoDates is returned when an export needs calendar dates but no
// DateConverter was given.
var ErrNoDates = errors.New("export requires a date converter")

// ICalendar builds a VCALENDAR with one VEVENT per period. Event UIDs are
// derived from the reference instant and the period's position in the tree,
// so exporting the same tree twice yields the same UIDs.
func ICalendar(tree *dasa.Tree, opts Options) (*ical.Calendar, error) {
	if opts.Dates == nil {
		return nil, ErrNoDates
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	if opts.Name != "" {
		cal.Props.SetText(ical.PropName, opts.Name)
	}

	tree.Walk(func(indices []int, p *dasa.Period) bool {
		if !opts.includes(p.Level) {
			return false
		}
		lords := lineage(tree, indices)

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, eventUID(opts.Start, indices).String())
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, opts.Dates.OffsetToDate(opts.Start, p.StartOffset).UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, opts.Dates.OffsetToDate(opts.Start, p.End()).UTC())
		event.Props.SetText(ical.PropSummary, joinLords(lords))
		event.Props.SetText(ical.PropDescription, fmt.Sprintf("Level %d, %.4f of %.4f years", p.Level, p.RemainingYears, p.DurationYears))
		event.Props.SetText(PropLevel, strconv.Itoa(p.Level))

		cal.Children = append(cal.Children, event.Component)
		return opts.includes(p.Level + 1)
	})

	return cal, nil
}

func eventUID(start float64, indices []int) uuid.UUID {
	name := strconv.FormatFloat(start, 'f', -1, 64)
	for _, i := range indices {
		name += "/" + strconv.Itoa(i)
	}
	return uuid.NewSHA1(uidNamespace, []byte(name))
}

// EncodeICalendar writes cal in iCalendar format.
func EncodeICalendar(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// Event is a period read back from an exported calendar.
type Event struct {
	UID     string
	Summary string
	Level   int
	Start   time.Time
	End     time.Time
}

// ParseEvents decodes a calendar produced by ICalendar.
func ParseEvents(r io.Reader) ([]Event, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	var events []Event
	for _, ev := range cal.Events() {
		var e Event
		if e.UID, err = ev.Props.Text(ical.PropUID); err != nil {
			return nil, err
		}
		if e.Summary, err = ev.Props.Text(ical.PropSummary); err != nil {
			return nil, err
		}
		if e.Start, err = ev.DateTimeStart(time.UTC); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.UID, err)
		}
		if e.End, err = ev.DateTimeEnd(time.UTC); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.UID, err)
		}
		if prop := ev.Props.Get(PropLevel); prop != nil {
			if e.Level, err = strconv.Atoi(prop.Value); err != nil {
				return nil, fmt.Errorf("event %s: bad %s: %w", e.UID, PropLevel, err)
			}
		}
		events = append(events, e)
	}
	return events, nil
}
