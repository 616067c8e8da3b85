package dasa

import "fmt"

// Lord is one of the nine rulers of a period.
type Lord int

const (
	Ketu Lord = iota
	Venus
	Sun
	Moon
	Mars
	Rahu
	Jupiter
	Saturn
	Mercury
)

// LordCount is the number of lords, and the number of siblings at every level.
const LordCount = 9

// CycleYears is the length of one full top-level cycle.
const CycleYears = 120.0

var lordYears = [LordCount]float64{
	Ketu:    7,
	Venus:   20,
	Sun:     6,
	Moon:    10,
	Mars:    7,
	Rahu:    18,
	Jupiter: 16,
	Saturn:  19,
	Mercury: 17,
}

var lordNames = [LordCount]string{
	Ketu:    "Ketu",
	Venus:   "Venus",
	Sun:     "Sun",
	Moon:    "Moon",
	Mars:    "Mars",
	Rahu:    "Rahu",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
	Mercury: "Mercury",
}

// Lords returns the nine lords in canonical order.
func Lords() []Lord {
	return Sequence(Ketu)
}

// Valid reports whether l is one of the nine lords.
func (l Lord) Valid() bool {
	return l >= 0 && l < LordCount
}

// Years returns the lord's nominal share of the 120-year cycle, or 0 for an
// invalid lord.
func (l Lord) Years() float64 {
	if !l.Valid() {
		return 0
	}
	return lordYears[l]
}

// String provides a human-readable representation of the Lord.
func (l Lord) String() string {
	if !l.Valid() {
		return fmt.Sprintf("L%d", int(l))
	}
	return lordNames[l]
}

// Token returns the opaque identifier L0..L8.
func (l Lord) Token() string {
	return fmt.Sprintf("L%d", int(l))
}

// ParseLord accepts either a lord name (case-sensitive) or a token L0..L8.
func ParseLord(s string) (Lord, error) {
	for i, name := range lordNames {
		if s == name || s == Lord(i).Token() {
			return Lord(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lord %q", s)
}

// Sequence returns the canonical order rotated so that start comes first.
func Sequence(start Lord) []Lord {
	seq := make([]Lord, LordCount)
	for i := range seq {
		seq[i] = Lord((int(start) + i) % LordCount)
	}
	return seq
}
