package dasa

import (
	"fmt"
	"math"
)

// BuildTree materializes the period tree for a reference instant at which
// lord rules and fraction of its period has elapsed. maxDepth levels are
// built; maxDepth = 1 yields nine flat periods.
//
// Only the first period at each level of the active lineage is truncated by
// its elapsed fraction. Every other period keeps its full nominal length.
func BuildTree(lord Lord, fraction float64, maxDepth int) (*Tree, error) {
	if !lord.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLord, int(lord))
	}
	if math.IsNaN(fraction) || fraction < 0 || fraction >= 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFraction, fraction)
	}
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: max depth %d", ErrInvalidDepth, maxDepth)
	}

	return &Tree{
		Lord:     lord,
		Fraction: fraction,
		Depth:    maxDepth,
		Periods:  buildLevel(lord, fraction, CycleYears, 0, 1, maxDepth, true),
	}, nil
}

// buildLevel lays out nine contiguous siblings starting at start, the first
// ruled by lord. span is the total nominal length of the nine siblings.
func buildLevel(lord Lord, fraction, span, start float64, level, maxDepth int, active bool) []Period {
	periods := make([]Period, LordCount)
	offset := start
	for i, l := range Sequence(lord) {
		p := Period{
			Lord:          l,
			Level:         level,
			DurationYears: span * l.Years() / CycleYears,
			StartOffset:   offset,
		}
		p.RemainingYears = p.DurationYears
		if i == 0 {
			p.Active = active
			p.FractionElapsed = fraction
			p.RemainingYears = p.DurationYears * (1 - fraction)
		}
		if level < maxDepth {
			p.Children = buildChildren(&p, maxDepth)
		}
		periods[i] = p
		offset += p.RemainingYears
	}
	return periods
}

func buildChildren(parent *Period, maxDepth int) []Period {
	lord, fraction := subdivide(parent.Lord, parent.FractionElapsed)

	// The children of a truncated period are laid out so that their remaining
	// lengths add up to the parent's remaining length. For an untruncated
	// parent this reduces to span = parent.DurationYears.
	span := parent.RemainingYears / (1 - lord.Years()*fraction/CycleYears)

	return buildLevel(lord, fraction, span, parent.StartOffset, parent.Level+1, maxDepth, parent.Active)
}

// subdivide splits the parent's elapsed fraction into nine equal slices and
// returns the lord of the slice containing it, counted from the parent's lord,
// and the fraction elapsed within that slice.
func subdivide(parent Lord, fraction float64) (Lord, float64) {
	if fraction <= 0 {
		return parent, 0
	}

	scaled := fraction * LordCount
	index := int(math.Floor(scaled))
	if index > LordCount-1 {
		index = LordCount - 1
	}

	sub := scaled - float64(index)
	if sub >= 1 {
		sub = math.Nextafter(1, 0)
	}

	return Sequence(parent)[index], sub
}
