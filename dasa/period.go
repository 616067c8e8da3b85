package dasa

// Period is one node of a period tree.
type Period struct {
	Lord  Lord // Ruler of this period
	Level int  // Nesting depth, 1 is outermost

	// Active marks the branch that contains the reference instant. Only the
	// first sibling of an active parent (or the first level-1 period) is active.
	Active bool

	FractionElapsed float64 // Part already elapsed at the reference instant
	DurationYears   float64 // Full nominal length
	RemainingYears  float64 // DurationYears * (1 - FractionElapsed)
	StartOffset     float64 // Years from the reference instant

	Children []Period // Nine sub-periods, nil at the deepest level
}

// End returns the offset at which the period ends (exclusive).
func (p *Period) End() float64 {
	return p.StartOffset + p.RemainingYears
}

// Contains reports whether offset lies in [StartOffset, End()).
func (p *Period) Contains(offset float64) bool {
	return offset >= p.StartOffset && offset < p.End()
}

// Tree is the result of BuildTree. It is immutable and safe for concurrent
// readers.
type Tree struct {
	Lord     Lord     // Lord active at the reference instant
	Fraction float64  // Elapsed fraction of the first level-1 period
	Depth    int      // Number of materialized levels
	Periods  []Period // The nine level-1 periods
}

// Span returns the number of years covered by the tree from the reference
// instant.
func (t *Tree) Span() float64 {
	if len(t.Periods) == 0 {
		return 0
	}
	return t.Periods[len(t.Periods)-1].End() - t.Periods[0].StartOffset
}

// Walk visits every period depth-first, outermost first. indices holds the
// sibling index at each level down to p. Returning false from fn skips p's
// children. The indices slice is reused between calls.
func (t *Tree) Walk(fn func(indices []int, p *Period) bool) {
	walk(t.Periods, make([]int, 0, t.Depth), fn)
}

func walk(periods []Period, indices []int, fn func([]int, *Period) bool) {
	for i := range periods {
		idx := append(indices, i)
		if fn(idx, &periods[i]) && len(periods[i].Children) > 0 {
			walk(periods[i].Children, idx, fn)
		}
	}
}
