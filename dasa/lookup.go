package dasa

import "fmt"

// Step is one level of an active path.
type Step struct {
	Index  int     // Sibling index within the parent's children
	Period *Period // The selected period, owned by the tree
}

// Path is an outermost-first lineage of periods, one per level.
type Path []Step

// Periods returns the periods of the path.
func (p Path) Periods() []Period {
	out := make([]Period, len(p))
	for i, s := range p {
		out[i] = *s.Period
	}
	return out
}

// Indices returns the sibling index selected at each level.
func (p Path) Indices() []int {
	out := make([]int, len(p))
	for i, s := range p {
		out[i] = s.Index
	}
	return out
}

// Lords returns the lord at each level.
func (p Path) Lords() []Lord {
	out := make([]Lord, len(p))
	for i, s := range p {
		out[i] = s.Period.Lord
	}
	return out
}

// Innermost returns the deepest period of the path, or nil for an empty path.
func (p Path) Innermost() *Period {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1].Period
}

// FindActivePath returns the lineage of periods down to targetLevel whose
// intervals contain targetOffset.
func (t *Tree) FindActivePath(targetOffset float64, targetLevel int) (Path, error) {
	if targetLevel > t.Depth {
		return nil, fmt.Errorf("%w: target level %d exceeds depth %d", ErrInvalidDepth, targetLevel, t.Depth)
	}
	return FindActivePath(t.Periods, targetOffset, targetLevel)
}

// FindActivePath scans the siblings at each level for the one whose half-open
// interval [StartOffset, StartOffset+RemainingYears) contains targetOffset and
// descends into its children until targetLevel is reached.
func FindActivePath(periods []Period, targetOffset float64, targetLevel int) (Path, error) {
	if targetLevel < 1 {
		return nil, fmt.Errorf("%w: target level %d", ErrInvalidDepth, targetLevel)
	}

	path := make(Path, 0, targetLevel)
	siblings := periods
	for level := 1; level <= targetLevel; level++ {
		if len(siblings) == 0 {
			return nil, fmt.Errorf("%w: no periods below level %d", ErrInvalidDepth, level-1)
		}

		index := -1
		for i := range siblings {
			if siblings[i].Contains(targetOffset) {
				index = i
				break
			}
		}
		if index < 0 {
			last := &siblings[len(siblings)-1]
			return nil, &RangeError{
				Offset: targetOffset,
				Level:  level,
				Start:  siblings[0].StartOffset,
				End:    last.End(),
			}
		}

		path = append(path, Step{Index: index, Period: &siblings[index]})
		siblings = siblings[index].Children
	}
	return path, nil
}
