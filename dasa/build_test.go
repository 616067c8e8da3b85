package dasa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

// siblingGroups returns every set of siblings in the tree together with the
// parent that owns it (nil for level 1).
func siblingGroups(tree *Tree) map[*Period][]Period {
	groups := map[*Period][]Period{nil: tree.Periods}
	tree.Walk(func(_ []int, p *Period) bool {
		if len(p.Children) > 0 {
			groups[p] = p.Children
		}
		return true
	})
	return groups
}

func TestBuildTree_FullCycleCoverage(t *testing.T) {
	for _, lord := range Lords() {
		t.Run(lord.String(), func(t *testing.T) {
			tree, err := BuildTree(lord, 0, 1)
			require.NoError(t, err)
			require.Len(t, tree.Periods, LordCount)

			total := 0.0
			for _, p := range tree.Periods {
				total += p.DurationYears
				assert.Nil(t, p.Children)
			}
			assert.InDelta(t, CycleYears, total, tolerance)
			assert.InDelta(t, CycleYears, tree.Span(), tolerance)
		})
	}
}

// Only the active branch may be truncated. Propagating the truncated value
// into the following siblings makes them roughly a hundred times too short.
func TestBuildTree_ActiveBranchTruncationOnly(t *testing.T) {
	tree, err := BuildTree(Ketu, 0.3, 1)
	require.NoError(t, err)

	first := tree.Periods[0]
	assert.Equal(t, Ketu, first.Lord)
	assert.Equal(t, 7.0, first.DurationYears)
	assert.InDelta(t, 4.9, first.RemainingYears, tolerance)
	assert.InDelta(t, 0.3, first.FractionElapsed, tolerance)

	second := tree.Periods[1]
	assert.Equal(t, Venus, second.Lord)
	assert.Equal(t, 20.0, second.DurationYears)
	assert.Equal(t, 20.0, second.RemainingYears)
	assert.NotEqual(t, 7.0*20/120, second.DurationYears)

	for i, p := range tree.Periods[1:] {
		assert.Equal(t, p.Lord.Years(), p.DurationYears, "sibling %d", i+1)
		assert.Zero(t, p.FractionElapsed, "sibling %d", i+1)
	}
}

func TestBuildTree_OneFractionPerSiblingGroup(t *testing.T) {
	tree, err := BuildTree(Rahu, 0.3, 4)
	require.NoError(t, err)

	for parent, siblings := range siblingGroups(tree) {
		require.Len(t, siblings, LordCount)

		truncated := 0
		for i, s := range siblings {
			if s.FractionElapsed > 0 {
				truncated++
				assert.Equal(t, 0, i, "only the first sibling may be truncated")
			}
		}

		if parent == nil || parent.Active {
			assert.Equal(t, 1, truncated)
		} else {
			assert.Equal(t, 0, truncated, "inactive branch %s at level %d", parent.Lord, parent.Level)
		}
	}
}

func TestBuildTree_Contiguity(t *testing.T) {
	tree, err := BuildTree(Moon, 0.62, 3)
	require.NoError(t, err)

	for parent, siblings := range siblingGroups(tree) {
		if parent == nil {
			assert.Zero(t, siblings[0].StartOffset)
		} else {
			assert.InDelta(t, parent.StartOffset, siblings[0].StartOffset, tolerance)
		}
		for i := 0; i < len(siblings)-1; i++ {
			assert.InDelta(t, siblings[i].StartOffset+siblings[i].RemainingYears, siblings[i+1].StartOffset, tolerance)
		}
	}
}

func TestBuildTree_ProportionalScaling(t *testing.T) {
	t.Run("Untruncated active branch", func(t *testing.T) {
		tree, err := BuildTree(Saturn, 0, 2)
		require.NoError(t, err)

		parent := tree.Periods[0]
		assert.True(t, parent.Active)
		require.Len(t, parent.Children, LordCount)
		assert.Equal(t, Saturn, parent.Children[0].Lord)
		for _, child := range parent.Children {
			assert.InDelta(t, 19*child.Lord.Years()/CycleYears, child.DurationYears, tolerance)
			assert.Equal(t, child.DurationYears, child.RemainingYears)
		}
	})

	t.Run("Inactive branches of a truncated tree", func(t *testing.T) {
		tree, err := BuildTree(Venus, 0.45, 3)
		require.NoError(t, err)

		for _, parent := range tree.Periods[1:] {
			sum := 0.0
			for _, child := range parent.Children {
				assert.InDelta(t, parent.DurationYears*child.Lord.Years()/CycleYears, child.DurationYears, tolerance)
				sum += child.DurationYears
			}
			assert.InDelta(t, parent.DurationYears, sum, tolerance)
			assert.Equal(t, parent.Lord, parent.Children[0].Lord)
		}
	})
}

func TestBuildTree_TruncatedParentScaling(t *testing.T) {
	// Ketu at 0.3: 4.9 of 7 years remain; 0.3*9 = 2.7 selects Sun at 0.7.
	tree, err := BuildTree(Ketu, 0.3, 2)
	require.NoError(t, err)

	parent := tree.Periods[0]
	require.InDelta(t, 4.9, parent.RemainingYears, tolerance)

	span := 4.9 / (1 - 6*0.7/CycleYears)
	children := parent.Children
	require.Len(t, children, LordCount)

	tests := []struct {
		lord     Lord
		duration float64
	}{
		{Sun, 0.253886},
		{Moon, 0.423143},
		{Mars, 0.296200},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.lord, children[i].Lord)
		assert.InDelta(t, tt.duration, children[i].DurationYears, 1e-6)
		assert.InDelta(t, span*tt.lord.Years()/CycleYears, children[i].DurationYears, tolerance)
	}
	assert.InDelta(t, 0.7, children[0].FractionElapsed, tolerance)
	assert.InDelta(t, 0.253886*0.3, children[0].RemainingYears, 1e-6)

	// The truncated span, not the parent's full 7 years, scales the children.
	assert.Less(t, children[1].DurationYears, parent.DurationYears*Moon.Years()/CycleYears)
}

func TestBuildTree_ActiveChildrenReconstructRemaining(t *testing.T) {
	for _, fraction := range []float64{0.05, 0.3, 0.5, 0.77, 0.999} {
		tree, err := BuildTree(Venus, fraction, 4)
		require.NoError(t, err)

		for parent, siblings := range siblingGroups(tree) {
			if parent == nil {
				continue
			}
			sum := 0.0
			for _, s := range siblings {
				sum += s.RemainingYears
			}
			if parent.Active {
				assert.InDelta(t, parent.RemainingYears, sum, tolerance, "fraction %v level %d", fraction, parent.Level)
			} else {
				assert.InDelta(t, parent.DurationYears, sum, tolerance, "fraction %v level %d", fraction, parent.Level)
			}
		}
	}
}

func TestBuildTree_ActiveChildSelection(t *testing.T) {
	tree, err := BuildTree(Ketu, 0.3, 3)
	require.NoError(t, err)

	// 0.3 * 9 = 2.7: third lord counted from Ketu, 0.7 elapsed
	level2 := tree.Periods[0].Children
	assert.Equal(t, Sun, level2[0].Lord)
	assert.Equal(t, Moon, level2[1].Lord)
	assert.InDelta(t, 0.7, level2[0].FractionElapsed, tolerance)
	assert.True(t, level2[0].Active)
	assert.False(t, level2[1].Active)

	// 0.7 * 9 = 6.3: seventh lord counted from Sun, 0.3 elapsed
	level3 := level2[0].Children
	assert.Equal(t, Mercury, level3[0].Lord)
	assert.InDelta(t, 0.3, level3[0].FractionElapsed, 1e-6)
}

func TestBuildTree_ZeroFractionKeepsActiveFlag(t *testing.T) {
	tree, err := BuildTree(Mars, 0, 2)
	require.NoError(t, err)

	first := tree.Periods[0]
	assert.True(t, first.Active)
	assert.Equal(t, first.DurationYears, first.RemainingYears)
	assert.True(t, first.Children[0].Active)
	assert.False(t, tree.Periods[1].Active)
	assert.False(t, tree.Periods[1].Children[0].Active)
}

func TestBuildTree_Deterministic(t *testing.T) {
	a, err := BuildTree(Jupiter, 0.4321, 3)
	require.NoError(t, err)
	b, err := BuildTree(Jupiter, 0.4321, 3)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("BuildTree not deterministic (-first +second):\n%s", diff)
	}
}

func TestBuildTree_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		lord     Lord
		fraction float64
		depth    int
		want     error
	}{
		{"Zero depth", Ketu, 0, 0, ErrInvalidDepth},
		{"Negative depth", Ketu, 0, -2, ErrInvalidDepth},
		{"Fraction of one", Ketu, 1, 2, ErrInvalidFraction},
		{"Negative fraction", Ketu, -0.1, 2, ErrInvalidFraction},
		{"Unknown lord", Lord(9), 0, 2, ErrInvalidLord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := BuildTree(tt.lord, tt.fraction, tt.depth)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, tree)
		})
	}
}

func TestTree_Walk(t *testing.T) {
	tree, err := BuildTree(Sun, 0.2, 2)
	require.NoError(t, err)

	visited := 0
	tree.Walk(func(indices []int, p *Period) bool {
		visited++
		assert.Len(t, indices, p.Level)
		return true
	})
	assert.Equal(t, LordCount+LordCount*LordCount, visited)

	topOnly := 0
	tree.Walk(func(_ []int, _ *Period) bool {
		topOnly++
		return false
	})
	assert.Equal(t, LordCount, topOnly)
}
