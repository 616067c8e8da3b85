package dasa

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindActivePath_RoundTrip(t *testing.T) {
	tree, err := BuildTree(Mercury, 0.37, 3)
	require.NoError(t, err)

	for k := range tree.Periods {
		target := tree.Periods[k].StartOffset + 1e-7
		path, err := tree.FindActivePath(target, 1)
		require.NoError(t, err)
		require.Len(t, path, 1)
		assert.Equal(t, k, path[0].Index)
		assert.Same(t, &tree.Periods[k], path[0].Period)
	}
}

func TestFindActivePath_Descends(t *testing.T) {
	tree, err := BuildTree(Venus, 0.25, 3)
	require.NoError(t, err)

	for _, target := range []float64{0, 1.5, 14.999, 15, 40.2, 88.8, tree.Span() - 1e-6} {
		path, err := tree.FindActivePath(target, 3)
		require.NoError(t, err, "target %v", target)
		require.Len(t, path, 3)

		siblings := tree.Periods
		for level, step := range path {
			assert.Equal(t, level+1, step.Period.Level)
			assert.True(t, step.Period.Contains(target), "level %d does not contain %v", level+1, target)
			assert.Same(t, &siblings[step.Index], step.Period)
			siblings = step.Period.Children
		}
	}
}

func TestFindActivePath_ReferenceInstantIsActiveBranch(t *testing.T) {
	tree, err := BuildTree(Moon, 0.6, 3)
	require.NoError(t, err)

	path, err := tree.FindActivePath(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, path.Indices())
	for _, p := range path.Periods() {
		assert.True(t, p.Active)
	}
}

func TestFindActivePath_PathAccessors(t *testing.T) {
	tree, err := BuildTree(Ketu, 0, 2)
	require.NoError(t, err)

	// Ketu covers [0, 7), Venus starts at 7; its first sub-period is Venus.
	path, err := tree.FindActivePath(7.5, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0}, path.Indices())
	assert.Equal(t, []Lord{Venus, Venus}, path.Lords())
	assert.Same(t, &tree.Periods[1].Children[0], path.Innermost())

	want := []Period{tree.Periods[1], tree.Periods[1].Children[0]}
	if diff := cmp.Diff(want, path.Periods()); diff != "" {
		t.Errorf("Periods() mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, Path(nil).Innermost())
}

func TestFindActivePath_OutOfRange(t *testing.T) {
	tree, err := BuildTree(Ketu, 0, 1)
	require.NoError(t, err)

	for _, target := range []float64{500, -0.5, tree.Span()} {
		path, err := tree.FindActivePath(target, 1)
		assert.Nil(t, path)
		require.ErrorIs(t, err, ErrOutOfRange, "target %v", target)

		var rangeErr *RangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, target, rangeErr.Offset)
		assert.Equal(t, 1, rangeErr.Level)
		assert.Zero(t, rangeErr.Start)
		assert.InDelta(t, CycleYears, rangeErr.End, tolerance)
	}
}

func TestFindActivePath_InvalidDepth(t *testing.T) {
	tree, err := BuildTree(Ketu, 0.5, 2)
	require.NoError(t, err)

	_, err = tree.FindActivePath(1, 3)
	assert.ErrorIs(t, err, ErrInvalidDepth)

	_, err = tree.FindActivePath(1, 0)
	assert.ErrorIs(t, err, ErrInvalidDepth)

	// A raw sibling slice has no recorded depth; running out of children is
	// reported the same way.
	_, err = FindActivePath(tree.Periods, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidDepth)
}
