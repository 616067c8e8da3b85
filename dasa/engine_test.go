package dasa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/libdasa/julian"
)

func TestEngine_BuildUsesCache(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	first, err := engine.Build(Venus, 0.3, 3)
	require.NoError(t, err)
	second, err := engine.Build(Venus, 0.3, 3)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, engine.CacheStats().TotalEntries)
}

func TestEngine_DisabledCache(t *testing.T) {
	engine := NewEngineWithConfig(DisabledCacheConfig)
	defer engine.Close()

	first, err := engine.Build(Venus, 0.3, 2)
	require.NoError(t, err)
	second, err := engine.Build(Venus, 0.3, 2)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
	assert.Zero(t, engine.CacheStats().TotalEntries)
}

func TestEngine_BuildError(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	_, err := engine.Build(Ketu, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDepth)
	assert.Zero(t, engine.CacheStats().TotalEntries)
}

func TestEngine_FromLongitude(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	tree, pos, err := engine.FromLongitude(200, 2)
	require.NoError(t, err)
	assert.Equal(t, Jupiter, pos.Lord)
	assert.Equal(t, 15, pos.Nakshatra)
	assert.Equal(t, Jupiter, tree.Lord)
	assert.Equal(t, 16.0, tree.Periods[0].RemainingYears)

	_, _, err = engine.FromLongitude(361, 2)
	assert.ErrorIs(t, err, ErrInvalidLongitude)
}

func TestEngine_ActiveAt(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	birth := time.Date(1990, 4, 12, 6, 30, 0, 0, time.UTC)
	birthJD := julian.FromTime(birth)

	tree, err := engine.Build(Ketu, 0, 2)
	require.NoError(t, err)

	// Ketu runs for 7 years, then Venus.
	path, err := engine.ActiveAt(tree, birthJD, birth.AddDate(3, 0, 0), 1)
	require.NoError(t, err)
	assert.Equal(t, []Lord{Ketu}, path.Lords())

	path, err = engine.ActiveAt(tree, birthJD, birth.AddDate(8, 0, 0), 2)
	require.NoError(t, err)
	assert.Equal(t, []Lord{Venus, Venus}, path.Lords())

	_, err = engine.ActiveAt(tree, birthJD, birth.AddDate(-1, 0, 0), 1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = engine.ActiveAt(tree, birthJD, birth.AddDate(130, 0, 0), 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestEngine_Sample(t *testing.T) {
	start := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Yearly with count", func(t *testing.T) {
		engine := NewEngine()
		defer engine.Close()

		tree, err := engine.Build(Ketu, 0, 2)
		require.NoError(t, err)

		samples, err := engine.Sample(tree, start, "FREQ=YEARLY;COUNT=10", 2)
		require.NoError(t, err)
		require.Len(t, samples, 10)

		for i, s := range samples {
			assert.True(t, start.AddDate(i, 0, 0).Equal(s.Time), "occurrence %d at %s", i, s.Time)
			path, err := s.Path.Get()
			require.NoError(t, err)
			assert.True(t, path[0].Period.Contains(s.Offset))
			assert.Len(t, path, 2)
		}
		first, _ := samples[0].Path.Get()
		assert.Equal(t, Ketu, first[0].Period.Lord)
		last, _ := samples[9].Path.Get()
		assert.Equal(t, Venus, last[0].Period.Lord)
	})

	t.Run("Open-ended rule stops at the horizon", func(t *testing.T) {
		engine := NewEngine()
		defer engine.Close()

		tree, err := engine.Build(Ketu, 0, 1)
		require.NoError(t, err)

		samples, err := engine.Sample(tree, start, "FREQ=YEARLY", 1)
		require.NoError(t, err)
		require.Len(t, samples, 121)
		for _, s := range samples {
			assert.True(t, s.Path.IsOk(), "sample at %s", s.Time)
		}
	})

	t.Run("Sample limit", func(t *testing.T) {
		config := DisabledCacheConfig
		config.MaxSamples = 50
		engine := NewEngineWithConfig(config)
		defer engine.Close()

		tree, err := engine.Build(Ketu, 0, 1)
		require.NoError(t, err)

		samples, err := engine.Sample(tree, start, "FREQ=YEARLY", 1)
		require.NoError(t, err)
		assert.Len(t, samples, 50)
	})

	t.Run("Sample limit bounds expansion of fine rules", func(t *testing.T) {
		config := DisabledCacheConfig
		config.MaxSamples = 5
		engine := NewEngineWithConfig(config)
		defer engine.Close()

		tree, err := engine.Build(Ketu, 0, 1)
		require.NoError(t, err)

		began := time.Now()
		samples, err := engine.Sample(tree, start, "FREQ=SECONDLY", 1)
		require.NoError(t, err)
		assert.Less(t, time.Since(began), time.Second)

		require.Len(t, samples, 5)
		for i, s := range samples {
			assert.True(t, start.Add(time.Duration(i)*time.Second).Equal(s.Time), "occurrence %d at %s", i, s.Time)
		}
	})

	t.Run("Invalid input", func(t *testing.T) {
		engine := NewEngine()
		defer engine.Close()

		tree, err := engine.Build(Ketu, 0, 1)
		require.NoError(t, err)

		_, err = engine.Sample(tree, start, "FREQ=SOMETIMES", 1)
		assert.Error(t, err)

		_, err = engine.Sample(tree, start, "FREQ=YEARLY", 2)
		assert.ErrorIs(t, err, ErrInvalidDepth)
	})
}
