package dasa

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"

	"github.com/cyp0633/libdasa/julian"
)

// Engine builds, caches and queries period trees.
type Engine struct {
	cache  *TreeCache
	config EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new engine with DefaultEngineConfig
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates a new engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var cache *TreeCache
	if config.CacheEnabled {
		cache = NewTreeCache(config.CacheConfig)
	}

	return &Engine{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Close releases the engine's cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Dates returns the converter used for calendar lookups.
func (e *Engine) Dates() julian.Converter {
	return e.config.Dates
}

// CacheStats returns statistics of the tree cache. Zero when caching is off.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// Build returns the tree for the given parameters, reusing a cached tree when
// one exists.
func (e *Engine) Build(lord Lord, fraction float64, depth int) (*Tree, error) {
	if e.cache != nil {
		if tree, ok := e.cache.Get(lord, fraction, depth); ok {
			e.logger.Debug("tree cache hit", "lord", lord, "fraction", fraction, "depth", depth)
			return tree, nil
		}
	}

	tree, err := BuildTree(lord, fraction, depth)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("built tree", "lord", lord, "fraction", fraction, "depth", depth, "span_years", tree.Span())

	if e.cache != nil {
		e.cache.Set(tree)
	}
	return tree, nil
}

// FromLongitude locates the Moon's longitude and builds the matching tree.
func (e *Engine) FromLongitude(longitude float64, depth int) (*Tree, Position, error) {
	pos, err := Locate(longitude)
	if err != nil {
		return nil, Position{}, err
	}
	tree, err := e.Build(pos.Lord, pos.Fraction, depth)
	if err != nil {
		return nil, Position{}, err
	}
	return tree, pos, nil
}

// ActiveAt returns the path active at calendar time at, for a tree whose
// reference instant is startJD.
func (e *Engine) ActiveAt(tree *Tree, startJD float64, at time.Time, level int) (Path, error) {
	offset := e.config.Dates.OffsetYears(startJD, at)
	path, err := tree.FindActivePath(offset, level)
	if err != nil {
		return nil, fmt.Errorf("lookup at %s: %w", at.Format(time.RFC3339), err)
	}
	e.logger.Debug("active path", "at", at, "offset_years", offset, "lords", path.Lords())
	return path, nil
}

// Sample is the active path at one occurrence of a recurrence rule.
type Sample struct {
	Time   time.Time
	Offset float64 // Years from the reference instant
	Path   mo.Result[Path]
}

// Sample expands rule (an RRULE value without the "RRULE:" prefix) from start,
// the reference instant, up to the end of the tree and looks up the active
// path at every occurrence.
func (e *Engine) Sample(tree *Tree, start time.Time, rule string, level int) ([]Sample, error) {
	if level < 1 || level > tree.Depth {
		return nil, fmt.Errorf("%w: level %d, depth %d", ErrInvalidDepth, level, tree.Depth)
	}

	startJD := julian.FromTime(start)
	horizon := e.config.Dates.OffsetToDate(startJD, tree.Span())

	occurrences, truncated, err := expandRule(start, rule, horizon, e.config.MaxSamples)
	if err != nil {
		return nil, err
	}
	if truncated {
		e.logger.Warn("truncating recurrence samples", "limit", e.config.MaxSamples, "horizon", horizon)
	}

	samples := make([]Sample, 0, len(occurrences))
	for _, occurrence := range occurrences {
		offset := e.config.Dates.OffsetYears(startJD, occurrence)
		samples = append(samples, Sample{
			Time:   occurrence,
			Offset: offset,
			Path:   mo.TupleToResult(tree.FindActivePath(offset, level)),
		})
	}
	return samples, nil
}

// expandRule expands an RRULE anchored at start through end, inclusive.
// At most limit occurrences are produced (0 = unlimited); truncated reports
// whether the rule had more before end.
func expandRule(start time.Time, rule string, end time.Time, limit int) (occurrences []time.Time, truncated bool, err error) {
	dtstart := start.UTC().Format("20060102T150405Z")
	set, err := rrule.StrToRRuleSet(fmt.Sprintf("DTSTART:%s\nRRULE:%s", dtstart, rule))
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse RRULE '%s': %w", rule, err)
	}

	next := set.Iterator()
	for {
		t, ok := next()
		if !ok || t.After(end) {
			return occurrences, false, nil
		}
		if t.Before(start) {
			continue
		}
		if limit > 0 && len(occurrences) == limit {
			return occurrences, true, nil
		}
		occurrences = append(occurrences, t)
	}
}
