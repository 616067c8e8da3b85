package dasa

import (
	"log/slog"

	"github.com/cyp0633/libdasa/julian"
)

// EngineConfig holds configuration options for the engine
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// Dates converts offsets to calendar time and back.
	Dates julian.Converter

	// MaxSamples caps the number of recurrence occurrences examined by Sample
	// (0 = unlimited).
	MaxSamples int

	// Logger receives debug output. Logging is discarded when nil.
	Logger *slog.Logger
}

// DefaultEngineConfig provides sensible defaults
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
	Dates:        julian.NewConverter(),
	MaxSamples:   10000,
}

// DisabledCacheConfig turns off caching entirely
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
	Dates:        julian.NewConverter(),
	MaxSamples:   10000,
}
