// Package chart reads chart files: TOML documents that describe the natal
// event of a period tree and an optional target event to look up.
package chart

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrInvalidChart is returned when a chart file is missing required fields or
// carries out-of-range values.
var ErrInvalidChart = errors.New("invalid chart")

// Event is a moment of interest. MoonLongitude is produced by an ephemeris
// outside this module and is only required for the natal event.
type Event struct {
	Name          string    `toml:"name,omitempty"`
	Time          time.Time `toml:"time"`
	Place         string    `toml:"place,omitempty"`
	MoonLongitude *float64  `toml:"moon_longitude,omitempty"`
}

// Chart is the content of a chart file.
type Chart struct {
	Name   string `toml:"name"`
	Depth  int    `toml:"depth,omitempty"` // Overrides the configured depth when > 0
	Natal  *Event `toml:"natal"`
	Target *Event `toml:"target,omitempty"`
}

// Load reads and validates a chart file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chart: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates chart TOML.
func Parse(data []byte) (*Chart, error) {
	var c Chart
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing chart TOML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the chart as TOML.
func (c *Chart) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Save writes the chart to path.
func (c *Chart) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks required fields.
func (c *Chart) Validate() error {
	if c.Natal == nil || c.Natal.Time.IsZero() {
		return fmt.Errorf("%w: natal time is required", ErrInvalidChart)
	}
	if c.Natal.MoonLongitude == nil {
		return fmt.Errorf("%w: natal moon_longitude is required", ErrInvalidChart)
	}
	if lon := *c.Natal.MoonLongitude; lon < 0 || lon >= 360 {
		return fmt.Errorf("%w: natal moon_longitude %v outside [0, 360)", ErrInvalidChart, lon)
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: negative depth %d", ErrInvalidChart, c.Depth)
	}
	if c.Target != nil && c.Target.Time.IsZero() {
		return fmt.Errorf("%w: target time is required when a target is given", ErrInvalidChart)
	}
	return nil
}

// Longitude returns the natal Moon longitude. Only valid after Validate.
func (c *Chart) Longitude() float64 {
	return *c.Natal.MoonLongitude
}
