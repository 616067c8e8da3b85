package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/cyp0633/libdasa/chart"
	"github.com/cyp0633/libdasa/dasa"
	"github.com/cyp0633/libdasa/julian"
)

var errNoInput = errors.New("either --chart or both --moon and --date are required")

// timeLayouts are accepted by --date and --at in addition to RFC 3339.
// Times without an offset are read in the configured timezone.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// input is the resolved natal data of a command invocation.
type input struct {
	name    string
	start   time.Time
	startJD float64
	pos     dasa.Position
	tree    *dasa.Tree
	target  mo.Option[time.Time]
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("moon", 0, "natal Moon sidereal longitude in degrees [0, 360)")
	cmd.Flags().String("date", "", "natal date and time (RFC 3339 or YYYY-MM-DD[ HH:MM[:SS]])")
	cmd.Flags().String("chart", "", "chart TOML file providing the natal data")
	cmd.Flags().Int("depth", 0, "number of levels to build (default from config)")
}

// resolveInput reads the natal data from --chart or --moon/--date and builds
// the tree.
func (r *runtime) resolveInput(cmd *cobra.Command) (*input, error) {
	flags := cmd.Flags()
	chartPath, _ := flags.GetString("chart")

	if chartPath != "" {
		c, err := chart.Load(chartPath)
		if err != nil {
			return nil, err
		}
		return r.inputFromChart(cmd, c)
	}

	if !flags.Changed("moon") || !flags.Changed("date") {
		return nil, errNoInput
	}
	longitude, _ := flags.GetFloat64("moon")
	dateStr, _ := flags.GetString("date")
	start, err := parseTime(dateStr, r.dates.Location)
	if err != nil {
		return nil, fmt.Errorf("--date: %w", err)
	}
	return r.build(cmd, "", start, longitude, r.cfg.Depth, mo.None[time.Time]())
}

func (r *runtime) inputFromChart(cmd *cobra.Command, c *chart.Chart) (*input, error) {
	depth := r.cfg.Depth
	if c.Depth > 0 {
		depth = c.Depth
	}
	target := mo.None[time.Time]()
	if c.Target != nil {
		target = mo.Some(c.Target.Time)
	}
	return r.build(cmd, c.Name, c.Natal.Time, c.Longitude(), depth, target)
}

func (r *runtime) build(cmd *cobra.Command, name string, start time.Time, longitude float64, depth int, target mo.Option[time.Time]) (*input, error) {
	if d, _ := cmd.Flags().GetInt("depth"); d > 0 {
		depth = d
	}

	tree, pos, err := r.engine.FromLongitude(longitude, depth)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolved input", "name", name, "start", start, "nakshatra", pos.Nakshatra, "lord", pos.Lord, "depth", depth)

	return &input{
		name:    name,
		start:   start,
		startJD: julian.FromTime(start),
		pos:     pos,
		tree:    tree,
		target:  target,
	}, nil
}

// parseTime accepts RFC 3339 or one of timeLayouts interpreted in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

// header describes the natal position above printed trees.
func (in *input) header() string {
	title := in.name
	if title == "" {
		title = in.start.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s: nakshatra %d, %s dasa, %.4f elapsed\n",
		title, in.pos.Nakshatra+1, in.pos.Lord, in.pos.Fraction)
}
