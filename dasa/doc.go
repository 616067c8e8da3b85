/*
Package dasa computes vimsottari dasa period trees.

A tree divides one 120-year cycle into nine top-level periods, each ruled by a
Lord, and recursively subdivides every period into nine proportional
sub-periods. The tree is keyed to the Moon's longitude at a reference instant:
the Moon's nakshatra selects the first Lord and the part of the nakshatra the
Moon has already crossed is the part of that first period that has already
elapsed.

# Basic Usage

	pos, err := dasa.Locate(moonLongitude)
	if err != nil {
		return err
	}
	tree, err := dasa.BuildTree(pos.Lord, pos.Fraction, 3)
	if err != nil {
		return err
	}
	path, err := tree.FindActivePath(offsetYears, 3)
	if err != nil {
		return err
	}
	text := dasa.Format(tree.Periods, dasa.FormatOptions{
		EndLevel:    3,
		IndentWidth: 4,
		Filter:      mo.Some(path),
		Start:       natalJD,
		Dates:       julian.NewConverter(),
	})

# Offsets

All offsets and durations are expressed in years relative to the reference
instant. Converting them to calendar dates is the job of a DateConverter; the
julian package provides the default one.

# Engine

Engine wraps the builder with a cache of immutable trees and adds lookups by
calendar time and by recurrence rule.
*/
package dasa
