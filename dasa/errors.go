package dasa

import (
	"errors"
	"fmt"
)

// Input errors
var (
	// ErrInvalidLongitude is returned when a longitude lies outside [0, 360).
	ErrInvalidLongitude = errors.New("longitude out of range")

	// ErrInvalidFraction is returned when an elapsed fraction lies outside [0, 1).
	ErrInvalidFraction = errors.New("fraction out of range")

	// ErrInvalidLord is returned for a Lord value outside L0..L8.
	ErrInvalidLord = errors.New("invalid lord")

	// ErrInvalidDepth is returned when a depth or target level is below 1 or
	// deeper than the tree was built.
	ErrInvalidDepth = errors.New("invalid depth")
)

// Lookup errors
var (
	// ErrOutOfRange is returned when a lookup offset is not covered by the tree.
	ErrOutOfRange = errors.New("offset outside materialized periods")
)

// RangeError describes a lookup that fell outside the covered span.
type RangeError struct {
	Offset float64 // Queried offset in years
	Level  int     // Level at which no period matched
	Start  float64 // First covered offset at that level
	End    float64 // End of the covered span at that level (exclusive)
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("offset %.6f not in [%.6f, %.6f) at level %d", e.Offset, e.Start, e.End, e.Level)
}

// Unwrap lets errors.Is match ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
