package dasa

import (
	"fmt"
	"math"
)

// Nakshatras is the number of equal segments of the ecliptic.
const Nakshatras = 27

// NakshatraWidth is the width of one segment in degrees.
const NakshatraWidth = 360.0 / Nakshatras

// Position is the result of locating a longitude among the nakshatras.
type Position struct {
	Nakshatra int     // 0-based segment index, 0..26
	Lord      Lord    // Ruler of the segment
	Fraction  float64 // Part of the segment already crossed, [0, 1)
}

// Locate maps an ecliptic longitude in degrees to its nakshatra, ruling lord
// and elapsed fraction.
func Locate(longitude float64) (Position, error) {
	if math.IsNaN(longitude) || longitude < 0 || longitude >= 360 {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidLongitude, longitude)
	}

	// Multiplying before dividing keeps exact boundaries exact (200° -> 15.0).
	scaled := longitude * Nakshatras / 360
	index := int(math.Floor(scaled))
	if index < 0 {
		index = 0
	}
	if index > Nakshatras-1 {
		index = Nakshatras - 1
	}

	fraction := scaled - float64(index)
	if fraction < 0 {
		fraction = 0
	}
	if fraction >= 1 {
		fraction = math.Nextafter(1, 0)
	}

	return Position{
		Nakshatra: index,
		Lord:      Lord(index % LordCount),
		Fraction:  fraction,
	}, nil
}
