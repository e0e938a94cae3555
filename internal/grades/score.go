package grades

import (
	"math"
	"strconv"

	"github.com/MKhiriev/go-study-keeper/models"
)

// Placeholder is how an absent average is rendered.
const Placeholder = "-"

// Score is a one-decimal value stored as tenths. The zero value is invalid
// and stands for "no value yet".
type Score struct {
	tenths int64
	valid  bool
}

// NewScore builds a valid score from tenths.
func NewScore(tenths int64) Score {
	return Score{tenths: tenths, valid: true}
}

// FromFloat rounds f half-up to one decimal.
func FromFloat(f float64) Score {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Score{}
	}
	return NewScore(toTenths(f))
}

// Valid reports whether s holds a value.
func (s Score) Valid() bool { return s.valid }

// Tenths returns the value in tenths.
func (s Score) Tenths() int64 { return s.tenths }

// Float returns the value as a float64; 0 when invalid.
func (s Score) Float() float64 {
	return float64(s.tenths) / 10
}

// String renders the score with one decimal, or [Placeholder].
func (s Score) String() string {
	if !s.valid {
		return Placeholder
	}
	return strconv.FormatFloat(s.Float(), 'f', 1, 64)
}

// toTenths converts a score to tenths rounding half away from zero. Inputs
// already carrying one decimal convert exactly.
func toTenths(f float64) int64 {
	return int64(math.Round(f * 10))
}

// divHalfUp divides num by den (den > 0) rounding half-up.
func divHalfUp(num, den int64) int64 {
	if num >= 0 {
		return (2*num + den) / (2 * den)
	}
	return -((-2*num + den - 1) / (2 * den))
}

func sumTenths(entries []models.GradeEntry) int64 {
	var sum int64
	for _, e := range entries {
		sum += toTenths(e.Score)
	}
	return sum
}
