package domain

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics holds the panel summary of a field.
type Statistics struct {
	Bias  float64 // round(mean(field), 2)
	RMSE  float64 // round(sqrt(mean(field²)), 2)
	Count int     // non-NaN cells used
}

// ComputeStatistics computes bias and RMSE over the non-NaN cells of f.
// A field with no valid cells yields NaN for both.
func ComputeStatistics(f TemperatureField) Statistics {
	vals := make([]float64, 0, len(f.Lat)*len(f.Lon))
	for _, row := range f.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return Statistics{Bias: math.NaN(), RMSE: math.NaN()}
	}

	mean := stat.Mean(vals, nil)
	meanSquare := floats.Dot(vals, vals) / float64(len(vals))

	return Statistics{
		Bias:  Round2(mean),
		RMSE:  Round2(math.Sqrt(meanSquare)),
		Count: len(vals),
	}
}

// Label renders the two-line panel annotation.
func (s Statistics) Label() string {
	return "RMSE: " + FormatValue(s.RMSE) + " \nBIAS: " + FormatValue(s.Bias)
}

// Round2 rounds half-to-even at two decimals.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.RoundToEven(v*100) / 100
}

// FormatValue prints v the shortest way that round-trips, always with a
// fractional part: 0 → "0.0", 1.25 → "1.25", NaN → "nan".
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
