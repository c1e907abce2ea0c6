package domain

import (
	"fmt"
	"math"
)

// TemperatureField is a 2D grid of temperatures in °C over a lon/lat grid.
type TemperatureField struct {
	Lon    []float64
	Lat    []float64
	Values [][]float64 // [lat][lon]
	Units  string
}

// Dims returns the number of latitude rows and longitude columns.
func (f TemperatureField) Dims() (rows, cols int) {
	return len(f.Lat), len(f.Lon)
}

// Validate checks that Values matches the coordinate arrays and that both
// coordinate arrays are strictly monotonic. Errors wrap ErrInputShape.
func (f TemperatureField) Validate() error {
	rows, cols := f.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("%w: empty coordinates (lat=%d, lon=%d)", ErrInputShape, rows, cols)
	}
	if len(f.Values) != rows {
		return fmt.Errorf("%w: %d value rows for %d latitudes", ErrInputShape, len(f.Values), rows)
	}
	for i, row := range f.Values {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d values for %d longitudes", ErrInputShape, i, len(row), cols)
		}
	}
	if !strictlyMonotonic(f.Lon) {
		return fmt.Errorf("%w: longitudes are not strictly monotonic", ErrInputShape)
	}
	if !strictlyMonotonic(f.Lat) {
		return fmt.Errorf("%w: latitudes are not strictly monotonic", ErrInputShape)
	}
	return nil
}

// Flatten returns all values in row-major order, NaN cells included.
func (f TemperatureField) Flatten() []float64 {
	rows, cols := f.Dims()
	out := make([]float64, 0, rows*cols)
	for _, row := range f.Values {
		out = append(out, row...)
	}
	return out
}

// strictlyMonotonic reports whether xs is strictly increasing or strictly
// decreasing. A single coordinate counts as monotonic.
func strictlyMonotonic(xs []float64) bool {
	if len(xs) == 0 || math.IsNaN(xs[0]) {
		return false
	}
	if len(xs) == 1 {
		return true
	}
	increasing := xs[1] > xs[0]
	for i := 1; i < len(xs); i++ {
		switch {
		case math.IsNaN(xs[i]):
			return false
		case increasing && xs[i] <= xs[i-1]:
			return false
		case !increasing && xs[i] >= xs[i-1]:
			return false
		}
	}
	return true
}
