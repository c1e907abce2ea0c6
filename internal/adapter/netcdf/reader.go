// Package netcdf reads and writes model temperature fields stored in
// classic-format NetCDF files.
package netcdf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/ctessum/cdf"

	"github.com/couchcryptid/temperature-panels/internal/domain"
)

// Variable names the data variable and its coordinate variables.
type Variable struct {
	Name string
	Lon  string // defaults to "lon"
	Lat  string // defaults to "lat"
}

func (v Variable) withDefaults() Variable {
	if v.Lon == "" {
		v.Lon = "lon"
	}
	if v.Lat == "" {
		v.Lat = "lat"
	}
	return v
}

// ReadField reads a 2D temperature variable and its lon/lat coordinates.
//
// Length-1 dimensions (a single time step, a single level) are squeezed.
// Data stored as (lon, lat) is transposed to [lat][lon]. CF packing
// (scale_factor, add_offset) is applied, and _FillValue / missing_value
// cells become NaN.
func ReadField(path string, v Variable) (domain.TemperatureField, error) {
	v = v.withDefaults()

	file, err := os.Open(path)
	if err != nil {
		return domain.TemperatureField{}, fmt.Errorf("open netcdf: %w", err)
	}
	defer file.Close()

	nc, err := cdf.Open(file)
	if err != nil {
		return domain.TemperatureField{}, fmt.Errorf("read netcdf header %s: %w", path, err)
	}

	for _, name := range []string{v.Name, v.Lon, v.Lat} {
		if !slices.Contains(nc.Header.Variables(), name) {
			return domain.TemperatureField{}, fmt.Errorf("netcdf %s: variable %q not found", path, name)
		}
	}

	lon, err := readFloats(nc, v.Lon)
	if err != nil {
		return domain.TemperatureField{}, err
	}
	lat, err := readFloats(nc, v.Lat)
	if err != nil {
		return domain.TemperatureField{}, err
	}
	flat, err := readFloats(nc, v.Name)
	if err != nil {
		return domain.TemperatureField{}, err
	}

	latAxis, lonAxis, err := gridAxes(nc.Header.Dimensions(v.Name), nc.Header.Lengths(v.Name), v)
	if err != nil {
		return domain.TemperatureField{}, fmt.Errorf("netcdf %s: %w", path, err)
	}
	if latAxis.length != len(lat) || lonAxis.length != len(lon) {
		return domain.TemperatureField{}, fmt.Errorf("%w: %s is %dx%d but coordinates are lat=%d lon=%d",
			domain.ErrInputShape, v.Name, latAxis.length, lonAxis.length, len(lat), len(lon))
	}

	values := make([][]float64, len(lat))
	for i := range values {
		row := make([]float64, len(lon))
		for j := range row {
			row[j] = flat[i*latAxis.stride+j*lonAxis.stride]
		}
		values[i] = row
	}

	units, _ := nc.Header.GetAttribute(v.Name, "units").(string)

	return domain.TemperatureField{Lon: lon, Lat: lat, Values: values, Units: units}, nil
}

type axis struct {
	length int
	stride int
}

// gridAxes finds the latitude and longitude axes among the variable's
// dimensions. Other dimensions must have length 1.
func gridAxes(dims []string, lengths []int, v Variable) (lat, lon axis, err error) {
	strides := make([]int, len(lengths))
	stride := 1
	for i := len(lengths) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= lengths[i]
	}

	var grid []int
	for i, n := range lengths {
		if n != 1 || dims[i] == v.Lat || dims[i] == v.Lon {
			grid = append(grid, i)
		}
	}
	if len(grid) != 2 {
		return axis{}, axis{}, fmt.Errorf("%w: %s has %d non-degenerate dimensions %v, want 2",
			domain.ErrInputShape, v.Name, len(grid), dims)
	}

	latIdx, lonIdx := grid[0], grid[1]
	if dims[latIdx] == v.Lon || dims[lonIdx] == v.Lat {
		latIdx, lonIdx = lonIdx, latIdx
	}
	return axis{length: lengths[latIdx], stride: strides[latIdx]},
		axis{length: lengths[lonIdx], stride: strides[lonIdx]}, nil
}

// readFloats reads a whole variable as float64, unpacking CF encodings.
func readFloats(nc *cdf.File, name string) ([]float64, error) {
	r := nc.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read variable %s: %w", name, err)
	}

	raw, err := toFloats(buf)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}

	fills := make([]float64, 0, 2)
	for _, attr := range []string{"_FillValue", "missing_value"} {
		if f, ok := attrFloat(nc.Header, name, attr); ok {
			fills = append(fills, f)
		}
	}
	scale, hasScale := attrFloat(nc.Header, name, "scale_factor")
	offset, hasOffset := attrFloat(nc.Header, name, "add_offset")

	for i, x := range raw {
		if slices.Contains(fills, x) {
			raw[i] = math.NaN()
			continue
		}
		if hasScale {
			x *= scale
		}
		if hasOffset {
			x += offset
		}
		raw[i] = x
	}
	return raw, nil
}

func toFloats(buf any) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return slices.Clone(b), nil
	case []float32:
		return convert(b), nil
	case []int32:
		return convert(b), nil
	case []int16:
		return convert(b), nil
	case []int8:
		return convert(b), nil
	default:
		return nil, fmt.Errorf("unsupported data type %T", buf)
	}
}

func convert[T float32 | int32 | int16 | int8](in []T) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = float64(x)
	}
	return out
}

// attrFloat returns the first element of a numeric attribute.
func attrFloat(h *cdf.Header, v, name string) (float64, bool) {
	vals, err := toFloats(h.GetAttribute(v, name))
	if err != nil || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}
