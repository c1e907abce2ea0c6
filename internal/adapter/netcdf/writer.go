package netcdf

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/couchcryptid/temperature-panels/internal/domain"
)

// WriteField writes f to a new classic NetCDF file at path as variable
// name over (lat, lon) dimensions with float64 coordinate variables.
func WriteField(path, name string, f domain.TemperatureField) error {
	if err := f.Validate(); err != nil {
		return err
	}
	rows, cols := f.Dims()

	h := cdf.NewHeader([]string{"lat", "lon"}, []int{rows, cols})
	h.AddAttribute("", "Conventions", "CF-1.6")
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddAttribute("lat", "units", "degrees_north")
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("lon", "units", "degrees_east")
	h.AddVariable(name, []string{"lat", "lon"}, []float32{0})
	units := f.Units
	if units == "" {
		units = "degC"
	}
	h.AddAttribute(name, "units", units)
	h.Define()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create netcdf: %w", err)
	}
	defer file.Close()

	nc, err := cdf.Create(file, h)
	if err != nil {
		return fmt.Errorf("write netcdf header: %w", err)
	}

	data := make([]float32, 0, rows*cols)
	for _, v := range f.Flatten() {
		data = append(data, float32(v))
	}

	if err := writeVar(nc, "lat", f.Lat); err != nil {
		return err
	}
	if err := writeVar(nc, "lon", f.Lon); err != nil {
		return err
	}
	if err := writeVar(nc, name, data); err != nil {
		return err
	}
	return file.Close()
}

func writeVar(nc *cdf.File, name string, data any) error {
	end := nc.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := nc.Writer(name, start, end).Write(data); err != nil {
		return fmt.Errorf("write variable %s: %w", name, err)
	}
	return nil
}
