// Command genfields writes synthetic temperature-anomaly fields for a few
// models as NetCDF files, plus a dataset manifest listing them, for demos
// and smoke tests of tempmaps.
//
// Usage:
//
//	go run ./cmd/genfields -out-dir data/sample -seed 7 -coastlines
//	DATASET_MANIFEST=data/sample/models.yaml go run ./cmd/tempmaps
//
// With -coastlines the Natural Earth 1:110m coastline is downloaded next to
// the manifest, where tempmaps picks it up when COASTLINE_PATH is unset.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/couchcryptid/temperature-panels/internal/adapter/manifest"
	"github.com/couchcryptid/temperature-panels/internal/adapter/naturalearth"
	"github.com/couchcryptid/temperature-panels/internal/adapter/netcdf"
	"github.com/couchcryptid/temperature-panels/internal/domain"
)

// modelDef shapes one synthetic model relative to the shared pattern.
type modelDef struct {
	name       string
	variable   string
	bias       float64 // °C added everywhere
	amplitude  float64 // scale of the shared pattern
	noise      float64 // standard deviation of cell noise
	descending bool    // store latitudes north to south
}

var defs = []modelDef{
	{name: "ERA5", variable: "t2m", bias: 0, amplitude: 1, noise: 0.3, descending: true},
	{name: "ICON", variable: "t2m", bias: 0.8, amplitude: 1.1, noise: 0.5},
	{name: "GFS", variable: "t2m", bias: -1.2, amplitude: 0.9, noise: 0.6},
	{name: "ARPEGE", variable: "t2m", bias: 0.4, amplitude: 1.2, noise: 0.4},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory for the NetCDF files and models.yaml")
	seed := flag.Uint64("seed", 1, "random seed")
	res := flag.Float64("res", 1, "grid spacing in degrees")
	lonMin := flag.Float64("lon-min", -25, "western edge")
	lonMax := flag.Float64("lon-max", 45, "eastern edge")
	latMin := flag.Float64("lat-min", 30, "southern edge")
	latMax := flag.Float64("lat-max", 72, "northern edge")
	coastlines := flag.Bool("coastlines", false, "also download the Natural Earth coastline shapefile")
	coastlineURL := flag.String("coastline-url", naturalearth.DefaultURL, "zipped coastline shapefile")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if *res <= 0 || *lonMax <= *lonMin || *latMax <= *latMin {
		return fmt.Errorf("invalid grid: res %g, lon [%g, %g], lat [%g, %g]", *res, *lonMin, *lonMax, *latMin, *latMax)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	lon := axis(*lonMin, *lonMax, *res)
	lat := axis(*latMin, *latMax, *res)
	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	m := &manifest.Manifest{}
	for _, d := range defs {
		f := synthesize(d, lon, lat, rng)
		file := d.name + ".nc"
		if err := netcdf.WriteField(filepath.Join(*outDir, file), d.variable, f); err != nil {
			return fmt.Errorf("write %s: %w", d.name, err)
		}
		m.Models = append(m.Models, manifest.Model{Name: d.name, Path: file, Variable: d.variable})

		s := domain.ComputeStatistics(f)
		rows, cols := f.Dims()
		log.Printf("%-7s %dx%d  bias %s  rmse %s", d.name, rows, cols, domain.FormatValue(s.Bias), domain.FormatValue(s.RMSE))
	}

	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(*outDir, "models.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	log.Printf("manifest: %s (%d models)", path, len(m.Models))

	if *coastlines {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		client := naturalearth.NewClient(*coastlineURL, 2*time.Minute, slog.Default())
		shp, err := client.Fetch(ctx, *outDir)
		if err != nil {
			return fmt.Errorf("fetch coastlines: %w", err)
		}
		log.Printf("coastlines: %s", shp)
	}
	return nil
}

func axis(lo, hi, step float64) []float64 {
	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// synthesize builds a warm-south, cool-north anomaly with a zonal wave,
// shifted and scaled per model.
func synthesize(d modelDef, lon, lat []float64, rng *rand.Rand) domain.TemperatureField {
	lats := slices.Clone(lat)
	if d.descending {
		slices.Reverse(lats)
	}

	mid := (lat[0] + lat[len(lat)-1]) / 2
	values := make([][]float64, len(lats))
	for i, y := range lats {
		values[i] = make([]float64, len(lon))
		for j, x := range lon {
			pattern := -0.35*(y-mid) + 4*math.Sin(x*math.Pi/30)*math.Cos(y*math.Pi/40)
			values[i][j] = d.bias + d.amplitude*pattern + d.noise*rng.NormFloat64()
		}
	}
	return domain.TemperatureField{Lon: lon, Lat: lats, Values: values, Units: "degC"}
}
