package manifest

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/temperature-panels/internal/adapter/netcdf"
	"github.com/couchcryptid/temperature-panels/internal/domain"
)

// FieldReader reads one model field from a file.
type FieldReader func(path string, v netcdf.Variable) (domain.TemperatureField, error)

// Loader reads every model of a manifest. It implements pipeline.DatasetSource.
type Loader struct {
	manifest    *Manifest
	read        FieldReader
	logger      *slog.Logger
	concurrency int
}

// NewLoader creates a Loader reading NetCDF files, at most four at a time.
func NewLoader(m *Manifest, logger *slog.Logger) *Loader {
	return &Loader{
		manifest:    m,
		read:        netcdf.ReadField,
		logger:      logger,
		concurrency: 4,
	}
}

// Load reads all model fields concurrently and returns them in manifest
// order. The first failure cancels the remaining reads.
func (l *Loader) Load(ctx context.Context) (*domain.ModelDataset, error) {
	fields := make([]domain.TemperatureField, len(l.manifest.Models))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, model := range l.manifest.Models {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			field, err := l.read(model.Path, netcdf.Variable{Name: model.Variable, Lon: model.Lon, Lat: model.Lat})
			if err != nil {
				return &domain.ModelError{Model: model.Name, Err: err}
			}
			if err := field.Validate(); err != nil {
				return &domain.ModelError{Model: model.Name, Err: err}
			}
			rows, cols := field.Dims()
			l.logger.Debug("model field loaded", "model", model.Name, "path", model.Path, "lat", rows, "lon", cols)
			fields[i] = field
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &domain.ModelDataset{}
	for i, model := range l.manifest.Models {
		ds.Set(model.Name, fields[i])
	}
	return ds, nil
}
