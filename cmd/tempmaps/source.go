package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/temperature-panels/internal/adapter/naturalearth"
	"github.com/couchcryptid/temperature-panels/internal/config"
	"github.com/couchcryptid/temperature-panels/internal/domain"
	"github.com/couchcryptid/temperature-panels/internal/pipeline"
)

// timeoutSource bounds a dataset load by LOAD_TIMEOUT.
type timeoutSource struct {
	source  pipeline.DatasetSource
	timeout time.Duration
}

func (s *timeoutSource) Load(ctx context.Context) (*domain.ModelDataset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.source.Load(ctx)
}

// coastlinePath returns COASTLINE_PATH, or the Natural Earth shapefile next
// to the manifest when one was downloaded there. Empty means none.
func coastlinePath(cfg *config.Config) string {
	if cfg.CoastlinePath != "" {
		return cfg.CoastlinePath
	}
	path := filepath.Join(filepath.Dir(cfg.ManifestPath), naturalearth.CoastlineFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
