// Command tempmaps renders the model temperature panels described by a
// dataset manifest to a PNG file and optionally opens it in a viewer.
// All settings come from environment variables (see internal/config); a
// .env file in the working directory is read first.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/temperature-panels/internal/adapter/manifest"
	"github.com/couchcryptid/temperature-panels/internal/config"
	"github.com/couchcryptid/temperature-panels/internal/display"
	"github.com/couchcryptid/temperature-panels/internal/geo"
	"github.com/couchcryptid/temperature-panels/internal/observability"
	"github.com/couchcryptid/temperature-panels/internal/pipeline"
	"github.com/couchcryptid/temperature-panels/internal/render"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger, metrics)
	stop()

	if cfg.MetricsTextfile != "" {
		if werr := observability.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Error("write metrics textfile failed", "path", cfg.MetricsTextfile, "error", werr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	proj, err := geo.NewProjection(cfg.Projection)
	if err != nil {
		logger.Error("invalid projection", "projection", cfg.Projection, "error", err)
		return err
	}

	var coast *geo.Coastlines
	if path := coastlinePath(cfg); path != "" {
		coast, err = geo.LoadCoastlines(path)
		if err != nil {
			logger.Error("failed to load coastlines", "path", path, "error", err)
			return err
		}
		logger.Info("coastlines loaded", "path", path, "lines", coast.Len())
	} else {
		logger.Warn("no coastline shapefile, panels are drawn without coastlines",
			"hint", "set COASTLINE_PATH or run genfields -coastlines")
		metrics.ConfigWarnings.WithLabelValues(observability.WarningCoastlines).Inc()
	}

	opts := render.DefaultOptions()
	opts.VMin = cfg.VMin
	opts.VMax = cfg.VMax
	opts.Colormap = cfg.Colormap
	opts.Projection = proj
	opts.ShowStatistics = cfg.ShowStatistics
	opts.Coastlines = coast
	opts.DPI = cfg.DPI

	plotter, err := render.NewPlotter(opts, logger, metrics)
	if err != nil {
		logger.Error("invalid render options", "error", err)
		return err
	}

	m, err := manifest.ReadFile(cfg.ManifestPath)
	if err != nil {
		logger.Error("failed to read manifest", "path", cfg.ManifestPath, "error", err)
		return err
	}

	viewer, err := display.New(cfg.DisplayCommand, logger)
	if err != nil {
		logger.Error("invalid display command", "error", err)
		return err
	}

	source := &timeoutSource{source: manifest.NewLoader(m, logger), timeout: cfg.LoadTimeout}
	p := pipeline.New(source, plotter, viewer, cfg.OutputPath, logger, metrics)
	return p.Run(ctx)
}
