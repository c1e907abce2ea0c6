package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-panels/internal/display"
	"github.com/couchcryptid/temperature-panels/internal/domain"
	"github.com/couchcryptid/temperature-panels/internal/observability"
	"github.com/couchcryptid/temperature-panels/internal/render"
)

// DatasetSource loads the models to plot.
type DatasetSource interface {
	Load(ctx context.Context) (*domain.ModelDataset, error)
}

// FigureBuilder lays out a dataset as a figure.
type FigureBuilder interface {
	Build(ds *domain.ModelDataset) (*render.Figure, error)
}

// Pipeline runs one render: load, build, save, show.
type Pipeline struct {
	source     DatasetSource
	builder    FigureBuilder
	viewer     display.Viewer
	outputPath string
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// New creates a Pipeline writing to outputPath. A nil viewer skips display.
func New(source DatasetSource, builder FigureBuilder, viewer display.Viewer, outputPath string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if viewer == nil {
		viewer = display.NoopViewer{}
	}
	return &Pipeline{
		source:     source,
		builder:    builder,
		viewer:     viewer,
		outputPath: outputPath,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
	}
}

// WithClock replaces the clock used for duration metrics.
func (p *Pipeline) WithClock(c clockwork.Clock) *Pipeline {
	p.clock = c
	return p
}

// Run renders the dataset to the output path and then shows it. The output
// file is written only when loading and building both succeed.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("render started", "output", p.outputPath)

	start := p.clock.Now()
	ds, err := p.source.Load(ctx)
	if err != nil {
		return p.fail("load dataset", err)
	}
	p.metrics.LoadDuration.Observe(p.clock.Since(start).Seconds())
	p.metrics.DatasetModels.Set(float64(ds.Len()))
	p.logger.Info("dataset loaded", "models", ds.Names())

	start = p.clock.Now()
	fig, err := p.builder.Build(ds)
	if err != nil {
		return p.fail("build figure", err)
	}
	if err := fig.Save(p.outputPath); err != nil {
		return p.fail("save figure", err)
	}
	p.metrics.RenderDuration.Observe(p.clock.Since(start).Seconds())
	p.metrics.RendersTotal.WithLabelValues(observability.OutcomeSuccess).Inc()

	p.logger.Info("figure saved",
		"path", p.outputPath,
		"panels", len(fig.Panels),
		"blank_panels", fig.BlankPanels(),
		"warnings", len(fig.Warnings),
	)

	if err := p.viewer.Show(ctx, p.outputPath); err != nil {
		p.logger.Error("show figure failed", "path", p.outputPath, "error", err)
		return fmt.Errorf("show figure: %w", err)
	}
	return nil
}

func (p *Pipeline) fail(stage string, err error) error {
	p.metrics.RendersTotal.WithLabelValues(observability.OutcomeError).Inc()
	p.logger.Error(stage+" failed", "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}
