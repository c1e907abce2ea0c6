package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/temperature-panels/internal/geo"
)

// Config holds all render settings, populated from environment variables.
type Config struct {
	ManifestPath string
	OutputPath   string
	LoadTimeout  time.Duration

	// Plot configuration.
	VMin           float64
	VMax           float64
	Colormap       string
	Projection     string
	ShowStatistics bool
	CoastlinePath  string
	DPI            int

	// DisplayCommand launches an image viewer on the output; empty runs headless.
	DisplayCommand string

	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	vmin, err := parseFloat("VMIN", "-15")
	if err != nil {
		return nil, err
	}
	vmax, err := parseFloat("VMAX", "15")
	if err != nil {
		return nil, err
	}

	showStats, err := strconv.ParseBool(sharedcfg.EnvOrDefault("SHOW_STATISTICS", "true"))
	if err != nil {
		return nil, errors.New("invalid SHOW_STATISTICS")
	}

	dpi, err := strconv.Atoi(sharedcfg.EnvOrDefault("DPI", "200"))
	if err != nil || dpi < 1 || dpi > 1200 {
		return nil, errors.New("invalid DPI: must be between 1 and 1200")
	}

	loadTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("LOAD_TIMEOUT", "30s"))
	if err != nil || loadTimeout <= 0 {
		return nil, errors.New("invalid LOAD_TIMEOUT")
	}

	cfg := &Config{
		ManifestPath:    sharedcfg.EnvOrDefault("DATASET_MANIFEST", ""),
		OutputPath:      sharedcfg.EnvOrDefault("OUTPUT_PATH", "temperature.png"),
		LoadTimeout:     loadTimeout,
		VMin:            vmin,
		VMax:            vmax,
		Colormap:        strings.ToLower(sharedcfg.EnvOrDefault("COLORMAP", "coolwarm")),
		Projection:      sharedcfg.EnvOrDefault("PROJECTION", geo.MercatorDescriptor),
		ShowStatistics:  showStats,
		CoastlinePath:   sharedcfg.EnvOrDefault("COASTLINE_PATH", ""),
		DPI:             dpi,
		DisplayCommand:  sharedcfg.EnvOrDefault("DISPLAY_COMMAND", ""),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
	}

	if cfg.ManifestPath == "" {
		return nil, errors.New("DATASET_MANIFEST is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}

	return cfg, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
