// Package manifest describes which model output files make up a dataset and
// loads them into a domain.ModelDataset.
//
// Example:
//
//	models:
//	  - name: ERA5
//	    path: era5_t2m_anomaly.nc
//	    variable: t2m
//	  - name: ICON
//	    path: icon.nc
//	    variable: tas
//	    lon: longitude
//	    lat: latitude
//
// Model order in the file is panel order. Relative paths are resolved
// against the manifest's directory.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists the models of a dataset in panel order.
type Manifest struct {
	Models []Model `yaml:"models"`
}

// Model points at one model's field in a NetCDF file.
type Model struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Variable string `yaml:"variable"`
	Lon      string `yaml:"lon,omitempty"`
	Lat      string `yaml:"lat,omitempty"`
}

// Parse decodes and validates a manifest. Relative model paths are
// resolved against baseDir.
func Parse(data []byte, baseDir string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	for i := range m.Models {
		if !filepath.IsAbs(m.Models[i].Path) {
			m.Models[i].Path = filepath.Join(baseDir, m.Models[i].Path)
		}
	}
	return &m, nil
}

// ReadFile reads and parses the manifest at path.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Marshal encodes m as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

func (m *Manifest) validate() error {
	var errs []error
	seen := make(map[string]bool, len(m.Models))
	for i, model := range m.Models {
		name := strings.TrimSpace(model.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("model %d: name is required", i))
		case seen[name]:
			errs = append(errs, fmt.Errorf("model %d: duplicate name %q", i, name))
		}
		seen[name] = true
		if model.Path == "" {
			errs = append(errs, fmt.Errorf("model %d (%s): path is required", i, name))
		}
		if model.Variable == "" {
			errs = append(errs, fmt.Errorf("model %d (%s): variable is required", i, name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}
