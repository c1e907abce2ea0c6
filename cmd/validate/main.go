// Command validate checks a dataset manifest without rendering: every model
// file is read, its field checked against its coordinates, and bias/RMSE
// printed per model. It exits non-zero if any check fails.
//
// Usage:
//
//	go run ./cmd/validate -manifest data/sample/models.yaml
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/temperature-panels/internal/adapter/manifest"
	"github.com/couchcryptid/temperature-panels/internal/adapter/netcdf"
	"github.com/couchcryptid/temperature-panels/internal/domain"
	"github.com/couchcryptid/temperature-panels/internal/render"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// loaded is one model's read result.
type loaded struct {
	model manifest.Model
	field domain.TemperatureField
	err   error
}

func main() {
	path := flag.String("manifest", sharedcfg.EnvOrDefault("DATASET_MANIFEST", ""), "dataset manifest (default $DATASET_MANIFEST)")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(*path))
}

func run(path string) int {
	fmt.Println("=== Temperature Dataset Validation ===")
	fmt.Println()

	m, err := manifest.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	models := make([]loaded, len(m.Models))
	for i, model := range m.Models {
		field, err := netcdf.ReadField(model.Path, netcdf.Variable{Name: model.Variable, Lon: model.Lon, Lat: model.Lat})
		models[i] = loaded{model: model, field: field, err: err}
	}

	phases := []*phase{
		validateReads(models),
		validateShapes(models),
		validateStatistics(models),
	}

	// ── Report results ──
	fmt.Printf("%-12s %-10s %-9s %9s %9s %6s\n", "MODEL", "VARIABLE", "GRID", "BIAS", "RMSE", "NaN")
	for _, l := range models {
		if l.err != nil {
			fmt.Printf("%-12s %-10s %s\n", l.model.Name, l.model.Variable, "unreadable")
			continue
		}
		rows, cols := l.field.Dims()
		s := domain.ComputeStatistics(l.field)
		fmt.Printf("%-12s %-10s %-9s %9s %9s %6d\n", l.model.Name, l.model.Variable,
			fmt.Sprintf("%dx%d", rows, cols), domain.FormatValue(s.Bias), domain.FormatValue(s.RMSE),
			rows*cols-s.Count)
	}

	fmt.Println()
	if capacity := render.DefaultOptions().Layout.Capacity(); len(models) > capacity {
		fmt.Printf("WARNING: %d models for %d panels; only the first %d are drawn\n", len(models), capacity, capacity)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateReads(models []loaded) *phase {
	p := &phase{name: "Model files readable"}
	if len(models) == 0 {
		p.errorf("manifest lists no models")
	}
	for _, l := range models {
		if l.err != nil {
			p.errorf("%s: %v", l.model.Name, l.err)
		}
	}
	return p
}

func validateShapes(models []loaded) *phase {
	p := &phase{name: "Field shapes match coordinates"}
	for _, l := range models {
		if l.err != nil {
			continue
		}
		if err := l.field.Validate(); err != nil {
			p.errorf("%s: %v", l.model.Name, err)
		}
	}
	return p
}

func validateStatistics(models []loaded) *phase {
	p := &phase{name: "Statistics finite"}
	for _, l := range models {
		if l.err != nil || l.field.Validate() != nil {
			continue
		}
		s := domain.ComputeStatistics(l.field)
		if s.Count == 0 {
			p.errorf("%s: every cell is missing", l.model.Name)
			continue
		}
		if math.IsInf(s.Bias, 0) || math.IsInf(s.RMSE, 0) {
			p.errorf("%s: bias %s, rmse %s", l.model.Name, domain.FormatValue(s.Bias), domain.FormatValue(s.RMSE))
		}
	}
	return p
}
