// Command validate checks that a published dataset can be served: the
// reference table is a perfect square, the ignition cell lies inside the grid,
// and every timestep grid of every run parses strictly within the grid bounds.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data-url file:///srv/cell2fire/data \
//	  -results-url file:///srv/cell2fire/results \
//	  -dataset Korean40x40_full
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/couchcryptid/fire-spread-service/internal/adapter/blobstore"
	"github.com/couchcryptid/fire-spread-service/internal/domain"
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

type target struct {
	dataset   string
	reference string
	ignition  string
	ext       string
	data      *blobstore.Store
	results   *blobstore.Store
}

func main() {
	dataURL := flag.String("data-url", "", "bucket URL for reference and ignition tables")
	resultsURL := flag.String("results-url", "", "bucket URL for timestep grids")
	dataset := flag.String("dataset", "", "dataset id to validate")
	reference := flag.String("reference-table", "Data.csv", "reference table name")
	ignition := flag.String("ignition-table", "IgnitionPoints.csv", "ignition table name")
	ext := flag.String("ext", "csv", "grid file extension")
	flag.Parse()

	if *dataURL == "" || *resultsURL == "" || *dataset == "" {
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	data, err := blobstore.Open(ctx, "data", *dataURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	defer data.Close()
	results, err := blobstore.Open(ctx, "results", *resultsURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	defer results.Close()

	t := target{
		dataset:   *dataset,
		reference: *reference,
		ignition:  *ignition,
		ext:       *ext,
		data:      data,
		results:   results,
	}
	if code := run(ctx, t); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, t target) int {
	fmt.Printf("=== Dataset Validation: %s ===\n\n", t.dataset)

	base := domain.BaseDataset(t.dataset)
	geoPhase, geo := validateReference(ctx, t, base)
	phases := []*phase{
		geoPhase,
		validateIgnition(ctx, t, base, geo),
	}
	gridPhase, grids := validateGrids(ctx, t, geo)
	phases = append(phases, gridPhase)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Grid: %s, %d timestep grids checked\n", geo.Dimensions(), grids)

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

func validateReference(ctx context.Context, t target, base string) (*phase, domain.Geometry) {
	p := &phase{name: "Reference table geometry"}
	key := path.Join(base, t.reference)

	rc, err := t.data.Open(ctx, key)
	if err != nil {
		p.errorf("%s: %v", key, err)
		return p, domain.Geometry{}
	}
	defer rc.Close()

	geo, err := domain.ParseGeometry(rc)
	if err != nil {
		p.errorf("%s: %v", key, err)
		return p, domain.Geometry{}
	}
	if !geo.Available() {
		p.errorf("%s: no rows", key)
		return p, geo
	}
	if n := geo.Len(); n != geo.Size*geo.Size {
		p.errorf("%s: %d rows is not a perfect square (%d trailing)", key, n, n-geo.Size*geo.Size)
	}
	return p, geo
}

func validateIgnition(ctx context.Context, t target, base string, geo domain.Geometry) *phase {
	p := &phase{name: "Ignition point"}
	key := path.Join(base, t.ignition)

	rc, err := t.data.Open(ctx, key)
	if err != nil {
		p.errorf("%s: %v", key, err)
		return p
	}
	defer rc.Close()

	cell, err := domain.ParseIgnitionCell(rc)
	if err != nil {
		p.errorf("%s: %v", key, err)
		return p
	}
	if !geo.Available() {
		return p
	}
	pos := domain.PositionFromCell(cell, geo.Size)
	if _, ok := geo.Lookup(pos); !ok {
		p.errorf("%s: Ncell %d maps to (%d, %d) outside the %s grid", key, cell, pos.Row, pos.Col, geo.Dimensions())
	}
	return p
}

// validateGrids walks every run directory and checks timesteps from 0 until
// the first missing grid.
func validateGrids(ctx context.Context, t target, geo domain.Geometry) (*phase, int) {
	p := &phase{name: "Timestep grids (strict)"}
	checked := 0

	runs, err := t.results.ListDirs(ctx, t.dataset+"/Grids/")
	if err != nil {
		p.errorf("list runs: %v", err)
		return p, 0
	}
	if len(runs) == 0 {
		p.errorf("no runs under %s/Grids/", t.dataset)
		return p, 0
	}

	for _, dir := range runs {
		var run int
		if _, err := fmt.Sscanf(strings.TrimPrefix(dir, "Grids"), "%d", &run); err != nil || run < 1 {
			p.errorf("unexpected run directory %q", dir)
			continue
		}
		for step := 0; ; step++ {
			key := domain.GridKey(t.dataset, run, step, t.ext)
			ok, err := t.results.Exists(ctx, key)
			if err != nil {
				p.errorf("%s: %v", key, err)
				break
			}
			if !ok {
				if step == 0 {
					p.errorf("%s: run has no timestep 0", key)
				}
				break
			}
			checked++
			checkGrid(ctx, t, key, geo, p)
		}
	}
	return p, checked
}

func checkGrid(ctx context.Context, t target, key string, geo domain.Geometry, p *phase) {
	rc, err := t.results.Open(ctx, key)
	if err != nil {
		p.errorf("%s: %v", key, err)
		return
	}
	defer rc.Close()

	pixels, err := domain.ParseBurnedCells(rc, geo, domain.RowModeStrict)
	if err != nil {
		p.errorf("%s: %v", key, err)
		return
	}
	if !geo.Available() {
		return
	}
	for _, px := range pixels {
		if px.Row >= geo.Size || px.Col >= geo.Size {
			p.errorf("%s: burned cell (%d, %d) outside the %s grid", key, px.Row, px.Col, geo.Dimensions())
			return
		}
	}
}
