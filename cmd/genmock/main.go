// Command genmock writes a synthetic Cell2Fire dataset for local runs and
// demos: a reference table, an ignition table and per-run timestep grids in
// which the fire grows outward from the ignition cell.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -data-url "file:///tmp/cell2fire/data?create_dir=true" \
//	  -results-url "file:///tmp/cell2fire/results?create_dir=true" \
//	  -dataset Test9 -size 3 -runs 2 -steps 3
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"path"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
)

type options struct {
	dataset   string
	reference string
	ignTable  string
	size      int
	runs      int
	steps     int
	ignition  int
	lat0      float64
	lon0      float64
	cellDeg   float64
	ext       string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dataURL := flag.String("data-url", "", "bucket URL for reference and ignition tables")
	resultsURL := flag.String("results-url", "", "bucket URL for timestep grids")
	var o options
	flag.StringVar(&o.dataset, "dataset", "Test9", "dataset id")
	flag.StringVar(&o.reference, "reference-table", "Data.csv", "reference table name")
	flag.StringVar(&o.ignTable, "ignition-table", "IgnitionPoints.csv", "ignition table name")
	flag.IntVar(&o.size, "size", 3, "grid side length")
	flag.IntVar(&o.runs, "runs", 1, "number of simulation runs")
	flag.IntVar(&o.steps, "steps", 3, "timesteps per run")
	flag.IntVar(&o.ignition, "ignition", 0, "1-based ignition cell (0 picks the center)")
	flag.Float64Var(&o.lat0, "lat", 37.5, "latitude of the first cell")
	flag.Float64Var(&o.lon0, "lon", 127.0, "longitude of the first cell")
	flag.Float64Var(&o.cellDeg, "cell-deg", 0.001, "cell spacing in degrees")
	flag.StringVar(&o.ext, "ext", "csv", "grid file extension")
	flag.Parse()

	if *dataURL == "" || *resultsURL == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -data-url, -results-url")
	}
	if o.size < 1 || o.runs < 1 || o.steps < 1 {
		return fmt.Errorf("size, runs and steps must be positive")
	}
	if o.ignition == 0 {
		o.ignition = (o.size*o.size)/2 + 1
	}
	if o.ignition < 1 || o.ignition > o.size*o.size {
		return fmt.Errorf("ignition cell %d outside a %dx%d grid", o.ignition, o.size, o.size)
	}

	ctx := context.Background()
	data, err := blob.OpenBucket(ctx, *dataURL)
	if err != nil {
		return fmt.Errorf("open data bucket: %w", err)
	}
	defer data.Close()
	results, err := blob.OpenBucket(ctx, *resultsURL)
	if err != nil {
		return fmt.Errorf("open results bucket: %w", err)
	}
	defer results.Close()

	files, err := generate(ctx, data, results, o)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %dx%d grid, ignition cell %d, %d runs, %d grids\n",
		o.dataset, o.size, o.size, o.ignition, o.runs, files)
	return nil
}

// generate writes the reference and ignition tables to data and every run's
// timestep grids to results. It returns the number of grids written.
func generate(ctx context.Context, data, results *blob.Bucket, o options) (int, error) {
	if err := data.WriteAll(ctx, path.Join(o.dataset, o.reference), referenceTable(o), nil); err != nil {
		return 0, fmt.Errorf("write reference table: %w", err)
	}
	ign := fmt.Appendf(nil, "Year,Ncell\n1,%d\n", o.ignition)
	if err := data.WriteAll(ctx, path.Join(o.dataset, o.ignTable), ign, nil); err != nil {
		return 0, fmt.Errorf("write ignition table: %w", err)
	}

	origin := domain.PositionFromCell(o.ignition, o.size)
	files := 0
	for r := 1; r <= o.runs; r++ {
		for step := 0; step < o.steps; step++ {
			key := domain.GridKey(o.dataset, r, step, o.ext)
			if err := results.WriteAll(ctx, key, spreadGrid(o.size, origin, step*r), nil); err != nil {
				return files, fmt.Errorf("write %s: %w", key, err)
			}
			files++
		}
	}
	return files, nil
}

// referenceTable lays cells out row-major with latitude decreasing by row
// and longitude increasing by column.
func referenceTable(o options) []byte {
	var b bytes.Buffer
	b.WriteString("ID,Fuel,lat,lon\n")
	for i := 0; i < o.size*o.size; i++ {
		pos := domain.PositionFromIndex(i, o.size)
		lat := o.lat0 - float64(pos.Row)*o.cellDeg
		lon := o.lon0 + float64(pos.Col)*o.cellDeg
		fmt.Fprintf(&b, "%d,C1,%.6f,%.6f\n", i+1, lat, lon)
	}
	return b.Bytes()
}

// spreadGrid burns every cell within Chebyshev distance radius of origin.
func spreadGrid(size int, origin domain.GridPosition, radius int) []byte {
	var b bytes.Buffer
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if col > 0 {
				b.WriteByte(',')
			}
			if max(abs(row-origin.Row), abs(col-origin.Col)) <= radius {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
