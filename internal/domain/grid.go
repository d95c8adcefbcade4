package domain

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// GridPosition is a 0-based (row, col) cell address.
type GridPosition struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GeoCoordinate represents a WGS-84 latitude/longitude coordinate pair.
type GeoCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PositionFromIndex converts a 0-based row-major index into a grid position.
func PositionFromIndex(index, size int) GridPosition {
	return GridPosition{Row: index / size, Col: index % size}
}

// PositionFromCell converts a 1-based cell id, as stored in ignition tables,
// into a grid position.
func PositionFromCell(cell, size int) GridPosition {
	return PositionFromIndex(cell-1, size)
}

// Geometry is the coordinate lookup for one dataset's square grid.
// The zero value means geometry is unavailable.
type Geometry struct {
	Size   int
	coords map[GridPosition]GeoCoordinate
}

// GeometrySource resolves the geometry for a base dataset id. Implementations
// degrade to the zero Geometry instead of failing.
type GeometrySource interface {
	Geometry(ctx context.Context, dataset string) Geometry
}

// NewGeometry builds a geometry from per-cell coordinates in row-major order.
// The side length is the integer square root of len(cells); a non-square count
// truncates and the trailing cells get positions past the last row.
func NewGeometry(cells []GeoCoordinate) Geometry {
	size := isqrt(len(cells))
	if size == 0 {
		return Geometry{}
	}
	coords := make(map[GridPosition]GeoCoordinate, len(cells))
	for i, c := range cells {
		coords[PositionFromIndex(i, size)] = c
	}
	return Geometry{Size: size, coords: coords}
}

// Available reports whether the geometry was resolved.
func (g Geometry) Available() bool { return g.Size > 0 }

// Len returns the number of positions in the lookup.
func (g Geometry) Len() int { return len(g.coords) }

// Lookup returns the coordinate at pos and whether the position is known.
func (g Geometry) Lookup(pos GridPosition) (GeoCoordinate, bool) {
	c, ok := g.coords[pos]
	return c, ok
}

// CoordinateAt returns the coordinate at pos, or (0, 0) when it is unknown.
func (g Geometry) CoordinateAt(pos GridPosition) GeoCoordinate {
	return g.coords[pos]
}

// Dimensions formats the grid size as "NxN".
func (g Geometry) Dimensions() string {
	return fmt.Sprintf("%dx%d", g.Size, g.Size)
}

// ParseGeometry reads a reference table: a header row followed by one row per
// cell. The "lat" and "lon" columns are optional.
func ParseGeometry(r io.Reader) (Geometry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Geometry{}, errors.New("reference table is empty")
	}
	if err != nil {
		return Geometry{}, fmt.Errorf("read reference header: %w", err)
	}
	latCol, lonCol := columnIndex(header, "lat"), columnIndex(header, "lon")

	var cells []GeoCoordinate
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Geometry{}, fmt.Errorf("read reference row %d: %w", len(cells)+1, err)
		}
		cells = append(cells, GeoCoordinate{
			Lat: floatField(rec, latCol),
			Lon: floatField(rec, lonCol),
		})
	}
	return NewGeometry(cells), nil
}

// columnIndex returns the index of name in header, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if h == name {
			return i
		}
	}
	return -1
}

// floatField parses rec[col], reading missing, blank, NaN or malformed values as 0.
func floatField(rec []string, col int) float64 {
	if col < 0 || col >= len(rec) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Sqrt(float64(n)))
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}
