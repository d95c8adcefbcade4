package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// IgnitionPolicy decides what a query reports when the ignition table is
// missing or empty.
type IgnitionPolicy string

const (
	// IgnitionAbsent reports no ignition point.
	IgnitionAbsent IgnitionPolicy = "absent"

	// IgnitionFallback reports FallbackIgnition, geocoded like any other cell.
	IgnitionFallback IgnitionPolicy = "fallback"
)

// FallbackIgnition is the position reported under IgnitionFallback.
var FallbackIgnition = GridPosition{Row: 1, Col: 1}

// ParseIgnitionPolicy validates a configured ignition policy.
func ParseIgnitionPolicy(s string) (IgnitionPolicy, error) {
	switch p := IgnitionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case IgnitionAbsent, IgnitionFallback:
		return p, nil
	default:
		return "", fmt.Errorf("unknown ignition policy %q (want %q or %q)", s, IgnitionAbsent, IgnitionFallback)
	}
}

// IgnitionPoint is the geocoded origin cell of a simulated fire.
type IgnitionPoint struct {
	Row int
	Col int
	Lat float64
	Lon float64
}

// Coordinate returns the coordinate shape of the ignition point.
func (p IgnitionPoint) Coordinate() GeoCoordinate {
	return GeoCoordinate{Lat: p.Lat, Lon: p.Lon}
}

// Pixel returns the pixel shape of the ignition point.
func (p IgnitionPoint) Pixel() BurnedPixel {
	return BurnedPixel{Row: p.Row, Col: p.Col, Lat: p.Lat, Lon: p.Lon}
}

// ParseIgnitionCell returns the 1-based "Ncell" value from the first data row
// of an ignition table. Only one ignition point per dataset is supported.
func ParseIgnitionCell(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, ErrNoIgnition
	}
	if err != nil {
		return 0, fmt.Errorf("read ignition header: %w", err)
	}
	col := columnIndex(header, "Ncell")
	if col < 0 {
		return 0, errors.New("ignition table has no Ncell column")
	}

	rec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, ErrNoIgnition
	}
	if err != nil {
		return 0, fmt.Errorf("read ignition row: %w", err)
	}
	if col >= len(rec) {
		return 0, errors.New("ignition row has no Ncell value")
	}

	// Tables written through dataframes store the id as a float ("5.0").
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid Ncell %q", rec[col])
	}
	cell := int(v)
	if cell < 1 {
		return 0, fmt.Errorf("Ncell must be >= 1, got %d", cell)
	}
	return cell, nil
}
