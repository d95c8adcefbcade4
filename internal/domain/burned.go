package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// burnedFlag marks a burned cell in a timestep grid.
const burnedFlag = "1"

// RowMode controls how blank lines in a timestep grid are treated.
type RowMode string

const (
	// RowModeLenient skips blank lines. A skipped line still occupies its row
	// index, so rows keep their line positions in the file. Flags other than
	// "1" read as unburned.
	RowModeLenient RowMode = "lenient"

	// RowModeStrict rejects any blank line, including trailing ones, and any
	// flag other than 0 or 1.
	RowModeStrict RowMode = "strict"
)

// ParseRowMode validates a configured row mode.
func ParseRowMode(s string) (RowMode, error) {
	switch m := RowMode(strings.ToLower(strings.TrimSpace(s))); m {
	case RowModeLenient, RowModeStrict:
		return m, nil
	default:
		return "", fmt.Errorf("unknown grid row mode %q", s)
	}
}

// BurnedPixel is one burned cell with its coordinate.
type BurnedPixel struct {
	Row int     `json:"row"`
	Col int     `json:"col"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParseBurnedCells reads a comma-delimited timestep grid and returns its
// burned cells in row-major encounter order. The row index is the 0-based line
// number. Coordinates missing from geo read as (0, 0).
func ParseBurnedCells(r io.Reader, geo Geometry, mode RowMode) ([]BurnedPixel, error) {
	tail := &tailReader{r: r}
	cr := csv.NewReader(tail)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var pixels []BurnedPixel
	nextLine := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			if mode == RowModeStrict && tail.endsWithBlankLine(nextLine == 1) {
				return nil, fmt.Errorf("%w: blank line at end of grid", ErrMalformedGrid)
			}
			return pixels, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedGrid, nextLine, err)
		}

		line, _ := cr.FieldPos(0)
		if mode == RowModeStrict && line != nextLine {
			return nil, fmt.Errorf("%w: blank line before line %d", ErrMalformedGrid, line)
		}
		nextLine = line + 1
		row := line - 1

		for col, field := range rec {
			v := strings.TrimSpace(field)
			if v == burnedFlag {
				c := geo.CoordinateAt(GridPosition{Row: row, Col: col})
				pixels = append(pixels, BurnedPixel{Row: row, Col: col, Lat: c.Lat, Lon: c.Lon})
				continue
			}
			if mode == RowModeStrict && v != "0" {
				return nil, fmt.Errorf("%w: row %d col %d: unexpected flag %q", ErrMalformedGrid, row, col, v)
			}
		}
	}
}

// tailReader remembers the last bytes read so a trailing blank line can be
// detected after the csv reader has consumed the input.
type tailReader struct {
	r    io.Reader
	n    int64
	tail [3]byte
}

func (t *tailReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	for _, b := range p[:n] {
		t.tail[0], t.tail[1], t.tail[2] = t.tail[1], t.tail[2], b
	}
	t.n += int64(n)
	return n, err
}

// endsWithBlankLine reports whether the input ended in an empty line. When no
// record was read, any input at all consisted of blank lines.
func (t *tailReader) endsWithBlankLine(noRecords bool) bool {
	if noRecords {
		return t.n > 0
	}
	last := string(t.tail[:])
	return strings.HasSuffix(last, "\n\n") || strings.HasSuffix(last, "\n\r\n")
}
