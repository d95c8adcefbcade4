package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
)

const (
	cellUnburned = '.'
	cellBurned   = '#'
	cellIgnition = '*'
)

// renderGrid draws the burn map of res as text, one character per cell,
// followed by a summary line.
func renderGrid(w io.Writer, res *domain.FireSpreadResult) error {
	size := gridSide(res)

	rows := make([][]byte, size)
	for i := range rows {
		rows[i] = []byte(strings.Repeat(string(cellUnburned), size))
	}
	for _, p := range res.BurnedCoordinates {
		if p.Row < size && p.Col < size {
			rows[p.Row][p.Col] = cellBurned
		}
	}
	if ip := res.IgnitionPixel; ip != nil && ip.Row < size && ip.Col < size {
		rows[ip.Row][ip.Col] = cellIgnition
	}

	bw := bufio.NewWriter(w)
	for _, r := range rows {
		bw.Write(r) //nolint:errcheck // surfaced by Flush
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "%s run %d, %d min (timestep %d): %d burned\n",
		res.Metadata.Dataset, res.Metadata.SimulationNumber, res.TimeMinutes,
		res.Metadata.TimeStep, res.TotalBurnedPixels)
	return bw.Flush()
}

// gridSide uses the geometry size, or the extent of the burned pixels when
// geometry was unavailable.
func gridSide(res *domain.FireSpreadResult) int {
	if n, ok := parseSide(res.Metadata.GridSize); ok && n > 0 {
		return n
	}
	size := 0
	for _, p := range res.BurnedCoordinates {
		size = max(size, p.Row+1, p.Col+1)
	}
	return size
}

func parseSide(dims string) (int, bool) {
	side, _, ok := strings.Cut(dims, "x")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(side)
	return n, err == nil
}
