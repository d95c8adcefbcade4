package domain

import (
	"fmt"
	"path"
	"strings"
)

// Cadence names.
const (
	CadenceCapped  = "capped"
	CadenceStepped = "stepped"
)

// DefaultFineGrainedPrefixes identifies the small test fixtures that are
// written every 10 minutes under both cadences.
var DefaultFineGrainedPrefixes = []string{"9cellsC1"}

// Cadence maps elapsed minutes to a discrete simulation timestep.
type Cadence interface {
	Name() string
	Timestep(dataset string, minutes int) int
}

// CappedCadence steps every 10 minutes and caps coarse datasets at timestep 10.
type CappedCadence struct {
	FinePrefixes []string
}

func (CappedCadence) Name() string { return CadenceCapped }

func (c CappedCadence) Timestep(dataset string, minutes int) int {
	if minutes <= 0 {
		return 0
	}
	if hasAnyPrefix(dataset, c.FinePrefixes) {
		return minutes / 10
	}
	return min(minutes/10, 10)
}

// SteppedCadence steps every 10 minutes for fine-grained datasets and every
// 30 minutes otherwise, without a cap.
type SteppedCadence struct {
	FinePrefixes []string
}

func (SteppedCadence) Name() string { return CadenceStepped }

func (c SteppedCadence) Timestep(dataset string, minutes int) int {
	if minutes <= 0 {
		return 0
	}
	if hasAnyPrefix(dataset, c.FinePrefixes) {
		return minutes / 10
	}
	return minutes / 30
}

// NewCadence returns the cadence registered under name.
func NewCadence(name string, finePrefixes []string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case CadenceCapped:
		return CappedCadence{FinePrefixes: finePrefixes}, nil
	case CadenceStepped:
		return SteppedCadence{FinePrefixes: finePrefixes}, nil
	default:
		return nil, fmt.Errorf("unknown cadence %q (want %q or %q)", name, CadenceCapped, CadenceStepped)
	}
}

// GridFileName returns the timestep file name, e.g. "ForestGrid07.csv".
func GridFileName(timestep int, ext string) string {
	return fmt.Sprintf("ForestGrid%02d.%s", timestep, ext)
}

// RunPrefix returns the storage prefix holding every grid of one run.
func RunPrefix(dataset string, run int) string {
	return path.Join(dataset, "Grids", fmt.Sprintf("Grids%d", run)) + "/"
}

// GridKey returns the storage key of one timestep grid.
func GridKey(dataset string, run, timestep int, ext string) string {
	return RunPrefix(dataset, run) + GridFileName(timestep, ext)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
