package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactNotFound reports a run or timestep grid that does not exist.
	ErrArtifactNotFound = errors.New("simulation artifact not found")

	// ErrInvalidQuery reports query parameters rejected before any read.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNoPolicy reports a dataset with no cadence policy and no default.
	ErrNoPolicy = errors.New("no cadence policy configured")

	// ErrMalformedGrid reports a timestep grid rejected in strict row mode.
	ErrMalformedGrid = errors.New("malformed grid table")

	// ErrNoIgnition reports an ignition table without data rows.
	ErrNoIgnition = errors.New("ignition table has no rows")
)

// NotFoundError identifies the missing artifact of a query.
type NotFoundError struct {
	Dataset    string
	Run        int
	Timestep   int
	File       string
	RunMissing bool
}

func (e *NotFoundError) Error() string {
	if e.RunMissing {
		return fmt.Sprintf("simulation results not found: %s/Grids%d", e.Dataset, e.Run)
	}
	return fmt.Sprintf("no data for this time: %s/Grids%d/%s (timestep %d)", e.Dataset, e.Run, e.File, e.Timestep)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrArtifactNotFound }

func invalidQuery(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
