package domain

import "strings"

// variantSuffixes are stripped from result dataset ids to find the reference
// tables they were simulated from.
var variantSuffixes = []string{"_full"}

// BaseDataset strips a known variant suffix: "9cellsC1_full" -> "9cellsC1".
func BaseDataset(dataset string) string {
	for _, s := range variantSuffixes {
		if base, ok := strings.CutSuffix(dataset, s); ok && base != "" {
			return base
		}
	}
	return dataset
}

// Query selects one timestep of one simulation run.
type Query struct {
	Dataset string
	Run     int
	Minutes int
}

// Validate checks the query before any storage is touched.
func (q Query) Validate() error {
	switch {
	case strings.TrimSpace(q.Dataset) == "":
		return invalidQuery("dataset is required")
	case strings.ContainsAny(q.Dataset, `/\`) || q.Dataset == "." || q.Dataset == "..":
		return invalidQuery("dataset %q is not a valid identifier", q.Dataset)
	case q.Run < 1:
		return invalidQuery("run must be >= 1, got %d", q.Run)
	case q.Minutes < 0:
		return invalidQuery("minutes must be >= 0, got %d", q.Minutes)
	}
	return nil
}
