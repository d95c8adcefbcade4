package domain

import "fmt"

// Policy is the per-dataset choice between the deployed cadence and ignition
// behaviors.
type Policy struct {
	Cadence  Cadence
	Ignition IgnitionPolicy
}

// PolicySet selects a Policy by dataset id. Lookups try the full id, then the
// base id, then the default. A set without a default rejects unknown datasets.
type PolicySet struct {
	datasets map[string]Policy
	fallback *Policy
}

// NewPolicySet creates a set with an optional default policy.
func NewPolicySet(def *Policy) *PolicySet {
	return &PolicySet{datasets: make(map[string]Policy), fallback: def}
}

// Set registers the policy for one dataset id.
func (s *PolicySet) Set(dataset string, p Policy) {
	s.datasets[dataset] = p
}

// Len returns the number of datasets with an explicit policy.
func (s *PolicySet) Len() int { return len(s.datasets) }

// Select returns the policy for dataset.
func (s *PolicySet) Select(dataset string) (Policy, error) {
	if p, ok := s.datasets[dataset]; ok {
		return p, nil
	}
	if p, ok := s.datasets[BaseDataset(dataset)]; ok {
		return p, nil
	}
	if s.fallback != nil {
		return *s.fallback, nil
	}
	return Policy{}, fmt.Errorf("%w for dataset %q", ErrNoPolicy, dataset)
}
