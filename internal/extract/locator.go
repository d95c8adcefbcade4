package extract

import (
	"github.com/couchcryptid/fire-spread-service/internal/domain"
)

// Artifact is the timestep grid selected for a query.
type Artifact struct {
	Key       string
	RunPrefix string
	File      string
	Timestep  int
	Policy    domain.Policy
}

// Locator maps a query to its timestep grid using the dataset's cadence.
// It does not check that the grid exists.
type Locator struct {
	policies *domain.PolicySet
	ext      string
}

// NewLocator creates a Locator for grids with the given file extension.
func NewLocator(policies *domain.PolicySet, ext string) *Locator {
	return &Locator{policies: policies, ext: ext}
}

// Locate selects the policy for dataset and builds the grid key.
func (l *Locator) Locate(dataset string, run, minutes int) (Artifact, error) {
	policy, err := l.policies.Select(dataset)
	if err != nil {
		return Artifact{}, err
	}
	step := policy.Cadence.Timestep(dataset, minutes)
	return Artifact{
		Key:       domain.GridKey(dataset, run, step, l.ext),
		RunPrefix: domain.RunPrefix(dataset, run),
		File:      domain.GridFileName(step, l.ext),
		Timestep:  step,
		Policy:    policy,
	}, nil
}
