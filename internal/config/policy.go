package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/couchcryptid/fire-spread-service/internal/domain"
)

// PolicyFile is the per-dataset cadence and ignition selection, read from TOML:
//
//	[defaults]
//	cadence = "stepped"
//
//	[datasets.9cellsC1]
//	cadence = "capped"
//	ignition = "fallback"
type PolicyFile struct {
	Defaults PolicyEntry            `toml:"defaults"`
	Datasets map[string]PolicyEntry `toml:"datasets"`
}

// PolicyEntry names a cadence and an ignition policy. Empty fields inherit
// from the defaults.
type PolicyEntry struct {
	Cadence  string `toml:"cadence"`
	Ignition string `toml:"ignition"`
}

// LoadPolicyFile reads path. A missing file yields an empty PolicyFile.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	pf := &PolicyFile{}
	if path == "" {
		return pf, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return pf, nil
	}
	if _, err := toml.DecodeFile(path, pf); err != nil {
		return nil, fmt.Errorf("decode policy file %s: %w", path, err)
	}
	return pf, nil
}

// PolicySet builds the dataset policy set. Environment defaults apply beneath
// the file's [defaults] table. With no default cadence anywhere, datasets
// without an entry are rejected.
func (pf *PolicyFile) PolicySet(cfg *Config) (*domain.PolicySet, error) {
	defCadence := firstNonEmpty(pf.Defaults.Cadence, cfg.DefaultCadence)
	defIgnition := firstNonEmpty(pf.Defaults.Ignition, cfg.DefaultIgnition, string(domain.IgnitionAbsent))

	var def *domain.Policy
	if defCadence != "" {
		p, err := buildPolicy(defCadence, defIgnition, cfg.FineGrainedPrefixes)
		if err != nil {
			return nil, fmt.Errorf("default policy: %w", err)
		}
		def = &p
	}

	set := domain.NewPolicySet(def)
	for dataset, entry := range pf.Datasets {
		cadence := firstNonEmpty(entry.Cadence, defCadence)
		if cadence == "" {
			return nil, fmt.Errorf("dataset %q: cadence is required when no default is set", dataset)
		}
		p, err := buildPolicy(cadence, firstNonEmpty(entry.Ignition, defIgnition), cfg.FineGrainedPrefixes)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", dataset, err)
		}
		set.Set(dataset, p)
	}
	return set, nil
}

func buildPolicy(cadence, ignition string, finePrefixes []string) (domain.Policy, error) {
	c, err := domain.NewCadence(cadence, finePrefixes)
	if err != nil {
		return domain.Policy{}, err
	}
	ip, err := domain.ParseIgnitionPolicy(ignition)
	if err != nil {
		return domain.Policy{}, err
	}
	return domain.Policy{Cadence: c, Ignition: ip}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
