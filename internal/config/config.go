package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Storage roots, as gocloud.dev bucket URLs.
	ResultsURL     string
	DataURL        string
	ReferenceTable string
	IgnitionTable  string
	GridExtension  string

	// Dataset policy selection.
	PolicyFile          string
	DefaultCadence      string
	DefaultIgnition     string
	FineGrainedPrefixes []string
	GridRowMode         string

	GeometryCacheSize  int
	DefaultDataset     string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseGeometryCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ResultsURL:     sharedcfg.EnvOrDefault("RESULTS_URL", "file:///srv/cell2fire/results"),
		DataURL:        sharedcfg.EnvOrDefault("DATA_URL", "file:///srv/cell2fire/data"),
		ReferenceTable: sharedcfg.EnvOrDefault("REFERENCE_TABLE", "Data.csv"),
		IgnitionTable:  sharedcfg.EnvOrDefault("IGNITION_TABLE", "IgnitionPoints.csv"),
		GridExtension:  strings.TrimPrefix(sharedcfg.EnvOrDefault("GRID_EXTENSION", "csv"), "."),

		PolicyFile:          sharedcfg.EnvOrDefault("POLICY_FILE", "policies.toml"),
		DefaultCadence:      os.Getenv("DEFAULT_CADENCE"),
		DefaultIgnition:     sharedcfg.EnvOrDefault("DEFAULT_IGNITION", "absent"),
		FineGrainedPrefixes: parseList(sharedcfg.EnvOrDefault("FINE_GRAINED_PREFIXES", "9cellsC1")),
		GridRowMode:         sharedcfg.EnvOrDefault("GRID_ROW_MODE", "lenient"),

		GeometryCacheSize:  cacheSize,
		DefaultDataset:     sharedcfg.EnvOrDefault("DEFAULT_DATASET", "Korean40x40"),
		CORSAllowedOrigins: parseList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.ResultsURL == "" {
		return nil, errors.New("RESULTS_URL is required")
	}
	if cfg.DataURL == "" {
		return nil, errors.New("DATA_URL is required")
	}
	if cfg.GridExtension == "" {
		return nil, errors.New("GRID_EXTENSION is required")
	}
	switch strings.ToLower(cfg.GridRowMode) {
	case "lenient", "strict":
	default:
		return nil, fmt.Errorf("invalid GRID_ROW_MODE %q", cfg.GridRowMode)
	}

	return cfg, nil
}

func parseGeometryCacheSize() (int, error) {
	s := os.Getenv("GEOMETRY_CACHE_SIZE")
	if s == "" {
		return 64, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid GEOMETRY_CACHE_SIZE")
	}
	return n, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
