// Package service assembles the extraction engine and its storage from configuration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/fire-spread-service/internal/adapter/blobstore"
	"github.com/couchcryptid/fire-spread-service/internal/adapter/geocache"
	"github.com/couchcryptid/fire-spread-service/internal/config"
	"github.com/couchcryptid/fire-spread-service/internal/domain"
	"github.com/couchcryptid/fire-spread-service/internal/extract"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
)

// Service owns the engine and the buckets it reads.
type Service struct {
	Engine *extract.Engine
	stores blobstore.Group
}

// Build opens the results and data buckets, loads the policy file and wires
// the engine. The caller must Close the returned Service.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Service, error) {
	rowMode, err := domain.ParseRowMode(cfg.GridRowMode)
	if err != nil {
		return nil, err
	}

	pf, err := config.LoadPolicyFile(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	policies, err := pf.PolicySet(cfg)
	if err != nil {
		return nil, err
	}

	results, err := blobstore.Open(ctx, "results", cfg.ResultsURL)
	if err != nil {
		return nil, err
	}
	data, err := blobstore.Open(ctx, "data", cfg.DataURL)
	if err != nil {
		return nil, errors.Join(err, results.Close())
	}
	stores := blobstore.Group{results, data}

	var geometry domain.GeometrySource = extract.NewTableGeometry(data, cfg.ReferenceTable, logger, metrics)
	if cfg.GeometryCacheSize > 0 {
		cached, err := geocache.New(geometry, cfg.GeometryCacheSize, metrics)
		if err != nil {
			return nil, errors.Join(err, stores.Close())
		}
		geometry = cached
	}

	engine := extract.New(
		extract.NewLocator(policies, cfg.GridExtension),
		results,
		geometry,
		extract.NewIgnitionResolver(data, cfg.IgnitionTable, logger, metrics),
		logger,
		metrics,
		extract.WithRowMode(rowMode),
	)

	logger.Info("engine ready",
		"results_url", cfg.ResultsURL,
		"data_url", cfg.DataURL,
		"policies", policies.Len(),
		"row_mode", rowMode,
		"geometry_cache", cfg.GeometryCacheSize,
	)
	return &Service{Engine: engine, stores: stores}, nil
}

// CheckReadiness reports whether both buckets are accessible.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if err := s.stores.CheckReadiness(ctx); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

// Close releases the buckets.
func (s *Service) Close() error {
	return s.stores.Close()
}
