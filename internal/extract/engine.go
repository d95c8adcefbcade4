// Package extract answers fire spread queries by composing grid location,
// geometry, burned cell parsing and ignition resolution.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
)

// ignoredDirs are never reported as datasets.
var ignoredDirs = map[string]bool{"__pycache__": true}

var errEmptyReference = errors.New("reference table has no rows")

// Engine is safe for concurrent use; every query reads storage independently.
type Engine struct {
	locator  *Locator
	results  Store
	geometry domain.GeometrySource
	ignition *IgnitionResolver
	rowMode  domain.RowMode
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithRowMode sets how blank lines in timestep grids are handled.
func WithRowMode(m domain.RowMode) Option {
	return func(e *Engine) { e.rowMode = m }
}

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an Engine reading timestep grids from results.
func New(locator *Locator, results Store, geometry domain.GeometrySource, ignition *IgnitionResolver, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Engine {
	e := &Engine{
		locator:  locator,
		results:  results,
		geometry: geometry,
		ignition: ignition,
		rowMode:  domain.RowModeLenient,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the geocoded burned pixels of one run at one elapsed time.
// Only invalid queries, missing policies, missing artifacts and strict-mode
// parse failures are returned as errors; other read problems degrade the result.
func (e *Engine) Extract(ctx context.Context, q domain.Query) (res *domain.FireSpreadResult, err error) {
	start := e.clock.Now()
	defer func() {
		e.metrics.ExtractRequests.WithLabelValues(outcome(err)).Inc()
		e.metrics.ExtractDuration.Observe(e.clock.Since(start).Seconds())
	}()

	if err := q.Validate(); err != nil {
		return nil, err
	}

	art, err := e.locator.Locate(q.Dataset, q.Run, q.Minutes)
	if err != nil {
		return nil, err
	}
	if err := e.checkExists(ctx, q, art); err != nil {
		return nil, err
	}

	base := domain.BaseDataset(q.Dataset)
	geo := e.geometry.Geometry(ctx, base)

	pixels, err := e.parse(ctx, art.Key, geo)
	if err != nil {
		return nil, err
	}

	ign := e.ignition.Resolve(ctx, base, geo, art.Policy.Ignition)

	meta := domain.Metadata{
		Dataset:          q.Dataset,
		SimulationNumber: q.Run,
		GridSize:         geo.Dimensions(),
		GridFile:         art.File,
		TimeStep:         art.Timestep,
		CadencePolicy:    art.Policy.Cadence.Name(),
		DataSource:       domain.DataSource,
	}
	res = domain.NewResult(q.Minutes, pixels, ign, meta, e.clock.Now())
	e.metrics.BurnedPixels.Observe(float64(res.TotalBurnedPixels))

	e.logger.Debug("fire spread extracted",
		"dataset", q.Dataset,
		"run", q.Run,
		"minutes", q.Minutes,
		"timestep", art.Timestep,
		"burned", res.TotalBurnedPixels,
		"ignition", ign != nil,
	)
	return res, nil
}

// Simulations lists the datasets that have results.
func (e *Engine) Simulations(ctx context.Context) ([]string, error) {
	dirs, err := e.results.ListDirs(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !ignoredDirs[d] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (e *Engine) checkExists(ctx context.Context, q domain.Query, art Artifact) error {
	ok, err := e.results.HasPrefix(ctx, art.RunPrefix)
	if err != nil {
		return fmt.Errorf("check run %s: %w", art.RunPrefix, err)
	}
	if !ok {
		return &domain.NotFoundError{Dataset: q.Dataset, Run: q.Run, Timestep: art.Timestep, File: art.File, RunMissing: true}
	}

	ok, err = e.results.Exists(ctx, art.Key)
	if err != nil {
		return fmt.Errorf("check grid %s: %w", art.Key, err)
	}
	if !ok {
		return &domain.NotFoundError{Dataset: q.Dataset, Run: q.Run, Timestep: art.Timestep, File: art.File}
	}
	return nil
}

// parse reads the burned cells of one grid. In lenient mode failures yield
// no pixels; in strict mode they are returned.
func (e *Engine) parse(ctx context.Context, key string, geo domain.Geometry) ([]domain.BurnedPixel, error) {
	pixels, err := e.readGrid(ctx, key, geo)
	if err == nil {
		return pixels, nil
	}

	e.metrics.GridParseFailures.Inc()
	if e.rowMode == domain.RowModeStrict {
		return nil, fmt.Errorf("grid %s: %w", key, err)
	}
	e.logger.Warn("grid parse failed, reporting no burned pixels", "key", key, "error", err)
	return nil, nil
}

func (e *Engine) readGrid(ctx context.Context, key string, geo domain.Geometry) ([]domain.BurnedPixel, error) {
	rc, err := e.results.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return domain.ParseBurnedCells(rc, geo, e.rowMode)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrArtifactNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuery):
		return "invalid"
	case errors.Is(err, domain.ErrNoPolicy):
		return "no_policy"
	case errors.Is(err, domain.ErrMalformedGrid):
		return "malformed"
	default:
		return "error"
	}
}
