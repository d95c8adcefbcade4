package extract

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
)

// IgnitionResolver locates the origin cell of a dataset's fire.
type IgnitionResolver struct {
	store   Store
	table   string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewIgnitionResolver reads {dataset}/{table} from store.
func NewIgnitionResolver(store Store, table string, logger *slog.Logger, metrics *observability.Metrics) *IgnitionResolver {
	return &IgnitionResolver{store: store, table: table, logger: logger, metrics: metrics}
}

// Resolve returns the geocoded ignition point of dataset, or nil when it
// cannot be resolved. policy only decides the missing or empty table case.
func (r *IgnitionResolver) Resolve(ctx context.Context, dataset string, geo domain.Geometry, policy domain.IgnitionPolicy) *domain.IgnitionPoint {
	if !geo.Available() {
		r.unresolved(dataset, "geometry_unavailable", nil)
		return nil
	}

	var pos domain.GridPosition
	cell, err := r.readCell(ctx, dataset)
	switch {
	case err == nil:
		pos = domain.PositionFromCell(cell, geo.Size)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, domain.ErrNoIgnition):
		if policy != domain.IgnitionFallback {
			r.unresolved(dataset, "missing", nil)
			return nil
		}
		pos = domain.FallbackIgnition
	default:
		r.unresolved(dataset, "malformed", err)
		return nil
	}

	c, ok := geo.Lookup(pos)
	if !ok {
		r.unresolved(dataset, "out_of_grid", nil)
		return nil
	}
	return &domain.IgnitionPoint{Row: pos.Row, Col: pos.Col, Lat: c.Lat, Lon: c.Lon}
}

func (r *IgnitionResolver) readCell(ctx context.Context, dataset string) (int, error) {
	rc, err := r.store.Open(ctx, path.Join(dataset, r.table))
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return domain.ParseIgnitionCell(rc)
}

func (r *IgnitionResolver) unresolved(dataset, reason string, err error) {
	r.metrics.IgnitionUnresolved.WithLabelValues(reason).Inc()
	if err != nil {
		r.logger.Warn("ignition point unresolved", "dataset", dataset, "reason", reason, "error", err)
		return
	}
	r.logger.Debug("ignition point unresolved", "dataset", dataset, "reason", reason)
}
