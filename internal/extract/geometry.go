package extract

import (
	"context"
	"log/slog"
	"path"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
)

// TableGeometry resolves geometry from each dataset's reference table.
// It implements domain.GeometrySource.
type TableGeometry struct {
	store   Store
	table   string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTableGeometry reads {dataset}/{table} from store.
func NewTableGeometry(store Store, table string, logger *slog.Logger, metrics *observability.Metrics) *TableGeometry {
	return &TableGeometry{store: store, table: table, logger: logger, metrics: metrics}
}

// Geometry returns the zero Geometry when the table is missing or malformed.
func (g *TableGeometry) Geometry(ctx context.Context, dataset string) domain.Geometry {
	key := path.Join(dataset, g.table)

	rc, err := g.store.Open(ctx, key)
	if err != nil {
		g.unavailable(dataset, key, err)
		return domain.Geometry{}
	}
	defer rc.Close()

	geo, err := domain.ParseGeometry(rc)
	if err != nil {
		g.unavailable(dataset, key, err)
		return domain.Geometry{}
	}
	if !geo.Available() {
		g.unavailable(dataset, key, errEmptyReference)
	}
	return geo
}

func (g *TableGeometry) unavailable(dataset, key string, err error) {
	g.logger.Warn("geometry unavailable",
		"dataset", dataset,
		"key", key,
		"error", err,
	)
	g.metrics.GeometryUnavailable.Inc()
}
