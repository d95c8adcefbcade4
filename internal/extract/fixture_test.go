package extract_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/couchcryptid/fire-spread-service/internal/adapter/blobstore"
	"github.com/couchcryptid/fire-spread-service/internal/domain"
	"github.com/couchcryptid/fire-spread-service/internal/extract"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
)

var fixedNow = time.Date(2025, 8, 23, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// referenceTable builds an n*n reference table with lat=i and lon=i+0.5.
func referenceTable(n int) string {
	var b strings.Builder
	b.WriteString("ID,Fuel,lat,lon\n")
	for i := 0; i < n*n; i++ {
		fmt.Fprintf(&b, "%d,C1,%d.0,%d.5\n", i+1, i, i)
	}
	return b.String()
}

func newStore(t *testing.T, name string, files map[string]string) *blobstore.Store {
	t.Helper()
	b := memblob.OpenBucket(nil)
	for key, body := range files {
		require.NoError(t, b.WriteAll(context.Background(), key, []byte(body), nil))
	}
	s := blobstore.New(name, b)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fixture struct {
	data     map[string]string
	results  map[string]string
	policies *domain.PolicySet
	opts     []extract.Option
}

func newFixture() *fixture {
	set := domain.NewPolicySet(&domain.Policy{
		Cadence:  domain.SteppedCadence{FinePrefixes: domain.DefaultFineGrainedPrefixes},
		Ignition: domain.IgnitionAbsent,
	})
	return &fixture{
		data:     map[string]string{},
		results:  map[string]string{},
		policies: set,
	}
}

func (f *fixture) engine(t *testing.T) (*extract.Engine, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()

	data := newStore(t, "data", f.data)
	results := newStore(t, "results", f.results)

	opts := append([]extract.Option{extract.WithClock(clockwork.NewFakeClockAt(fixedNow))}, f.opts...)
	e := extract.New(
		extract.NewLocator(f.policies, "csv"),
		results,
		extract.NewTableGeometry(data, "Data.csv", logger, metrics),
		extract.NewIgnitionResolver(data, "IgnitionPoints.csv", logger, metrics),
		logger,
		metrics,
		opts...,
	)
	return e, metrics
}
