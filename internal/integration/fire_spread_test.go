//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/fire-spread-service/internal/adapter/http"
	"github.com/couchcryptid/fire-spread-service/internal/config"
	"github.com/couchcryptid/fire-spread-service/internal/domain"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
	"github.com/couchcryptid/fire-spread-service/internal/service"
)

const policies = `
[defaults]
cadence = "stepped"

[datasets.Korean40x40]
cadence = "stepped"
ignition = "fallback"

[datasets.Sub40x40]
cadence = "capped"
`

func writeFile(t *testing.T, root, key, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func referenceTable(n int) string {
	var b strings.Builder
	b.WriteString("ID,Fuel,lat,lon\n")
	for i := 0; i < n*n; i++ {
		fmt.Fprintf(&b, "%d,C1,%d.0,%d.5\n", i+1, i, i)
	}
	return b.String()
}

// startAPI lays out a results tree and a data tree on disk, then serves them
// through the real engine and HTTP adapter.
func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	results, data, etc := t.TempDir(), t.TempDir(), t.TempDir()

	writeFile(t, data, "Test9/Data.csv", referenceTable(3))
	writeFile(t, data, "Test9/IgnitionPoints.csv", "Year,Ncell\n1,5\n")
	writeFile(t, data, "Korean40x40/Data.csv", referenceTable(3))
	writeFile(t, results, "Test9/Grids/Grids1/ForestGrid00.csv", "0,0,0\n0,1,0\n0,0,1\n")
	writeFile(t, results, "Test9_full/Grids/Grids4/ForestGrid02.csv", "1,1,0\n0,1,0\n0,0,0\n")
	writeFile(t, results, "Korean40x40/Grids/Grids1/ForestGrid07.csv", "0,0,0\n0,1,0\n0,0,0\n")
	writeFile(t, results, "Sub40x40/Grids/Grids1/ForestGrid10.csv", "1,0,0\n0,0,0\n0,0,0\n")
	writeFile(t, etc, "policies.toml", policies)

	cfg := &config.Config{
		ResultsURL:          "file://" + filepath.ToSlash(results),
		DataURL:             "file://" + filepath.ToSlash(data),
		ReferenceTable:      "Data.csv",
		IgnitionTable:       "IgnitionPoints.csv",
		GridExtension:       "csv",
		PolicyFile:          filepath.Join(etc, "policies.toml"),
		DefaultIgnition:     "absent",
		FineGrainedPrefixes: []string{"9cellsC1"},
		GridRowMode:         "lenient",
		GeometryCacheSize:   4,
		DefaultDataset:      "Korean40x40",
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.Build(context.Background(), cfg, logger, observability.NewMetricsForTesting())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	api := httpadapter.NewServer(":0", svc.Engine, svc, httpadapter.Options{DefaultDataset: cfg.DefaultDataset}, logger)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test server URL
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestFireSpreadEndToEnd(t *testing.T) {
	srv := startAPI(t)

	var res domain.FireSpreadResult
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/datasets/Test9/runs/1/fire-spread/0", &res))

	assert.Equal(t, 2, res.TotalBurnedPixels)
	assert.Equal(t, []domain.BurnedPixel{
		{Row: 1, Col: 1, Lat: 4, Lon: 4.5},
		{Row: 2, Col: 2, Lat: 8, Lon: 8.5},
	}, res.BurnedCoordinates)
	require.NotNil(t, res.IgnitionPixel)
	assert.Equal(t, domain.BurnedPixel{Row: 1, Col: 1, Lat: 4, Lon: 4.5}, *res.IgnitionPixel)
	assert.Equal(t, "3x3", res.Metadata.GridSize)
}

func TestFireSpreadVariantDataset(t *testing.T) {
	srv := startAPI(t)

	var res domain.FireSpreadResult
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/datasets/Test9_full/runs/4/fire-spread/60", &res))

	assert.Equal(t, "Test9_full", res.Metadata.Dataset)
	assert.Equal(t, 3, res.TotalBurnedPixels)
	assert.NotNil(t, res.IgnitionPoint)
}

func TestFireSpreadDefaultDatasetFallbackIgnition(t *testing.T) {
	srv := startAPI(t)

	var res domain.FireSpreadResult
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/fire-spread/210", &res))

	assert.Equal(t, domain.CadenceStepped, res.Metadata.CadencePolicy)
	assert.Equal(t, 7, res.Metadata.TimeStep)
	require.NotNil(t, res.IgnitionPixel)
	assert.Equal(t, 1, res.IgnitionPixel.Row)
	assert.Equal(t, 1, res.IgnitionPixel.Col)
}

func TestFireSpreadCappedCadence(t *testing.T) {
	srv := startAPI(t)

	var res domain.FireSpreadResult
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/datasets/Sub40x40/fire-spread/240", &res))

	assert.Equal(t, domain.CadenceCapped, res.Metadata.CadencePolicy)
	assert.Equal(t, 10, res.Metadata.TimeStep)
	assert.Equal(t, 1, res.TotalBurnedPixels)
}

func TestFireSpreadNotFound(t *testing.T) {
	srv := startAPI(t)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/datasets/Test9/runs/9/fire-spread/0", &body))
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/datasets/Test9/runs/1/fire-spread/600", &body))
	assert.Contains(t, body["error"], "timestep 20")
}

func TestSimulationsAndReadiness(t *testing.T) {
	srv := startAPI(t)

	var body struct {
		Simulations []string `json:"simulations"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/simulations", &body))
	assert.Equal(t, []string{"Korean40x40", "Sub40x40", "Test9", "Test9_full"}, body.Simulations)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/readyz", nil))
}
