package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
)

func TestRenderGrid(t *testing.T) {
	pixels := []domain.BurnedPixel{{Row: 1, Col: 1}, {Row: 2, Col: 2}}
	ign := &domain.IgnitionPoint{Row: 1, Col: 1}
	res := domain.NewResult(0, pixels, ign, domain.Metadata{
		Dataset:          "Test9",
		SimulationNumber: 1,
		GridSize:         "3x3",
	}, time.Time{})

	var buf bytes.Buffer
	require.NoError(t, renderGrid(&buf, res))

	assert.Equal(t, "...\n.*.\n..#\nTest9 run 1, 0 min (timestep 0): 2 burned\n", buf.String())
}

func TestRenderGrid_NoGeometry(t *testing.T) {
	pixels := []domain.BurnedPixel{{Row: 0, Col: 3}}
	res := domain.NewResult(60, pixels, nil, domain.Metadata{
		Dataset:          "Sub40x40",
		SimulationNumber: 2,
		GridSize:         "0x0",
		TimeStep:         2,
	}, time.Time{})

	var buf bytes.Buffer
	require.NoError(t, renderGrid(&buf, res))

	assert.Equal(t, "...#\n....\n....\n....\nSub40x40 run 2, 60 min (timestep 2): 1 burned\n", buf.String())
}
