package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/departure-etl/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MockFixture(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(fixedNow))
	t.Cleanup(func() { domain.SetClock(nil) })

	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "departures_8000105.json"))
	require.NoError(t, err)

	departures, err := normalize(data, domain.DefaultCatalog)
	require.NoError(t, err)
	require.Len(t, departures, 8)

	for _, d := range departures {
		assert.Equal(t, fixedNow, d.ProcessedAt)
		assert.NotEmpty(t, d.ID)
	}

	s := collectStats(departures)
	assert.Equal(t, 8, s.total)
	assert.Equal(t, 3, s.longDistance)
	assert.Equal(t, 1, s.unparseable)
	assert.Equal(t, map[string]int{"80": 1}, s.superseded)
	assert.Equal(t, map[string]int{"999": 1}, s.unknownCodes)
	assert.Equal(t, 2, s.byTrainType["S"])
}

func TestNormalize_InvalidRow(t *testing.T) {
	_, err := normalize([]byte(`[{"station":"8000105","scheduledDeparture":"2024-04-26T08:00:00Z"},{"train":"ICE 1"}]`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestNormalize_NotAnArray(t *testing.T) {
	_, err := normalize([]byte(`{"station":"8000105"}`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode input")
}

func TestWriteJSON_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, writeJSON(path, []string{"a"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(data))
}
