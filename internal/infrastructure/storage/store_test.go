package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newMemoryStore(quota int64) (*Store, *MemoryBackend) {
	backend := NewMemoryBackend()
	return New(backend, quota, logger.NewNop(), metrics.New(prometheus.NewRegistry())), backend
}

func TestLoad_MissingReturnsFallback(t *testing.T) {
	s, _ := newMemoryStore(0)

	got, err := Load(context.Background(), s, "stats", doc{Name: "fallback"})
	require.NoError(t, err)
	require.Equal(t, doc{Name: "fallback"}, got)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := newMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", []doc{{Name: "a", Count: 1}, {Name: "b", Count: 2}}))

	got, err := Load[[]doc](ctx, s, "docs", nil)
	require.NoError(t, err)
	require.Equal(t, []doc{{Name: "a", Count: 1}, {Name: "b", Count: 2}}, got)
}

func TestLoad_CorruptDocumentsDegradeToFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{not json"},
		{name: "wrong shape", raw: `{"name":"x"}`},
		{name: "truncated", raw: `[{"name":"a"`},
		{name: "null", raw: "null"},
		{name: "blank", raw: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newMemoryStore(0)
			ctx := context.Background()
			require.NoError(t, backend.Write(ctx, "docs", []byte(tt.raw)))

			got, err := Load(ctx, s, "docs", []doc{})
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestSave_QuotaExceededLeavesPriorState(t *testing.T) {
	s, _ := newMemoryStore(64)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", []doc{{Name: "a"}}))

	err := s.Save(ctx, "docs", []doc{{Name: strings.Repeat("x", 100)}})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrQuotaExceeded))

	got, err := Load[[]doc](ctx, s, "docs", nil)
	require.NoError(t, err)
	require.Equal(t, []doc{{Name: "a"}}, got)
}

func TestSave_QuotaCountsReplacedDocumentOnce(t *testing.T) {
	s, _ := newMemoryStore(40)
	ctx := context.Background()

	// Each encoding is 25 bytes; replacing must not count the old copy.
	require.NoError(t, s.Save(ctx, "docs", doc{Name: "aaaa", Count: 1}))
	require.NoError(t, s.Save(ctx, "docs", doc{Name: "bbbb", Count: 2}))
}

type failingBackend struct {
	*MemoryBackend
}

func (failingBackend) Read(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk unplugged")
}

func TestLoad_BackendErrorIsReturned(t *testing.T) {
	s := New(failingBackend{NewMemoryBackend()}, 0, nil, nil)

	got, err := Load(context.Background(), s, "docs", 7)
	require.Error(t, err)
	require.Equal(t, 7, got)
}

func TestWatch_UnsupportedOnMemory(t *testing.T) {
	s, _ := newMemoryStore(0)
	require.ErrorIs(t, s.Watch(context.Background(), func(string) {}), ErrWatchUnsupported)
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StorageConfig{Driver: config.DriverMemory}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, config.StorageConfig{Driver: config.DriverFile, Dir: t.TempDir()}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, config.StorageConfig{Driver: config.DriverSQLite, DSN: ":memory:"}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StorageConfig{Driver: "floppy"}, nil, nil)
	require.Error(t, err)
}
