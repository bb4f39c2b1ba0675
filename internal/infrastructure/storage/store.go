// Package storage is the key-addressed document store every collection is
// persisted through. Each key holds one JSON document that is always replaced
// as a whole.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
)

var (
	// ErrCorrupt marks a stored document that could not be decoded. It is
	// only ever logged; readers receive their fallback instead.
	ErrCorrupt = errors.New("stored document is corrupt")
	// ErrQuotaExceeded is returned when a write would grow the store past its quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrWatchUnsupported is returned by Watch for backends without change notification.
	ErrWatchUnsupported = errors.New("backend does not support watching")
)

// Backend is the raw byte storage underneath a Store.
type Backend interface {
	// Read returns the bytes stored under key and whether the key exists.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	// Write replaces the bytes stored under key.
	Write(ctx context.Context, key string, data []byte) error
	// Usage returns the total number of bytes currently stored.
	Usage(ctx context.Context) (int64, error)
	Close() error
}

// Watcher is implemented by backends that can report changes made by other processes.
type Watcher interface {
	Watch(ctx context.Context, fn func(key string)) error
}

// Store reads and writes JSON documents through a Backend.
type Store struct {
	backend Backend
	quota   int64
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates a store. A quota of zero disables the size limit.
func New(backend Backend, quota int64, log *logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		backend: backend,
		quota:   quota,
		logger:  log.WithComponent("storage"),
		metrics: m,
	}
}

// Open creates a store backed by the driver named in cfg.
func Open(ctx context.Context, cfg config.StorageConfig, log *logger.Logger, m *metrics.Metrics) (*Store, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Driver {
	case config.DriverMemory:
		backend = NewMemoryBackend()
	case config.DriverFile:
		backend, err = NewFileBackend(cfg.Dir)
	case config.DriverSQLite, config.DriverPostgres:
		backend, err = NewSQLBackend(ctx, cfg.Driver, cfg.DSN)
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Driver, err)
	}

	return New(backend, cfg.QuotaBytes, log, m), nil
}

// Load decodes the document under key. A missing, empty or null document
// yields fallback. A document that fails to decode is logged and also yields
// fallback; only backend failures are returned as errors.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) (T, error) {
	raw, ok, err := s.backend.Read(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if !ok || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fallback, nil
	}

	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		s.logger.Warnw("Replacing corrupt document with fallback",
			"key", key,
			"bytes", len(raw),
			"error", fmt.Errorf("%w: %v", ErrCorrupt, err).Error(),
		)
		s.metrics.CorruptRead(key)
		return fallback, nil
	}

	return out, nil
}

// Save replaces the document under key with the JSON encoding of value.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if s.quota > 0 {
		if err := s.checkQuota(ctx, key, len(data)); err != nil {
			s.metrics.StoreWrite(key, metrics.ResultQuota)
			s.logger.LogStoreWrite(key, len(data), err)
			return err
		}
	}

	if err := s.backend.Write(ctx, key, data); err != nil {
		s.metrics.StoreWrite(key, metrics.ResultError)
		s.logger.LogStoreWrite(key, len(data), err)
		return fmt.Errorf("write %s: %w", key, err)
	}

	s.metrics.StoreWrite(key, metrics.ResultOK)
	s.logger.LogStoreWrite(key, len(data), nil)
	return nil
}

func (s *Store) checkQuota(ctx context.Context, key string, size int) error {
	usage, err := s.backend.Usage(ctx)
	if err != nil {
		return fmt.Errorf("measure usage: %w", err)
	}

	old, _, err := s.backend.Read(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}

	projected := usage - int64(len(old)) + int64(size)
	if projected > s.quota {
		return fmt.Errorf("write %s (%d bytes, %d of %d used): %w", key, size, usage, s.quota, ErrQuotaExceeded)
	}
	return nil
}

// Watch calls fn with the key of every document changed outside this process.
func (s *Store) Watch(ctx context.Context, fn func(key string)) error {
	w, ok := s.backend.(Watcher)
	if !ok {
		return ErrWatchUnsupported
	}
	return w.Watch(ctx, fn)
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}
