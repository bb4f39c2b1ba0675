package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS planner_documents (
		doc_key    TEXT PRIMARY KEY,
		doc_value  TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

// SQLBackend stores one row per document in a sqlite or postgres database.
type SQLBackend struct {
	db     *sqlx.DB
	driver string
}

// NewSQLBackend opens the database and creates the documents table if needed.
func NewSQLBackend(ctx context.Context, driver, dsn string) (*SQLBackend, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == "sqlite" {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &SQLBackend{db: db, driver: driver}, nil
}

func (b *SQLBackend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	query := b.db.Rebind(`SELECT doc_value FROM planner_documents WHERE doc_key = ?`)

	var value string
	err := b.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document: %w", err)
	}
	return []byte(value), true, nil
}

func (b *SQLBackend) Write(ctx context.Context, key string, data []byte) error {
	query := b.db.Rebind(`
		INSERT INTO planner_documents (doc_key, doc_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (doc_key) DO UPDATE
		SET doc_value = excluded.doc_value, updated_at = excluded.updated_at`)

	if _, err := b.db.ExecContext(ctx, query, key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (b *SQLBackend) Usage(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(OCTET_LENGTH(doc_value)), 0) FROM planner_documents`
	if b.driver == "sqlite" {
		query = `SELECT COALESCE(SUM(LENGTH(CAST(doc_value AS BLOB))), 0) FROM planner_documents`
	}

	var total int64
	if err := b.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("sum document sizes: %w", err)
	}
	return total, nil
}

// HealthCheck checks database health
func (b *SQLBackend) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
