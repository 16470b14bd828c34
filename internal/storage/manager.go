// Package storage opens the configured storage medium, applies schema
// migrations, and wires up the blob and document stores.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/edkeeper/classvault/internal/blob"
	"github.com/edkeeper/classvault/internal/config"
	"github.com/edkeeper/classvault/internal/docstore"
	pgmigrations "github.com/edkeeper/classvault/internal/storage/migrations/postgres"
	sqlitemigrations "github.com/edkeeper/classvault/internal/storage/migrations/sqlite"
)

// Manager owns the database handle and the stores built on top of it.
type Manager struct {
	db        *sql.DB
	blobs     blob.Store
	documents docstore.Store
}

func (m *Manager) Blobs() blob.Store { return m.blobs }

func (m *Manager) Documents() docstore.Store { return m.documents }

func (m *Manager) Close() error { return m.db.Close() }

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func runMigrations(ctx context.Context, db *sql.DB, postgres bool) error {
	if postgres {
		goose.SetBaseFS(pgmigrations.Migrations)
		if err := goose.SetDialect("postgres"); err != nil {
			return fmt.Errorf("failed to set goose dialect: %w", err)
		}
	} else {
		goose.SetBaseFS(sqlitemigrations.Migrations)
		if err := goose.SetDialect("sqlite3"); err != nil {
			return fmt.Errorf("failed to set goose dialect: %w", err)
		}
	}
	return goose.UpContext(ctx, db, ".")
}

// Open connects to the DSN from cfg, runs the embedded schema migrations for
// the matching dialect, and constructs the stores. The blob store is either
// colocated with the documents ("sql") or an S3-compatible bucket ("s3").
func Open(ctx context.Context, cfg *config.Config) (*Manager, error) {
	postgres := isPostgresDSN(cfg.DatabaseDSN)

	driver := "sqlite"
	if postgres {
		driver = "pgx"
	}

	db, err := sql.Open(driver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(ctx, db, postgres); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	m := &Manager{db: db}

	if postgres {
		m.documents = docstore.NewPostgresStore(db)
	} else {
		m.documents = docstore.NewSQLStore(db)
	}

	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		s3store, err := blob.NewS3Store(ctx, blob.S3Options{
			Region:       cfg.S3Region,
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 blob store creation error: %w", err)
		}
		m.blobs = s3store
	case config.BlobBackendSQL:
		if postgres {
			m.blobs = blob.NewPostgresStore(db)
		} else {
			m.blobs = blob.NewSQLStore(db)
		}
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}

	return m, nil
}
