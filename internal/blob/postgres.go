package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edkeeper/classvault/internal/dbx"
	"github.com/edkeeper/classvault/internal/shared"
	"github.com/google/uuid"
)

// PostgresStore keeps blobs in a PostgreSQL blobs table.
type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, data []byte) (string, error) {
	key := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `INSERT INTO blobs (key, data) VALUES ($1, $2)`, key, data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert blob: %v", shared.ErrStorageUnavailable, err)
	}

	return key, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read blob %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return data, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("%w: failed to delete blob %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return nil
}
