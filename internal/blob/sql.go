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

// SQLStore keeps blobs in the local SQLite database, in the blobs table.
type SQLStore struct {
	db dbx.DBTX
}

func NewSQLStore(db dbx.DBTX) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Put(ctx context.Context, data []byte) (string, error) {
	key := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `INSERT INTO blobs (key, data) VALUES (?, ?)`, key, data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert blob: %v", shared.ErrStorageUnavailable, err)
	}

	return key, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read blob %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return data, nil
}

// Delete removes the blob if present. Deleting an already-absent key is not
// an error.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: failed to delete blob %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return nil
}
