package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edkeeper/classvault/internal/dbx"
	"github.com/edkeeper/classvault/internal/shared"
)

// PostgresStore keeps documents in a PostgreSQL slots table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, slot string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = $1`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load slot %s: %v", shared.ErrStorageUnavailable, slot, err)
	}
	return value, nil
}

func (s *PostgresStore) Save(ctx context.Context, slot string, value []byte) error {
	return pgSaveSlot(ctx, s.db, slot, value)
}

func (s *PostgresStore) Delete(ctx context.Context, slot string) error {
	return pgDeleteSlot(ctx, s.db, slot)
}

func (s *PostgresStore) SaveAndDelete(ctx context.Context, saveSlotName string, value []byte, deleteSlotName string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := pgSaveSlot(ctx, tx, saveSlotName, value); err != nil {
			return err
		}
		return pgDeleteSlot(ctx, tx, deleteSlotName)
	})
}

func pgSaveSlot(ctx context.Context, db dbx.DBTX, slot string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO slots (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, slot, string(value))
	if err != nil {
		return fmt.Errorf("%w: failed to save slot %s: %v", shared.ErrStorageUnavailable, slot, err)
	}
	return nil
}

func pgDeleteSlot(ctx context.Context, db dbx.DBTX, slot string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM slots WHERE key = $1`, slot)
	if err != nil {
		return fmt.Errorf("%w: failed to delete slot %s: %v", shared.ErrStorageUnavailable, slot, err)
	}
	return nil
}
