package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edkeeper/classvault/internal/dbx"
	"github.com/edkeeper/classvault/internal/shared"
)

// SQLStore keeps documents in the local SQLite database, one row per slot.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context, slot string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load slot %s: %v", shared.ErrStorageUnavailable, slot, err)
	}
	return value, nil
}

func (s *SQLStore) Save(ctx context.Context, slot string, value []byte) error {
	return saveSlot(ctx, s.db, slot, value)
}

func (s *SQLStore) Delete(ctx context.Context, slot string) error {
	return deleteSlot(ctx, s.db, slot)
}

func (s *SQLStore) SaveAndDelete(ctx context.Context, saveSlotName string, value []byte, deleteSlotName string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := saveSlot(ctx, tx, saveSlotName, value); err != nil {
			return err
		}
		return deleteSlot(ctx, tx, deleteSlotName)
	})
}

func saveSlot(ctx context.Context, db dbx.DBTX, slot string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, slot, string(value))
	if err != nil {
		return fmt.Errorf("%w: failed to save slot %s: %v", shared.ErrStorageUnavailable, slot, err)
	}
	return nil
}

func deleteSlot(ctx context.Context, db dbx.DBTX, slot string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, slot)
	if err != nil {
		return fmt.Errorf("%w: failed to delete slot %s: %v", shared.ErrStorageUnavailable, slot, err)
	}
	return nil
}
