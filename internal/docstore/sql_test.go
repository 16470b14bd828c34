package docstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/edkeeper/classvault/internal/shared"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE slots (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestSQLStore_LoadEmptySlot(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(setupDB(t))

	value, err := store.Load(ctx, SlotCatalog)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSQLStore_SaveIsLastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(setupDB(t))

	require.NoError(t, store.Save(ctx, SlotCatalog, []byte(`{"v":1}`)))
	require.NoError(t, store.Save(ctx, SlotCatalog, []byte(`{"v":2}`)))

	value, err := store.Load(ctx, SlotCatalog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(value))
}

func TestSQLStore_SlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(setupDB(t))

	require.NoError(t, store.Save(ctx, SlotCatalog, []byte(`{"a":1}`)))
	require.NoError(t, store.Save(ctx, SlotUsers, []byte(`[]`)))

	catalog, err := store.Load(ctx, SlotCatalog)
	require.NoError(t, err)
	users, err := store.Load(ctx, SlotUsers)
	require.NoError(t, err)

	assert.JSONEq(t, `{"a":1}`, string(catalog))
	assert.JSONEq(t, `[]`, string(users))
}

func TestSQLStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(setupDB(t))

	require.NoError(t, store.Save(ctx, SlotCatalogLegacy, []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, SlotCatalogLegacy))

	value, err := store.Load(ctx, SlotCatalogLegacy)
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Delete(ctx, SlotCatalogLegacy))
}

func TestSQLStore_SaveAndDeleteIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(setupDB(t))

	require.NoError(t, store.Save(ctx, SlotCatalogLegacy, []byte(`{"legacy":true}`)))
	require.NoError(t, store.SaveAndDelete(ctx, SlotCatalog, []byte(`{"migrated":true}`), SlotCatalogLegacy))

	catalog, err := store.Load(ctx, SlotCatalog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"migrated":true}`, string(catalog))

	legacy, err := store.Load(ctx, SlotCatalogLegacy)
	require.NoError(t, err)
	assert.Nil(t, legacy)
}

func TestSQLStore_ClosedDBSurfacesStorageUnavailable(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	store := NewSQLStore(db)
	require.NoError(t, db.Close())

	_, err := store.Load(ctx, SlotCatalog)
	assert.ErrorIs(t, err, shared.ErrStorageUnavailable)

	assert.ErrorIs(t, store.Save(ctx, SlotCatalog, []byte(`{}`)), shared.ErrStorageUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, SlotCatalog), shared.ErrStorageUnavailable)
}
