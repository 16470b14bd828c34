package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edkeeper/classvault/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "file:manager_tests?mode=memory&cache=shared"
	return cfg
}

func TestOpen_AppliesSchemaAndWiresStores(t *testing.T) {
	ctx := context.Background()

	m, err := Open(ctx, testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	// Schema exists: both stores are usable right away.
	key, err := m.Blobs().Put(ctx, []byte("payload"))
	require.NoError(t, err)
	data, err := m.Blobs().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, m.Documents().Save(ctx, "slot", []byte(`{}`)))
	value, err := m.Documents().Load(ctx, "slot")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(value))
}

func TestOpen_IsIdempotentAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.DatabaseDSN = "file:manager_restart?mode=memory&cache=shared"

	m1, err := Open(ctx, cfg)
	require.NoError(t, err)

	require.NoError(t, m1.Documents().Save(ctx, "slot", []byte(`{"v":1}`)))

	// A second Open against the same database must not fail on an
	// already-migrated schema.
	m2, err := Open(ctx, cfg)
	require.NoError(t, err)

	value, err := m2.Documents().Load(ctx, "slot")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(value))

	_ = m2.Close()
	_ = m1.Close()
}

func TestOpen_RejectsUnknownBlobBackend(t *testing.T) {
	cfg := testConfig()
	cfg.BlobBackend = "carrier-pigeon"

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, isPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, isPostgresDSN("postgresql://u:p@localhost/db"))
	assert.False(t, isPostgresDSN("file:classvault.db"))
	assert.False(t, isPostgresDSN(":memory:"))
}
