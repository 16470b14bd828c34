// Package docstore implements the durable single-record JSON document store.
// Each named slot holds one whole document; there are no partial updates.
// The application uses four independently durable partitions: the blob
// keyspace plus the catalog, legacy-catalog, and users slots defined here.
package docstore

import "context"

// Slot names for the application's document partitions. The legacy slot is
// transitional: once migration completes, the catalog slot is authoritative
// and the legacy slot is removed.
const (
	SlotCatalog       = "catalog"
	SlotCatalogLegacy = "catalog_v6"
	SlotUsers         = "users"
)

// Store describes the whole-document persistence contract. Save is
// last-writer-wins and durable before it returns; serialization of
// read-modify-write cycles is the caller's responsibility.
type Store interface {
	// Load returns the document stored in slot, or nil when the slot is empty.
	Load(ctx context.Context, slot string) ([]byte, error)

	// Save replaces the document in slot.
	Save(ctx context.Context, slot string, value []byte) error

	// Delete empties the slot. Deleting an empty slot is a no-op success.
	Delete(ctx context.Context, slot string) error

	// SaveAndDelete atomically saves one slot and deletes another. Used by
	// the migration engine so the legacy record disappears exactly when the
	// migrated document becomes durable, never before.
	SaveAndDelete(ctx context.Context, saveSlot string, value []byte, deleteSlot string) error
}
