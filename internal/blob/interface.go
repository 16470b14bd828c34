// Package blob implements the durable key→binary store that holds uploaded
// media (course images, lecture videos and PDFs, tutor photos, payment
// screenshots). Keys are opaque and generated by the store at write time;
// callers never choose them. Entries are immutable once written: replacing
// content means writing a new blob and deleting the old one.
package blob

import "context"

// Store describes the blob persistence contract.
//
// Error semantics: medium-level failures (I/O, quota) wrap
// shared.ErrStorageUnavailable; a Get of a missing key returns
// shared.ErrNotFound; a Delete of a missing key is a no-op success.
type Store interface {
	// Put writes data under a fresh, previously-unused key and returns it.
	Put(ctx context.Context, data []byte) (string, error)

	// Get returns the payload stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the payload stored under key. Idempotent.
	Delete(ctx context.Context, key string) error
}
