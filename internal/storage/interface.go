package storage

import "context"

// DocumentStore persists clearance documents and hands back a retrievable
// reference. Backends may be local disk (dev) or object storage.
type DocumentStore interface {
	// Store writes a blob under key and returns the reference callers should
	// persist.
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Retrieve reads a previously stored blob by reference.
	Retrieve(ctx context.Context, reference string) ([]byte, error)

	// Exists reports whether a reference resolves to a stored blob.
	Exists(ctx context.Context, reference string) (bool, error)
}
