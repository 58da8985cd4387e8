// Package store provides the flat key/value blob store backing the resource
// caches. One serialized collection lives under one fixed key; every write
// replaces the whole value, so readers always see a complete snapshot.
package store

// Store is the persistence surface shared by all cache adapters. Values are
// opaque serialized blobs; keys are namespaced by the caller (e.g.
// "cache:courses") so resource kinds never collide.
type Store interface {
	// Get returns the value under key and whether it was present.
	Get(key string) ([]byte, bool, error)
	// Set atomically replaces the value under key.
	Set(key string, value []byte) error
	// Delete removes the value under key. Deleting a missing key is not an
	// error.
	Delete(key string) error
	// Close releases any underlying resources.
	Close() error
}
