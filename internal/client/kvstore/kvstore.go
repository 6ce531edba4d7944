// Package kvstore provides the persistent key-value storage the client core
// keeps its session state in, the role browser localStorage plays for the
// web front end.
package kvstore

// Store is a small persistent string map.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
