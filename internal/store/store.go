package store

// Store is the string-keyed value store the workspace persists
// through. Get returns an empty string for a missing key.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
