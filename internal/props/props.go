// Package props is the flat string property store the engine persists small
// state into, most importantly the deletion-tracking snapshot blob. The
// interface mirrors a spreadsheet's document-properties API: string keys,
// string values, immediate persistence.
package props

// Store is a flat string key-value store.
type Store interface {
	// Get returns the value and whether the key is present.
	Get(key string) (string, bool)

	// Set writes the value and persists it.
	Set(key, value string) error

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}
