// Package snapshot persists which identifiers were synced as of the last
// successful run. Export compares it against the sheet's current rows to
// tell a deliberately deleted row from a row that never existed, and keeps
// enough of each reference to name it in reports after the row is gone.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"refsheet/internal/props"
	"refsheet/internal/refs"
)

// propKey is the property-store key holding the JSON blob.
const propKey = "snapshot"

// Entry describes one synced reference as of the last run.
type Entry struct {
	Label   string `json:"label"`
	Title   string `json:"title,omitempty"`
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`
}

// Snapshot records the synced identifier set at one moment.
type Snapshot struct {
	SavedAt time.Time        `json:"savedAt"`
	ByKey   map[string]Entry `json:"byKey"`
}

// New returns an empty snapshot stamped now.
func New() *Snapshot {
	return &Snapshot{
		SavedAt: time.Now().UTC(),
		ByKey:   make(map[string]Entry),
	}
}

// Add records one reference.
func (s *Snapshot) Add(ref refs.Reference) {
	s.ByKey[ref.Key] = Entry{
		Label:   ref.Label(),
		Title:   ref.Title,
		Authors: ref.Authors,
		Year:    ref.Year,
	}
}

// Keys returns the recorded identifiers, sorted for deterministic iteration.
func (s *Snapshot) Keys() []string {
	out := make([]string, 0, len(s.ByKey))
	for k := range s.ByKey {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load reads the persisted snapshot. Nil means no usable snapshot, whether
// absent or unparseable; the caller treats that as "skip the deletion
// check", never as an error.
func Load(store props.Store) *Snapshot {
	raw, ok := store.Get(propKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	if s.ByKey == nil {
		s.ByKey = make(map[string]Entry)
	}
	return &s
}

// Save persists the snapshot, overwriting the previous one.
func Save(store props.Store, s *Snapshot) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := store.Set(propKey, string(blob)); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}
