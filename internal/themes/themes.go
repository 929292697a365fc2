// Package themes persists the list of theme options offered in the sheet's
// Theme column. Import unions newly seen library tags into it; the list is
// append-only, so hand-added options survive syncs.
package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store persists theme options as a YAML file.
type Store struct {
	path string
}

// NewStore returns a store at path. The file is created on first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type fileDoc struct {
	Themes []string `yaml:"themes"`
}

// Load returns the stored options in stored order. A missing file is an
// empty list.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read theme options %s: %w", s.path, err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse theme options %s: %w", s.path, err)
	}
	return doc.Themes, nil
}

// Append unions names into the stored list: existing options keep their
// order, new names are appended in the order given, and membership is
// case-insensitive. Returns the names actually added.
func (s *Store) Append(names ...string) ([]string, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var added []string
	merged := existing
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		low := strings.ToLower(name)
		if seen[low] {
			continue
		}
		seen[low] = true
		merged = append(merged, name)
		added = append(added, name)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := s.write(merged); err != nil {
		return nil, err
	}
	return added, nil
}

// write persists the list atomically: temp file in the same directory, then
// rename.
func (s *Store) write(themes []string) error {
	data, err := yaml.Marshal(fileDoc{Themes: themes})
	if err != nil {
		return fmt.Errorf("failed to encode theme options: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create theme options directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".themes-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to stage theme options: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to stage theme options: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage theme options: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write theme options %s: %w", s.path, err)
	}
	return nil
}
