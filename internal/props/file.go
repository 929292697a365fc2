package props

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// File is a Store persisted as a YAML file through viper. Every mutation is
// written through immediately.
type File struct {
	path string
	v    *viper.Viper
}

// OpenFile loads the store at path. A missing file is an empty store, not an
// error; it is created on first write.
func OpenFile(path string) (*File, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read property store %s: %w", path, err)
		}
	}
	return &File{path: path, v: v}, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return v
}

func (f *File) Get(key string) (string, bool) {
	if !f.v.IsSet(key) {
		return "", false
	}
	return f.v.GetString(key), true
}

func (f *File) Set(key, value string) error {
	f.v.Set(key, value)
	return f.write()
}

// Delete removes the key. Viper has no unset, so the state is rebuilt
// without it.
func (f *File) Delete(key string) error {
	if !f.v.IsSet(key) {
		return nil
	}
	settings := f.v.AllSettings()
	delete(settings, strings.ToLower(key))
	next := newViper(f.path)
	for k, val := range settings {
		next.Set(k, val)
	}
	f.v = next
	return f.write()
}

func (f *File) write() error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create property store directory: %w", err)
		}
	}
	if err := f.v.WriteConfigAs(f.path); err != nil {
		return fmt.Errorf("failed to write property store %s: %w", f.path, err)
	}
	return nil
}
