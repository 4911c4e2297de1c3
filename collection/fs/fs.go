// Package fs stores each collection as a JSON file in a directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
)

const (
	driverName   = "fs"
	fileSuffix   = ".json"
	dirPerm      = 0o755
	tempFileGlob = ".*.tmp"
)

// Backend writes <root>/<name>.json.
type Backend struct {
	root string
}

// New creates the root directory if needed.
func New(root string) (*Backend, error) {
	if root == "" {
		return nil, errors.New("fs backend: root directory required")
	}

	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("fs backend: create root: %w", err)
	}

	return &Backend{root: root}, nil
}

func (b *Backend) Driver() string {
	return driverName
}

// Path returns the file a collection is stored in.
func (b *Backend) Path(name string) string {
	return filepath.Join(b.root, name+fileSuffix)
}

func (b *Backend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, collection.ErrCollectionMissing
	}

	return data, err
}

// Write replaces the file atomically: the data goes to a synced temp file in the same directory,
// which is then renamed over the target.
func (b *Backend) Write(_ context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(b.root, name+tempFileGlob)
	if err != nil {
		return fmt.Errorf("fs backend: create temp file: %w", err)
	}

	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("fs backend: write temp file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("fs backend: sync temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("fs backend: close temp file: %w", err)
	}

	if err = os.Rename(tmpName, b.Path(name)); err != nil {
		return fmt.Errorf("fs backend: replace %s: %w", name, err)
	}
	committed = true

	return nil
}
