// Package uploads stores attachment files on the local filesystem.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore writes files under a fixed root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed and returns a store.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Save writes data to root/name and returns the stored path with forward
// slashes, suitable for persisting in case records.
func (s *DiskStore) Save(name string, data []byte) (string, error) {
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return filepath.ToSlash(path), nil
}
