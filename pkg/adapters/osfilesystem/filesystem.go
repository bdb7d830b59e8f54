// Package osfilesystem implements ports.FileSystem on the local disk. The
// CLI uses it to prepare render output locations.
package osfilesystem

import (
	"os"
	"path/filepath"

	"github.com/user/rendercast/pkg/ports"
)

// FileSystem is the local-disk implementation of ports.FileSystem.
type FileSystem struct{}

// New creates a FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// ReadFile reads the entire contents of a file.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories as needed.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	if err := fs.EnsureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureParent creates the directory that will hold path, so a render can
// target an output file whose directory does not exist yet.
func (fs *FileSystem) EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// MkdirAll creates a directory and all parent directories.
func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists checks if a file or directory exists.
func (fs *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Remove deletes a file or empty directory.
func (fs *FileSystem) Remove(path string) error {
	return os.Remove(path)
}

var _ ports.FileSystem = (*FileSystem)(nil)
