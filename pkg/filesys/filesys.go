// Package filesys provides a small collection of utility functions for the
// file system operations the storage engine performs: creating the store
// directory, enumerating segment files, and deleting obsolete segments.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

var (
	ErrIsNotDir = errors.New("path isn't a directory")
)

// CreateDir creates a directory at the specified path with the given permissions.
//
// If the directory already exists:
//   - If 'force' is true, it proceeds without error.
//   - If 'force' is false, it returns an error.
//
// It also returns an error if the existing path is a file (not a directory).
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if !force && !os.IsNotExist(err) {
		if err == nil {
			return os.ErrExist
		}
		return err
	}

	// If the path exists and it's not a directory, return an error.
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}

	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}
	return os.Chmod(dirPath, permission)
}

// ReadDir reads the directory specified by `pattern` and returns a list of
// matching file paths. It uses `filepath.Glob`, so `pattern` can contain glob
// patterns (e.g., "store/*.log").
func ReadDir(pattern string) ([]string, error) {
	files, err := filepath.Glob(pattern)
	return files, err
}

// DeleteFile deletes the file at the specified `filePath`.
func DeleteFile(filePath string) error {
	return os.Remove(filePath)
}
