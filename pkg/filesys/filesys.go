// Package filesys provides a small collection of file system utilities:
// directory creation, existence checks, and whole-file read/write. The
// persistence adapters use CreateDir.
package filesys

import (
	"errors"
	"os"
)

var ErrIsNotDir = errors.New("path isn't a directory")

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
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}
	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}
	return os.Chmod(dirPath, permission)
}

// DeleteDir deletes a directory and all its contents recursively.
func DeleteDir(path string) error {
	return os.RemoveAll(path)
}

// Exists checks if a file or directory at the given path exists.
func Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFile writes contents to filePath with the given permission,
// creating the file if it does not exist and truncating it if it does.
func WriteFile(filePath string, permission os.FileMode, contents []byte) error {
	return os.WriteFile(filePath, contents, permission)
}

// ReadFile reads the entire content of filePath into a byte slice.
func ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// DeleteFile deletes the file at the specified filePath.
func DeleteFile(filePath string) error {
	return os.Remove(filePath)
}
