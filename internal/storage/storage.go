// Package storage holds the small filesystem helpers the golden-file
// harness relies on.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FilePerm is the mode for result files.
const FilePerm os.FileMode = 0644

// FileExists returns true if the path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// AtomicWriteFile writes data to a temporary file next to finalPath,
// fsyncs it, renames it into place, and fsyncs the parent directory so
// the entry is durable. A partially written result file is never
// observable.
func AtomicWriteFile(finalPath string, data []byte) error {
	dir := filepath.Dir(finalPath)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("atomic write create temp in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("atomic write data: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("atomic write fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomic write close: %w", err)
	}
	if err := os.Chmod(tmpPath, FilePerm); err != nil {
		return fmt.Errorf("atomic write chmod: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("atomic write rename %s → %s: %w", tmpPath, finalPath, err)
	}
	if err := fsyncDir(dir); err != nil {
		return err
	}

	success = true
	return nil
}

func fsyncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("fsync dir open %s: %w", path, err)
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return fmt.Errorf("fsync dir sync %s: %w", path, err)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("fsync dir close %s: %w", path, err)
	}
	return nil
}
