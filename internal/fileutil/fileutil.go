package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic streams r into path by way of a temporary sibling file that is
// renamed into place once fully written. Readers never observe a partial file.
// It returns the number of bytes written.
func WriteAtomic(path string, r io.Reader, mode os.FileMode) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	written, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		cleanup()
		return written, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return written, err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return written, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return written, fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return written, nil
}
