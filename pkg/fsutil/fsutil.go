// Package fsutil holds small filesystem helpers shared by the folder and
// artifact layers. Everything operates on an afero filesystem so tests can
// run against an in-memory tree; CopyTree is the exception since it copies
// real checkpoint directories.
package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"

	cp "github.com/otiai10/copy"
	"github.com/spf13/afero"
)

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// EnsureDirForFile creates the parent directory of path if needed.
func EnsureDirForFile(fs afero.Fs, path string) error {
	return EnsureDir(fs, filepath.Dir(path))
}

// EnsureExt appends the extension (without leading dot) unless the path
// already ends with it.
func EnsureExt(path, ext string) string {
	suffix := "." + ext
	if strings.HasSuffix(path, suffix) {
		return path
	}
	return path + suffix
}

// Exists reports whether the path exists on the filesystem.
func Exists(fs afero.Fs, path string) (bool, error) {
	return afero.Exists(fs, path)
}

// IsDir reports whether the path exists and is a directory.
func IsDir(fs afero.Fs, path string) (bool, error) {
	return afero.IsDir(fs, path)
}

// CopyTree recursively copies a directory tree on the OS filesystem. Used to
// export checkpoints and analysis artifacts between run folders.
func CopyTree(src, dst string) error {
	if err := cp.Copy(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}
