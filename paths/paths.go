package paths

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem abstracts the filesystem operations the resolver performs, so
// traversal and cycle detection can be tested against an in-memory tree.
// The OS-backed implementation is the default; see the mock subpackage for
// the test double.
type FileSystem interface {
	// Stat follows symlinks and returns metadata for the named path.
	Stat(name string) (fs.FileInfo, error)

	// ReadDir lists the immediate entries of the named directory.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Canonical resolves symlinks and returns an absolute path, giving a
	// stable identity for the visited-directory set.
	Canonical(name string) (string, error)
}

type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (osFS) Canonical(name string) (string, error) {
	resolved, err := filepath.EvalSymlinks(name)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
