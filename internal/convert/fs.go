package convert

import (
	"io/fs"
	"os"

	"vivosprep/internal/fileutil"
)

// FS is the filesystem capability the converter depends on.
type FS interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces path with data in one step.
	WriteFile(path string, data []byte) error
	MkdirAll(path string) error
	// RemoveAll deletes path and everything below it. A missing path is not
	// an error.
	RemoveAll(path string) error
	// CopyFile copies src to dst, replacing dst, and returns bytes copied.
	CopyFile(src, dst string) (int64, error)
}

// OSFS is the operating system filesystem. With Verify set, every copy is
// checked by size and SHA-256.
type OSFS struct {
	Verify bool
}

func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFS) WriteFile(path string, data []byte) error {
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

func (OSFS) MkdirAll(path string) error { return os.MkdirAll(path, 0o755) }

func (OSFS) RemoveAll(path string) error { return os.RemoveAll(path) }

func (o OSFS) CopyFile(src, dst string) (int64, error) {
	if o.Verify {
		return fileutil.CopyFileVerified(src, dst)
	}
	return fileutil.CopyFile(src, dst)
}
