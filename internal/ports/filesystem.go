package ports

import (
	"os"
	"time"
)

// FileInfo contains file metadata.
type FileInfo struct {
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
}

// FileSystem provides the file system operations the providers need.
// The sssd.conf step writes through this interface so tests can run
// against an in-memory double.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldPath, newPath string) error
	Chmod(path string, perm os.FileMode) error
	Chown(path string, uid, gid int) error
	GetFileInfo(path string) (FileInfo, error)
}
