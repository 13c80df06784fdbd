// Package mocks provides test doubles for testing.
package mocks

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/meelinux/sssdcfg/internal/ports"
)

// FileSystem is a thread-safe in-memory test double for ports.FileSystem.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	modes map[string]os.FileMode
	dirs  map[string]bool
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		modes: make(map[string]os.FileMode),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
	fs.modes[path] = 0o644
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// Mode returns the recorded mode for a path.
func (fs *FileSystem) Mode(path string) os.FileMode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.modes[path]
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = data
	fs.modes[path] = perm
	return nil
}

// Exists checks if a file or directory exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	_, dirExists := fs.dirs[path]
	return fileExists || dirExists
}

// Remove removes a file from the mock filesystem.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(fs.files, path)
	delete(fs.modes, path)
	return nil
}

// MkdirAll records a directory in the mock filesystem.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	return nil
}

// Rename moves a file in the mock filesystem.
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	content, ok := fs.files[oldPath]
	if !ok {
		return fmt.Errorf("file not found: %s", oldPath)
	}
	fs.files[newPath] = content
	fs.modes[newPath] = fs.modes[oldPath]
	delete(fs.files, oldPath)
	delete(fs.modes, oldPath)
	return nil
}

// Chmod records a mode change.
func (fs *FileSystem) Chmod(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	fs.modes[path] = perm
	return nil
}

// Chown is a no-op in the mock filesystem.
func (fs *FileSystem) Chown(path string, _, _ int) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if _, ok := fs.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	return nil
}

// GetFileInfo returns metadata for a mock file.
func (fs *FileSystem) GetFileInfo(path string) (ports.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return ports.FileInfo{
			Size:    int64(len(content)),
			Mode:    fs.modes[path],
			ModTime: time.Now(),
		}, nil
	}
	if fs.dirs[path] {
		return ports.FileInfo{IsDir: true}, nil
	}
	return ports.FileInfo{}, fmt.Errorf("file not found: %s", path)
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
