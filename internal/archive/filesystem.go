package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"shelf/internal/library"
)

// FileSystemStore is a filesystem-based implementation of the
// ArchiveStore interface. Archives are stored as plain files directly
// under the root directory, named by archive name.
type FileSystemStore struct {
	root string
}

var _ library.ArchiveStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates a new filesystem store rooted at the given path.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Put stores an archive under the given name, replacing any existing
// archive with that name. The write goes through a temp file and rename
// so a crash never leaves a truncated archive under the final name.
func (s *FileSystemStore) Put(name string, r io.Reader, size int64) error {
	destPath := filepath.Join(s.root, name)

	tmp, err := os.CreateTemp(s.root, ".put-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if written != size {
		os.Remove(tmpPath)
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// Get retrieves an archive by name and writes it to w.
func (s *FileSystemStore) Get(name string, w io.Writer) error {
	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("archive not found: %s", name)
		}
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	return nil
}

// List returns all stored archives, newest first.
func (s *FileSystemStore) List() ([]library.ArchiveInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var archives []library.ArchiveInfo
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat archive: %w", err)
		}
		archives = append(archives, library.ArchiveInfo{
			Name:      e.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].CreatedAt.After(archives[j].CreatedAt)
	})
	return archives, nil
}

// ValidateSetup verifies that the store directory exists and is writable.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("archive root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive root is not a directory: %s", s.root)
	}

	probe, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("archive root is not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}
