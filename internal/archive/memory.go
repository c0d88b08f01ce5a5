package archive

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"shelf/internal/library"
)

// MemoryStore is an in-memory implementation of the ArchiveStore
// interface, useful for testing. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	archives map[string][]byte
	created  map[string]time.Time
}

var _ library.ArchiveStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory archive store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		archives: make(map[string][]byte),
		created:  make(map[string]time.Time),
	}
}

// Put stores an archive under the given name.
func (m *MemoryStore) Put(name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.archives[name] = data
	m.created[name] = time.Now()
	return nil
}

// Get retrieves an archive by name.
func (m *MemoryStore) Get(name string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.archives[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("archive not found: %s", name)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// List returns all stored archives, newest first.
func (m *MemoryStore) List() ([]library.ArchiveInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	archives := make([]library.ArchiveInfo, 0, len(m.archives))
	for name, data := range m.archives {
		archives = append(archives, library.ArchiveInfo{
			Name:      name,
			Size:      int64(len(data)),
			CreatedAt: m.created[name],
		})
	}
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].CreatedAt.After(archives[j].CreatedAt)
	})
	return archives, nil
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}
