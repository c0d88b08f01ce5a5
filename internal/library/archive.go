package library

import (
	"io"
	"time"
)

// ArchiveInfo describes one stored sheet backup.
type ArchiveInfo struct {
	Name      string
	Size      int64
	CreatedAt time.Time
}

// ArchiveStore provides an interface for sheet-backup storage backends.
// Archives are opaque byte blobs addressed by name; the store never
// inspects their contents. All operations stream through
// io.Reader/io.Writer so large libraries never need to fit in memory
// twice.
type ArchiveStore interface {
	// Put stores an archive under the given name, replacing any
	// existing archive with that name. size is the number of bytes
	// that will be read from r.
	Put(name string, r io.Reader, size int64) error

	// Get retrieves an archive by name and writes it to w.
	Get(name string, w io.Writer) error

	// List returns all stored archives, newest first.
	List() ([]ArchiveInfo, error)

	// ValidateSetup verifies that the store is accessible and properly
	// configured.
	ValidateSetup() error
}
