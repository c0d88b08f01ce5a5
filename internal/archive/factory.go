package archive

import (
	"fmt"

	"shelf/internal/config"
	"shelf/internal/library"
)

// NewStoreFromConfig creates an ArchiveStore based on the archive config type.
func NewStoreFromConfig(cfg config.ArchiveConfig) (library.ArchiveStore, error) {
	switch cfg.Type {
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("fs_root required for filesystem archive store")
		}
		return NewFileSystemStore(cfg.FSRoot)
	case "s3":
		return NewS3Store(cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown archive store type: %s", cfg.Type)
	}
}
