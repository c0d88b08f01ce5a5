package library

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"

	"shelf/internal/model"
)

// DecodeSnapshot reads a sheet backup — a gzip-compressed, gob-encoded
// Snapshot — from r. The schema is fixed and carries no version tag;
// corrupt or foreign input fails the decode and with it the whole
// restore. The stream is consumed fully; nothing is mutated on failure.
func DecodeSnapshot(r io.Reader) (*model.Snapshot, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing backup: %w", err)
	}
	defer zr.Close()

	var snapshot model.Snapshot
	if err := gob.NewDecoder(zr).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}

	return &snapshot, nil
}

// IsSheetBackup reports whether data starts like a plaintext sheet
// backup (the gzip magic bytes). Encrypted archives fail this check and
// must be decrypted before decoding.
func IsSheetBackup(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// EncodeSnapshot writes s to w as a sheet backup: gob-encoded, then
// gzip-compressed. The inverse of DecodeSnapshot.
func EncodeSnapshot(w io.Writer, s *model.Snapshot) error {
	zw := gzip.NewWriter(w)

	if err := gob.NewEncoder(zw).Encode(s); err != nil {
		zw.Close()
		return fmt.Errorf("encoding backup: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing backup: %w", err)
	}
	return nil
}
