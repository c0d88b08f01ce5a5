package library

import (
	"bytes"
	"fmt"

	"shelf/internal/model"
)

// Export snapshots the live library into a sheet backup and stores it
// in the archive store under the given name. When encrypt is true the
// encoded payload is age-encrypted with the configured public key.
func (s *Service) Export(name string, encrypt bool) error {
	s.logger.Info("export started", "archive", name)

	snapshot, err := s.buildSnapshot()
	if err != nil {
		return err
	}

	var encoded bytes.Buffer
	if err := EncodeSnapshot(&encoded, snapshot); err != nil {
		return err
	}

	payload := encoded.Bytes()
	if encrypt {
		var sealed bytes.Buffer
		if err := s.encryptor.Encrypt(&encoded, &sealed); err != nil {
			return fmt.Errorf("encrypting backup: %w", err)
		}
		payload = sealed.Bytes()
	}

	if err := s.archive.Put(name, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return fmt.Errorf("storing archive: %w", err)
	}

	s.logger.Info("export complete",
		"archive", name, "books", len(snapshot.Books), "bytes", len(payload))
	return nil
}

// buildSnapshot reads the full library into an in-memory snapshot with
// reference entities denormalized back to flat name lists.
func (s *Service) buildSnapshot() (*model.Snapshot, error) {
	books, err := s.database.ListBookRecords()
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	snapshot := &model.Snapshot{Books: books}

	lists := []struct {
		list func() ([]model.NamedEntity, error)
		dest *[]string
	}{
		{s.database.ListGroups, &snapshot.Groups},
		{s.database.ListPublishers, &snapshot.Publishers},
		{s.database.ListStores, &snapshot.Stores},
		{s.database.ListPeople, &snapshot.People},
	}
	for _, l := range lists {
		entities, err := l.list()
		if err != nil {
			return nil, fmt.Errorf("listing entities: %w", err)
		}
		names := make([]string, len(entities))
		for i, e := range entities {
			names[i] = e.Name
		}
		*l.dest = names
	}

	return snapshot, nil
}

// ListArchives returns the stored sheet backups, newest first.
func (s *Service) ListArchives() ([]ArchiveInfo, error) {
	archives, err := s.archive.List()
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	return archives, nil
}

// FetchArchive retrieves a stored sheet backup by name.
func (s *Service) FetchArchive(name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.archive.Get(name, &buf); err != nil {
		return nil, fmt.Errorf("fetching archive: %w", err)
	}
	return buf.Bytes(), nil
}
