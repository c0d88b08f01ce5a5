package library

import (
	"fmt"

	"shelf/internal/model"
)

// LibraryStats summarizes the collection for the stats command.
type LibraryStats struct {
	Books      int64
	Read       int64
	Groups     int
	Publishers int
	Stores     int
	People     int
}

// GetStats computes collection counts from the database.
func (s *Service) GetStats() (*LibraryStats, error) {
	total, read, err := s.database.CountBooks()
	if err != nil {
		return nil, fmt.Errorf("counting books: %w", err)
	}

	stats := &LibraryStats{Books: total, Read: read}

	counts := []struct {
		list func() ([]model.NamedEntity, error)
		dest *int
	}{
		{s.database.ListGroups, &stats.Groups},
		{s.database.ListPublishers, &stats.Publishers},
		{s.database.ListStores, &stats.Stores},
		{s.database.ListPeople, &stats.People},
	}
	for _, c := range counts {
		entities, err := c.list()
		if err != nil {
			return nil, fmt.Errorf("counting entities: %w", err)
		}
		*c.dest = len(entities)
	}

	return stats, nil
}
