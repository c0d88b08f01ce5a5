package library

import (
	"fmt"
	"strings"
	"unicode"

	"shelf/internal/model"
)

// NormalizeCode strips separator characters and surrounding whitespace
// from a book code. The normalized form is the sole duplicate-detection
// key: "978-0-13-468599-1" and "9780134685991" are the same book.
func NormalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(code))
}

// SelectImportable filters snapshot books down to those not already in
// the collection. existing holds the stored codes, already normalized.
// Pure filter: no side effects, snapshot order preserved. Two snapshot
// books sharing a normalized code but differing by volume are not
// distinguished; the duplicate key is the code alone.
func SelectImportable(books []model.BookRecord, existing map[string]struct{}) []model.BookRecord {
	importable := make([]model.BookRecord, 0, len(books))
	for _, b := range books {
		if _, ok := existing[NormalizeCode(b.Code)]; ok {
			continue
		}
		importable = append(importable, b)
	}
	return importable
}

// importBook persists one snapshot book, wiring in the identifiers
// produced by entity resolution. The title's trailing volume marker is
// split into series and volume. A READ book additionally gets a single
// reading event with its (optional) read date.
func (s *Service) importBook(rec model.BookRecord, maps *ResolutionMaps) (int64, error) {
	series, volume := ParseTitle(rec.Title)

	publisherID, ok := maps.Publishers[rec.Publisher]
	if !ok {
		// Cannot happen when resolution ran first; fail loudly if it does.
		return 0, fmt.Errorf("publisher %q was not resolved", rec.Publisher)
	}
	groupID, ok := maps.Groups[rec.Group]
	if !ok {
		return 0, fmt.Errorf("group %q was not resolved", rec.Group)
	}

	// The purchase store is optional in the backup.
	var storeID int64
	if rec.Store != "" {
		storeID, ok = maps.Stores[rec.Store]
		if !ok {
			return 0, fmt.Errorf("store %q was not resolved", rec.Store)
		}
	}

	book := &model.Book{
		Code:        NormalizeCode(rec.Code),
		Title:       rec.Title,
		Series:      series,
		Volume:      volume,
		Synopsis:    rec.Synopsis,
		Notes:       rec.Notes,
		PublisherID: publisherID,
		GroupID:     groupID,
		StoreID:     storeID,
		PaidPrice:   rec.PaidPrice,
		LabelPrice:  rec.LabelPrice,
		BoughtAt:    rec.BoughtAt,
		IsFuture:    rec.Status == model.StatusFuture,
		CoverURL:    rec.CoverURL,
		Width:       rec.Width,
		Height:      rec.Height,
		CreatedAt:   s.clock.Now(),
	}

	for _, author := range rec.Authors {
		personID, ok := maps.People[author]
		if !ok {
			return 0, fmt.Errorf("person %q was not resolved", author)
		}
		book.Contributors = append(book.Contributors, model.Contributor{
			PersonID: personID,
			Role:     model.RoleAuthor,
		})
	}

	bookID, err := s.database.InsertBook(book)
	if err != nil {
		return 0, fmt.Errorf("inserting book %q: %w", rec.Title, err)
	}

	if rec.Status == model.StatusRead {
		if err := s.database.InsertReading(bookID, rec.ReadAt); err != nil {
			return 0, fmt.Errorf("recording reading for %q: %w", rec.Title, err)
		}
	}

	s.logger.Debug("book imported", "title", rec.Title, "id", bookID)
	return bookID, nil
}
