package library

import (
	"time"

	"shelf/internal/model"
)

// Database provides an interface for library storage operations.
// Insert methods return the freshly assigned row identifier. List
// methods return rows in stable insertion order so that resolution
// tie-breaking is deterministic.
type Database interface {
	// Reference-entity operations, one pair per category.

	ListGroups() ([]model.NamedEntity, error)
	InsertGroup(name string) (int64, error)

	ListPublishers() ([]model.NamedEntity, error)
	InsertPublisher(name string) (int64, error)

	ListStores() ([]model.NamedEntity, error)
	InsertStore(name string) (int64, error)

	ListPeople() ([]model.NamedEntity, error)
	InsertPerson(name string) (int64, error)

	// Book operations.

	// ListBookCodes returns the set of stored (already normalized)
	// book codes. Read once per restore, before filtering.
	ListBookCodes() (map[string]struct{}, error)

	// InsertBook persists a book row together with its contributor
	// links and returns the new book ID.
	InsertBook(book *model.Book) (int64, error)

	// InsertReading records a single reading event. readAt may be nil.
	InsertReading(bookID int64, readAt *time.Time) error

	// ListBookRecords exports the full library as snapshot records,
	// with reference entities denormalized back to their names.
	ListBookRecords() ([]model.BookRecord, error)

	// CountBooks returns total and read book counts.
	CountBooks() (total int64, read int64, err error)

	// Restore-operation audit records.

	CreateRestoreOperation(operation, parameters string) (*model.RestoreOperation, error)
	FinishRestoreOperation(id int64, status string) error
	ListRestoreOperations(limit int) ([]*model.RestoreOperation, error)

	// Close closes the database connection.
	Close() error
}
