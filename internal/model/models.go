package model

import "time"

// BookStatus describes where a book sits in the owner's collection.
type BookStatus int

const (
	// StatusHave is a book that is owned but not yet read.
	StatusHave BookStatus = iota
	// StatusFuture is a book that is planned but not yet purchased.
	StatusFuture
	// StatusRead is a book that has been read at least once.
	StatusRead
)

// String returns the display name for a status.
func (s BookStatus) String() string {
	switch s {
	case StatusFuture:
		return "future"
	case StatusRead:
		return "read"
	default:
		return "have"
	}
}

// Price is a monetary amount with its currency code.
type Price struct {
	Value    float64
	Currency string
}

// Snapshot is the fully decoded contents of a sheet backup.
// It holds the exported library plus flat name lists for every
// reference entity the books link to. Immutable once decoded.
type Snapshot struct {
	Books      []BookRecord
	Groups     []string
	Publishers []string
	Stores     []string
	People     []string
}

// BookRecord is one book inside a snapshot. Reference entities are
// carried as free-text names; they are resolved to local identifiers
// during restore. Code may still contain separator characters — it is
// normalized before any duplicate matching.
type BookRecord struct {
	Code       string
	Title      string
	Synopsis   string
	Notes      string
	Publisher  string
	Group      string
	Store      string
	Authors    []string
	PaidPrice  Price
	LabelPrice Price
	BoughtAt   *time.Time
	ReadAt     *time.Time
	Status     BookStatus
	CoverURL   string
	Width      float64
	Height     float64
}

// NamedEntity is a persisted reference entity: a group, publisher,
// store, or person row. Books link to these by ID.
type NamedEntity struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Book is a persisted book row. Code is stored normalized.
type Book struct {
	ID           int64
	Code         string
	Title        string
	Series       string
	Volume       string
	Synopsis     string
	Notes        string
	PublisherID  int64
	GroupID      int64
	StoreID      int64 // 0 when the purchase store is unknown
	PaidPrice    Price
	LabelPrice   Price
	BoughtAt     *time.Time
	IsFuture     bool
	CoverURL     string
	Width        float64
	Height       float64
	CreatedAt    time.Time
	Contributors []Contributor
}

// RoleAuthor is the contributor role assigned to imported author links.
const RoleAuthor = "author"

// Contributor links a person to a book with a role.
type Contributor struct {
	BookID   int64
	PersonID int64
	Role     string
}

// Reading is a single recorded read of a book. ReadAt is nil when the
// backup did not carry a read date.
type Reading struct {
	ID     int64
	BookID int64
	ReadAt *time.Time
}

// RestoreOperation is the audit record for one mutating CLI run.
type RestoreOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
	CreatedAt  time.Time
	FinishedAt *time.Time
}
