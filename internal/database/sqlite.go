package database

import (
	"database/sql"
	"fmt"
	"time"

	"shelf/internal/database/migrations"
	"shelf/internal/library"
	"shelf/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the library.Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

var _ library.Database = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db, path: ""}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single pooled connection keeps per-connection PRAGMAs in effect
	// and makes ":memory:" databases see one shared store.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema is at the latest version.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Migrate brings the schema up to the latest version.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// Reference-entity operations. The four categories are structurally
// identical; each pair delegates to the shared helpers below.

func (s *SQLiteDatabase) ListGroups() ([]model.NamedEntity, error) {
	return s.listEntities("groups")
}

func (s *SQLiteDatabase) InsertGroup(name string) (int64, error) {
	return s.insertEntity("groups", name)
}

func (s *SQLiteDatabase) ListPublishers() ([]model.NamedEntity, error) {
	return s.listEntities("publishers")
}

func (s *SQLiteDatabase) InsertPublisher(name string) (int64, error) {
	return s.insertEntity("publishers", name)
}

func (s *SQLiteDatabase) ListStores() ([]model.NamedEntity, error) {
	return s.listEntities("stores")
}

func (s *SQLiteDatabase) InsertStore(name string) (int64, error) {
	return s.insertEntity("stores", name)
}

func (s *SQLiteDatabase) ListPeople() ([]model.NamedEntity, error) {
	return s.listEntities("people")
}

func (s *SQLiteDatabase) InsertPerson(name string) (int64, error) {
	return s.insertEntity("people", name)
}

// listEntities returns all rows of a reference-entity table in
// insertion order. The table name is always one of the four fixed
// category tables, never user input.
func (s *SQLiteDatabase) listEntities(table string) ([]model.NamedEntity, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT id, name, created_at FROM %s ORDER BY id", table))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var entities []model.NamedEntity
	for rows.Next() {
		var e model.NamedEntity
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s rows: %w", table, err)
	}
	return entities, nil
}

func (s *SQLiteDatabase) insertEntity(table string, name string) (int64, error) {
	res, err := s.db.Exec(
		fmt.Sprintf("INSERT INTO %s (name, created_at) VALUES (?, ?)", table),
		name, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new %s id: %w", table, err)
	}
	return id, nil
}

// Book operations

func (s *SQLiteDatabase) ListBookCodes() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT code FROM books")
	if err != nil {
		return nil, fmt.Errorf("listing book codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]struct{})
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning book code: %w", err)
		}
		codes[code] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading book codes: %w", err)
	}
	return codes, nil
}

func (s *SQLiteDatabase) InsertBook(book *model.Book) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO books (
			code, title, series, volume, synopsis, notes,
			publisher_id, group_id, store_id,
			paid_price_value, paid_price_currency,
			label_price_value, label_price_currency,
			bought_at, is_future, cover_url, width, height, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Code, book.Title, book.Series, book.Volume, book.Synopsis, book.Notes,
		book.PublisherID, book.GroupID, nullableID(book.StoreID),
		book.PaidPrice.Value, book.PaidPrice.Currency,
		book.LabelPrice.Value, book.LabelPrice.Currency,
		nullableTime(book.BoughtAt), book.IsFuture, book.CoverURL,
		book.Width, book.Height, book.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting book: %w", err)
	}

	bookID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new book id: %w", err)
	}

	for _, c := range book.Contributors {
		_, err := tx.Exec(
			"INSERT INTO book_contributors (book_id, person_id, role) VALUES (?, ?, ?)",
			bookID, c.PersonID, c.Role,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting contributor link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing book insert: %w", err)
	}
	return bookID, nil
}

func (s *SQLiteDatabase) InsertReading(bookID int64, readAt *time.Time) error {
	_, err := s.db.Exec(
		"INSERT INTO readings (book_id, read_at) VALUES (?, ?)",
		bookID, nullableTime(readAt),
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}
	return nil
}

// FindBookByCode returns the stored book with the given normalized
// code, or nil if none exists.
func (s *SQLiteDatabase) FindBookByCode(code string) (*model.Book, error) {
	var book model.Book
	var storeID sql.NullInt64
	var boughtAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, code, title, series, volume, synopsis, notes,
		       publisher_id, group_id, store_id,
		       paid_price_value, paid_price_currency,
		       label_price_value, label_price_currency,
		       bought_at, is_future, cover_url, width, height, created_at
		FROM books WHERE code = ?`, code).Scan(
		&book.ID, &book.Code, &book.Title, &book.Series, &book.Volume,
		&book.Synopsis, &book.Notes,
		&book.PublisherID, &book.GroupID, &storeID,
		&book.PaidPrice.Value, &book.PaidPrice.Currency,
		&book.LabelPrice.Value, &book.LabelPrice.Currency,
		&boughtAt, &book.IsFuture, &book.CoverURL,
		&book.Width, &book.Height, &book.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding book by code: %w", err)
	}
	if storeID.Valid {
		book.StoreID = storeID.Int64
	}
	if boughtAt.Valid {
		t := boughtAt.Time
		book.BoughtAt = &t
	}

	rows, err := s.db.Query(
		"SELECT book_id, person_id, role FROM book_contributors WHERE book_id = ? ORDER BY person_id",
		book.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contributors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Contributor
		if err := rows.Scan(&c.BookID, &c.PersonID, &c.Role); err != nil {
			return nil, fmt.Errorf("scanning contributor: %w", err)
		}
		book.Contributors = append(book.Contributors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading contributors: %w", err)
	}
	return &book, nil
}

func (s *SQLiteDatabase) ListBookRecords() ([]model.BookRecord, error) {
	rows, err := s.db.Query(`
		SELECT b.id, b.code, b.title, b.synopsis, b.notes,
		       p.name, g.name, COALESCE(st.name, ''),
		       b.paid_price_value, b.paid_price_currency,
		       b.label_price_value, b.label_price_currency,
		       b.bought_at, b.is_future, b.cover_url, b.width, b.height
		FROM books b
		JOIN publishers p ON p.id = b.publisher_id
		JOIN groups g ON g.id = b.group_id
		LEFT JOIN stores st ON st.id = b.store_id
		ORDER BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var records []model.BookRecord
	var ids []int64
	for rows.Next() {
		var rec model.BookRecord
		var id int64
		var boughtAt sql.NullTime
		var isFuture bool
		if err := rows.Scan(
			&id, &rec.Code, &rec.Title, &rec.Synopsis, &rec.Notes,
			&rec.Publisher, &rec.Group, &rec.Store,
			&rec.PaidPrice.Value, &rec.PaidPrice.Currency,
			&rec.LabelPrice.Value, &rec.LabelPrice.Currency,
			&boughtAt, &isFuture, &rec.CoverURL, &rec.Width, &rec.Height,
		); err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		if boughtAt.Valid {
			t := boughtAt.Time
			rec.BoughtAt = &t
		}
		if isFuture {
			rec.Status = model.StatusFuture
		}
		records = append(records, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading book rows: %w", err)
	}

	for i := range records {
		if err := s.fillBookDetails(&records[i], ids[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// fillBookDetails attaches author names and reading state to an
// exported book record.
func (s *SQLiteDatabase) fillBookDetails(rec *model.BookRecord, bookID int64) error {
	rows, err := s.db.Query(`
		SELECT pe.name FROM book_contributors bc
		JOIN people pe ON pe.id = bc.person_id
		WHERE bc.book_id = ? AND bc.role = ?
		ORDER BY pe.id`, bookID, model.RoleAuthor)
	if err != nil {
		return fmt.Errorf("listing contributors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning contributor: %w", err)
		}
		rec.Authors = append(rec.Authors, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading contributors: %w", err)
	}

	var readAt sql.NullTime
	err = s.db.QueryRow(
		"SELECT read_at FROM readings WHERE book_id = ? ORDER BY id DESC LIMIT 1",
		bookID,
	).Scan(&readAt)
	switch {
	case err == sql.ErrNoRows:
		// Never read; keep the status derived from is_future.
	case err != nil:
		return fmt.Errorf("reading latest reading: %w", err)
	default:
		rec.Status = model.StatusRead
		if readAt.Valid {
			t := readAt.Time
			rec.ReadAt = &t
		}
	}
	return nil
}

func (s *SQLiteDatabase) CountBooks() (int64, int64, error) {
	var total, read int64
	err := s.db.QueryRow(
		"SELECT COUNT(*), (SELECT COUNT(DISTINCT book_id) FROM readings) FROM books",
	).Scan(&total, &read)
	if err != nil {
		return 0, 0, fmt.Errorf("counting books: %w", err)
	}
	return total, read, nil
}

// Restore-operation audit records

func (s *SQLiteDatabase) CreateRestoreOperation(operation, parameters string) (*model.RestoreOperation, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO restore_operations (operation, parameters, status, created_at) VALUES (?, ?, 'success', ?)",
		operation, parameters, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting restore operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new operation id: %w", err)
	}
	return &model.RestoreOperation{
		ID:         id,
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
		CreatedAt:  now,
	}, nil
}

func (s *SQLiteDatabase) FinishRestoreOperation(id int64, status string) error {
	_, err := s.db.Exec(
		"UPDATE restore_operations SET status = ?, finished_at = ? WHERE id = ?",
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing restore operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListRestoreOperations(limit int) ([]*model.RestoreOperation, error) {
	rows, err := s.db.Query(`
		SELECT id, operation, parameters, status, created_at, finished_at
		FROM restore_operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing restore operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.RestoreOperation
	for rows.Next() {
		var op model.RestoreOperation
		var finishedAt sql.NullTime
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.CreatedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning restore operation: %w", err)
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			op.FinishedAt = &t
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading restore operations: %w", err)
	}
	return ops, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// nullableTime converts an optional time to its SQL representation.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// nullableID converts a zero ID to SQL NULL.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
