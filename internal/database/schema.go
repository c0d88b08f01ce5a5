package database

// Schema is the full current schema, equivalent to applying every
// migration in migrations/files in order. Tests apply it directly to
// in-memory databases instead of running the migration machinery.
// Keep it in sync when adding migrations.
const Schema = `
CREATE TABLE groups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE publishers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE stores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE people (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE books (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL,
    title TEXT NOT NULL,
    series TEXT NOT NULL DEFAULT '',
    volume TEXT NOT NULL DEFAULT '',
    synopsis TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    publisher_id INTEGER NOT NULL REFERENCES publishers(id),
    group_id INTEGER NOT NULL REFERENCES groups(id),
    store_id INTEGER REFERENCES stores(id),
    paid_price_value REAL NOT NULL DEFAULT 0,
    paid_price_currency TEXT NOT NULL DEFAULT '',
    label_price_value REAL NOT NULL DEFAULT 0,
    label_price_currency TEXT NOT NULL DEFAULT '',
    bought_at TIMESTAMP,
    is_future BOOLEAN NOT NULL DEFAULT 0,
    cover_url TEXT NOT NULL DEFAULT '',
    width REAL NOT NULL DEFAULT 0,
    height REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_books_code ON books(code);

CREATE TABLE book_contributors (
    book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
    person_id INTEGER NOT NULL REFERENCES people(id),
    role TEXT NOT NULL,
    PRIMARY KEY (book_id, person_id, role)
);

CREATE TABLE readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
    read_at TIMESTAMP
);

CREATE TABLE restore_operations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    operation TEXT NOT NULL,
    parameters TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'success',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP
);
`
