package app

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"shelf/internal/archive"
	"shelf/internal/config"
	"shelf/internal/database"
	"shelf/internal/encryption"
	"shelf/internal/library"
	"shelf/internal/model"
)

// ShelfApp is the application layer between the CLI and the library
// Service. It constructs all dependencies from config, exposes
// high-level operations that accept raw strings, and manages the DB
// lifecycle on Close.
type ShelfApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	store     library.ArchiveStore
	encryptor library.Encryptor
	service   *library.Service
	op        *RestoreOperation
	logFile   *os.File
}

// NewShelfApp creates a fully wired ShelfApp from the given config.
// operation identifies the CLI command being run (e.g. "Restore", "Export").
// The caller must call Close when done.
func NewShelfApp(cfg *config.Config, operation string) (*ShelfApp, error) {
	store, err := archive.NewStoreFromConfig(cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("creating archive store: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	notifier := NewConsoleNotifier(os.Stdout)
	svc := library.NewService(db, store, enc, notifier, &slogAdapter{l: logger}, library.RealClock{})
	op := NewRestoreOperation(operation, "")

	return &ShelfApp{
		cfg:       cfg,
		db:        db,
		store:     store,
		encryptor: enc,
		service:   svc,
		op:        op,
		logFile:   logFile,
	}, nil
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for DB-mutating commands.
func (a *ShelfApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil // already persisted
	}
	a.op.Parameters = parameters
	dbOp, err := a.db.CreateRestoreOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting restore operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// Restore merges a sheet backup into the live library. source is either
// a path to a backup file on disk or the name of a stored archive.
// passphrase is called at most once, only when the archive turns out to
// be encrypted.
func (a *ShelfApp) Restore(source string, passphrase func() (string, error)) (*library.RestoreOutcome, error) {
	if err := a.persistOperation(source); err != nil {
		return nil, err
	}

	payload, err := a.loadArchive(source)
	if err != nil {
		return nil, err
	}

	if !library.IsSheetBackup(payload) {
		payload, err = a.decryptArchive(payload, passphrase)
		if err != nil {
			return nil, err
		}
	}

	outcome := a.service.Restore(bytes.NewReader(payload))
	if outcome.State == library.RestoreFailed {
		a.op.Status = "error"
	}
	return outcome, nil
}

// loadArchive reads the backup bytes from disk when source is an
// existing file path, otherwise from the archive store by name.
func (a *ShelfApp) loadArchive(source string) ([]byte, error) {
	if _, err := os.Stat(source); err == nil {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("reading backup file: %w", err)
		}
		return data, nil
	}
	return a.service.FetchArchive(source)
}

// decryptArchive unlocks the private key with the prompted passphrase
// and decrypts the archive payload.
func (a *ShelfApp) decryptArchive(payload []byte, passphrase func() (string, error)) ([]byte, error) {
	if !a.encryptor.IsConfigured() {
		return nil, fmt.Errorf("archive is encrypted but no keys are configured (run `shelf keys init`)")
	}

	pass, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}

	decCtx, err := a.encryptor.Unlock(pass)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}

	var plain bytes.Buffer
	if err := decCtx.Decrypt(bytes.NewReader(payload), &plain); err != nil {
		return nil, fmt.Errorf("decrypting archive: %w", err)
	}
	return plain.Bytes(), nil
}

// Cancel requests cancellation of an in-flight restore.
func (a *ShelfApp) Cancel() {
	a.service.Cancel()
}

// Export snapshots the library into a sheet backup stored under name.
// An empty name generates a timestamped one. Returns the archive name used.
func (a *ShelfApp) Export(name string, encrypt bool) (string, error) {
	if name == "" {
		name = fmt.Sprintf("sheet-%s.bak", time.Now().UTC().Format("20060102T150405Z"))
	}
	if err := a.persistOperation(name); err != nil {
		return "", err
	}

	if encrypt && !a.encryptor.IsConfigured() {
		a.op.Status = "error"
		return "", fmt.Errorf("encryption requested but no keys are configured (run `shelf keys init`)")
	}

	if err := a.service.Export(name, encrypt); err != nil {
		a.op.Status = "error"
		return "", err
	}
	return name, nil
}

// ListArchives returns the stored sheet backups, newest first.
func (a *ShelfApp) ListArchives() ([]library.ArchiveInfo, error) {
	return a.service.ListArchives()
}

// GetHistory returns the most recent restore operations.
func (a *ShelfApp) GetHistory(limit int) ([]*model.RestoreOperation, error) {
	return a.service.GetHistory(limit)
}

// GetStats returns collection counts.
func (a *ShelfApp) GetStats() (*library.LibraryStats, error) {
	return a.service.GetStats()
}

// SetupKeys generates the age key pair protected by the passphrase.
func (a *ShelfApp) SetupKeys(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// ValidateArchiveStore verifies the configured archive backend is usable.
func (a *ShelfApp) ValidateArchiveStore() error {
	return a.store.ValidateSetup()
}

// Close finalizes the operation record and closes all resources.
func (a *ShelfApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishRestoreOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing restore operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
