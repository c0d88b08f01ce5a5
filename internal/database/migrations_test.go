package database_test

import (
	"testing"

	"shelf/internal/database"
)

func TestMigrations(t *testing.T) {
	t.Run("migrate brings a fresh database up to date", func(t *testing.T) {
		t.Parallel()
		db, err := database.NewSQLiteDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteDatabase() error = %v", err)
		}
		defer db.Close()

		if err := db.CheckMigrations(); err == nil {
			t.Error("CheckMigrations() = nil on an unmigrated database, want error")
		}

		if err := db.Migrate(); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
		if err := db.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() after Migrate() error = %v", err)
		}

		// All tables exist and are usable.
		if _, err := db.InsertGroup("Shonen"); err != nil {
			t.Errorf("InsertGroup() on migrated schema error = %v", err)
		}
		if _, err := db.ListBookCodes(); err != nil {
			t.Errorf("ListBookCodes() on migrated schema error = %v", err)
		}
		if _, err := db.ListRestoreOperations(1); err != nil {
			t.Errorf("ListRestoreOperations() on migrated schema error = %v", err)
		}
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		t.Parallel()
		db, err := database.NewSQLiteDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteDatabase() error = %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			t.Fatalf("first Migrate() error = %v", err)
		}
		if err := db.Migrate(); err != nil {
			t.Errorf("second Migrate() error = %v", err)
		}
	})
}
