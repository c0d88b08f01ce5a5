package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"shelf/internal/config"
	"shelf/internal/database"
)

func TestNewDatabaseFromConfig(t *testing.T) {
	t.Run("sqlite creates the data directory and file", func(t *testing.T) {
		t.Parallel()
		dataDir := filepath.Join(t.TempDir(), "data")

		db, err := database.NewDatabaseFromConfig(config.DatabaseConfig{
			Type:    "sqlite",
			DataDir: dataDir,
		}, "host-1234")
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() error = %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dataDir, "host-1234.db")); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("sqlite requires a data directory", func(t *testing.T) {
		t.Parallel()
		_, err := database.NewDatabaseFromConfig(config.DatabaseConfig{Type: "sqlite"}, "host")
		if err == nil {
			t.Fatal("NewDatabaseFromConfig() error = nil, want data_dir error")
		}
	})

	t.Run("memory needs no paths", func(t *testing.T) {
		t.Parallel()
		db, err := database.NewDatabaseFromConfig(config.DatabaseConfig{Type: "memory"}, "host")
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() error = %v", err)
		}
		db.Close()
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		t.Parallel()
		_, err := database.NewDatabaseFromConfig(config.DatabaseConfig{Type: "postgres"}, "host")
		if err == nil {
			t.Fatal("NewDatabaseFromConfig() error = nil, want unknown type error")
		}
	})
}
