package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"shelf/internal/config"
	"shelf/internal/library"
	"shelf/internal/model"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig("test-host", t.TempDir())
	cfg.Archive = config.ArchiveConfig{Type: "memory"}
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	return cfg
}

func newTestApp(t *testing.T, operation string) *ShelfApp {
	t.Helper()
	a, err := NewShelfApp(newTestConfig(t), operation)
	if err != nil {
		t.Fatalf("NewShelfApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func writeBackupFile(t *testing.T, snapshot *model.Snapshot) string {
	t.Helper()
	var buf bytes.Buffer
	if err := library.EncodeSnapshot(&buf, snapshot); err != nil {
		t.Fatalf("encoding snapshot: %v", err)
	}
	path := filepath.Join(t.TempDir(), "sheet.bak")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing backup file: %v", err)
	}
	return path
}

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Books: []model.BookRecord{
			{
				Code:      "9784088725350",
				Title:     "One Piece #1",
				Publisher: "Shueisha",
				Group:     "Shonen",
				Authors:   []string{"Eiichiro Oda"},
			},
		},
		Groups:     []string{"Shonen"},
		Publishers: []string{"Shueisha"},
		People:     []string{"Eiichiro Oda"},
	}
}

func TestShelfApp(t *testing.T) {
	t.Run("restores from a backup file", func(t *testing.T) {
		a := newTestApp(t, "Restore")
		path := writeBackupFile(t, testSnapshot())

		outcome, err := a.Restore(path, func() (string, error) {
			t.Fatal("passphrase prompted for a plaintext backup")
			return "", nil
		})
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if outcome.State != library.RestoreCompleted {
			t.Fatalf("outcome state = %v, want completed", outcome.State)
		}

		stats, err := a.GetStats()
		if err != nil {
			t.Fatalf("GetStats() error = %v", err)
		}
		if stats.Books != 1 {
			t.Errorf("stats books = %d, want 1", stats.Books)
		}

		// The run is recorded in history.
		ops, err := a.GetHistory(10)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(ops) != 1 || ops[0].Operation != "Restore" {
			t.Errorf("history = %+v, want one Restore record", ops)
		}
	})

	t.Run("restores an encrypted archive via the passphrase prompt", func(t *testing.T) {
		a := newTestApp(t, "Restore")

		if _, err := a.Export("sheet-enc.bak", true); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		prompted := false
		outcome, err := a.Restore("sheet-enc.bak", func() (string, error) {
			prompted = true
			return "passphrase", nil
		})
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if !prompted {
			t.Error("passphrase prompt was not invoked for an encrypted archive")
		}
		if outcome.State != library.RestoreCompleted {
			t.Errorf("outcome state = %v, want completed", outcome.State)
		}
	})

	t.Run("restore of an unknown source fails cleanly", func(t *testing.T) {
		a := newTestApp(t, "Restore")

		if _, err := a.Restore("no-such-archive.bak", func() (string, error) {
			return "", nil
		}); err == nil {
			t.Fatal("Restore() error = nil for unknown source, want error")
		}
	})

	t.Run("export generates a timestamped name when empty", func(t *testing.T) {
		a := newTestApp(t, "Export")

		name, err := a.Export("", false)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if name == "" {
			t.Fatal("Export() returned an empty archive name")
		}

		archives, err := a.ListArchives()
		if err != nil {
			t.Fatalf("ListArchives() error = %v", err)
		}
		if len(archives) != 1 || archives[0].Name != name {
			t.Errorf("archives = %+v, want the generated name %q", archives, name)
		}
	})

	t.Run("validates the archive store", func(t *testing.T) {
		a := newTestApp(t, "Archives")
		if err := a.ValidateArchiveStore(); err != nil {
			t.Errorf("ValidateArchiveStore() error = %v", err)
		}
	})
}
