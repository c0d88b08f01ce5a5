package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelf/internal/archive"
)

func TestFileSystemStore(t *testing.T) {
	t.Parallel()

	newStore := func(t *testing.T) (*archive.FileSystemStore, string) {
		t.Helper()
		root := t.TempDir()
		store, err := archive.NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		return store, root
	}

	t.Run("creates the root directory", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "nested", "archives")

		store, err := archive.NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		if err := store.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("put and get round trip", func(t *testing.T) {
		t.Parallel()
		store, root := newStore(t)

		data := []byte("sheet backup payload")
		if err := store.Put("sheet-1.bak", bytes.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var out bytes.Buffer
		if err := store.Get("sheet-1.bak", &out); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(out.Bytes(), data) {
			t.Errorf("Get() = %q, want %q", out.Bytes(), data)
		}

		// Stored as a plain file under the root.
		if _, err := os.Stat(filepath.Join(root, "sheet-1.bak")); err != nil {
			t.Errorf("archive file missing: %v", err)
		}
	})

	t.Run("size mismatch leaves no file behind", func(t *testing.T) {
		t.Parallel()
		store, root := newStore(t)

		if err := store.Put("sheet.bak", strings.NewReader("abc"), 99); err == nil {
			t.Fatal("Put() error = nil on size mismatch, want error")
		}
		if _, err := os.Stat(filepath.Join(root, "sheet.bak")); !os.IsNotExist(err) {
			t.Errorf("archive file exists after failed put: %v", err)
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			t.Fatalf("reading root: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("root holds %d leftover files after failed put", len(entries))
		}
	})

	t.Run("list skips dotfiles and directories", func(t *testing.T) {
		t.Parallel()
		store, root := newStore(t)

		if err := store.Put("sheet-1.bak", strings.NewReader("one"), 3); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0644); err != nil {
			t.Fatalf("writing dotfile: %v", err)
		}
		if err := os.Mkdir(filepath.Join(root, "subdir"), 0755); err != nil {
			t.Fatalf("creating subdir: %v", err)
		}

		archives, err := store.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(archives) != 1 || archives[0].Name != "sheet-1.bak" {
			t.Errorf("List() = %+v, want only sheet-1.bak", archives)
		}
		if archives[0].Size != 3 {
			t.Errorf("archive size = %d, want 3", archives[0].Size)
		}
	})

	t.Run("get of missing archive fails", func(t *testing.T) {
		t.Parallel()
		store, _ := newStore(t)

		var out bytes.Buffer
		if err := store.Get("nope.bak", &out); err == nil {
			t.Fatal("Get() error = nil for missing archive, want error")
		}
	})
}
