package library_test

import (
	"bytes"
	"testing"

	"shelf/internal/archive"
	"shelf/internal/encryption"
	"shelf/internal/library"
	"shelf/internal/model"
	"shelf/internal/testutil"
)

func TestExport(t *testing.T) {
	t.Run("round trips through a restore", func(t *testing.T) {
		t.Parallel()
		store := archive.NewMemoryStore()
		db := testutil.NewTestDatabase(t)
		service := library.NewService(db, store, encryption.NewTestEncryptor(),
			library.NopNotifier{}, library.NewNopLogger(), testutil.FixedClock())

		seed := service.Restore(encodeSnapshot(t, onePieceSnapshot()))
		if seed.State != library.RestoreCompleted {
			t.Fatalf("seeding restore state = %v, want completed", seed.State)
		}

		if err := service.Export("sheet-test.bak", false); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		payload, err := service.FetchArchive("sheet-test.bak")
		if err != nil {
			t.Fatalf("FetchArchive() error = %v", err)
		}
		if !library.IsSheetBackup(payload) {
			t.Fatal("exported archive is not a plaintext sheet backup")
		}

		snapshot, err := library.DecodeSnapshot(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("DecodeSnapshot() error = %v", err)
		}
		if len(snapshot.Books) != 1 {
			t.Fatalf("exported %d books, want 1", len(snapshot.Books))
		}

		book := snapshot.Books[0]
		if book.Code != "9784088725350" || book.Title != "One Piece #1" {
			t.Errorf("exported book = %q/%q, want the imported record", book.Code, book.Title)
		}
		if book.Publisher != "Shueisha" || book.Group != "Shonen" {
			t.Errorf("exported entities = %q/%q, want denormalized names",
				book.Publisher, book.Group)
		}
		if book.Status != model.StatusRead || book.ReadAt == nil {
			t.Errorf("exported status = %v readAt = %v, want read with date",
				book.Status, book.ReadAt)
		}
		if len(snapshot.People) != 1 || snapshot.People[0] != "Eiichiro Oda" {
			t.Errorf("exported people = %v, want [Eiichiro Oda]", snapshot.People)
		}
	})

	t.Run("encrypted export is sealed", func(t *testing.T) {
		t.Parallel()
		store := archive.NewMemoryStore()
		db := testutil.NewTestDatabase(t)
		enc := encryption.NewTestEncryptor()
		service := library.NewService(db, store, enc,
			library.NopNotifier{}, library.NewNopLogger(), testutil.FixedClock())

		if err := service.Export("sheet-sealed.bak", true); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		payload, err := service.FetchArchive("sheet-sealed.bak")
		if err != nil {
			t.Fatalf("FetchArchive() error = %v", err)
		}
		if library.IsSheetBackup(payload) {
			t.Fatal("encrypted export still looks like a plaintext backup")
		}

		ctx, err := enc.Unlock("")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		var plain bytes.Buffer
		if err := ctx.Decrypt(bytes.NewReader(payload), &plain); err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if _, err := library.DecodeSnapshot(&plain); err != nil {
			t.Errorf("decrypted payload does not decode: %v", err)
		}
	})

	t.Run("lists stored archives", func(t *testing.T) {
		t.Parallel()
		store := archive.NewMemoryStore()
		db := testutil.NewTestDatabase(t)
		service := library.NewService(db, store, encryption.NewTestEncryptor(),
			library.NopNotifier{}, library.NewNopLogger(), testutil.FixedClock())

		if err := service.Export("sheet-a.bak", false); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if err := service.Export("sheet-b.bak", false); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		archives, err := service.ListArchives()
		if err != nil {
			t.Fatalf("ListArchives() error = %v", err)
		}
		if len(archives) != 2 {
			t.Errorf("ListArchives() returned %d archives, want 2", len(archives))
		}
		for _, a := range archives {
			if a.Size == 0 {
				t.Errorf("archive %s has zero size", a.Name)
			}
		}
	})
}

func TestGetStats(t *testing.T) {
	t.Parallel()
	f := newRestoreFixture(t)

	outcome := f.service.Restore(encodeSnapshot(t, onePieceSnapshot()))
	if outcome.State != library.RestoreCompleted {
		t.Fatalf("restore state = %v, want completed", outcome.State)
	}

	stats, err := f.service.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	want := library.LibraryStats{Books: 1, Read: 1, Groups: 1, Publishers: 1, People: 1}
	if *stats != want {
		t.Errorf("GetStats() = %+v, want %+v", *stats, want)
	}
}

func TestGetHistory(t *testing.T) {
	t.Parallel()
	f := newRestoreFixture(t)

	for _, op := range []string{"restore", "export"} {
		created, err := f.db.CreateRestoreOperation(op, "{}")
		if err != nil {
			t.Fatalf("CreateRestoreOperation(%s) error = %v", op, err)
		}
		if err := f.db.FinishRestoreOperation(created.ID, "success"); err != nil {
			t.Fatalf("FinishRestoreOperation(%s) error = %v", op, err)
		}
	}

	ops, err := f.service.GetHistory(10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("GetHistory() returned %d operations, want 2", len(ops))
	}
	if ops[0].ID < ops[1].ID {
		t.Errorf("operations not newest first: %d before %d", ops[0].ID, ops[1].ID)
	}

	limited, err := f.service.GetHistory(1)
	if err != nil {
		t.Fatalf("GetHistory(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("GetHistory(1) returned %d operations, want 1", len(limited))
	}
}
