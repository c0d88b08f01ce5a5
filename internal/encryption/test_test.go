package encryption_test

import (
	"bytes"
	"testing"

	"shelf/internal/encryption"
)

func TestTestEncryptor(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		enc := encryption.NewTestEncryptor()

		plaintext := []byte("payload")
		var sealed bytes.Buffer
		if err := enc.Encrypt(bytes.NewReader(plaintext), &sealed); err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}
		if bytes.Equal(sealed.Bytes(), plaintext) {
			t.Error("encrypted output equals plaintext")
		}

		ctx, err := enc.Unlock("anything")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		var opened bytes.Buffer
		if err := ctx.Decrypt(bytes.NewReader(sealed.Bytes()), &opened); err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if !bytes.Equal(opened.Bytes(), plaintext) {
			t.Errorf("Decrypt() = %q, want %q", opened.Bytes(), plaintext)
		}
	})

	t.Run("decrypt rejects data without the header", func(t *testing.T) {
		t.Parallel()
		ctx := &encryption.TestDecryptionContext{}

		var opened bytes.Buffer
		if err := ctx.Decrypt(bytes.NewReader([]byte("plain data, no header")), &opened); err == nil {
			t.Fatal("Decrypt() error = nil for unheadered data, want error")
		}
	})
}
