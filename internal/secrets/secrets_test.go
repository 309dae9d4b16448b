package secrets

import (
	"errors"
	"testing"
)

func TestSealOpenRoundtrip(t *testing.T) {
	box, err := NewBox("a-long-enough-passphrase")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	plaintext := []byte(`{"paystack_secret_key":"sk_test_abc"}`)
	token, err := box.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	opened, err := box.Open(token)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if string(opened) != string(plaintext) {
		t.Fatalf("roundtrip mismatch: got %q", opened)
	}
}

func TestSealProducesDistinctTokens(t *testing.T) {
	box, err := NewBox("a-long-enough-passphrase")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	first, err := box.Seal([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	second, err := box.Seal([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens for repeated plaintext")
	}
}

func TestOpenRejectsTamperedToken(t *testing.T) {
	box, err := NewBox("a-long-enough-passphrase")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	token, err := box.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	tampered := []byte(token)
	tampered[len(tampered)-5] ^= 'x'
	if _, err := box.Open(string(tampered)); !errors.Is(err, ErrInvalidCiphertext) {
		t.Fatalf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	box, err := NewBox("a-long-enough-passphrase")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	for _, token := range []string{"", "not base64 !!!", "c2hvcnQ="} {
		if _, err := box.Open(token); !errors.Is(err, ErrInvalidCiphertext) {
			t.Fatalf("expected ErrInvalidCiphertext for %q, got %v", token, err)
		}
	}
}

func TestOpenRejectsWrongKey(t *testing.T) {
	sealer, err := NewBox("passphrase-one")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	opener, err := NewBox("passphrase-two")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	token, err := sealer.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := opener.Open(token); !errors.Is(err, ErrInvalidCiphertext) {
		t.Fatalf("expected ErrInvalidCiphertext with wrong key, got %v", err)
	}
}

func TestNewBoxRejectsEmptyPassphrase(t *testing.T) {
	if _, err := NewBox(""); err == nil {
		t.Fatal("expected error for empty passphrase")
	}
}
