package service

import "testing"

func TestEncodePassword_SaltedButVerifiable(t *testing.T) {
	first, err := EncodePassword("secret")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := EncodePassword("secret")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if first == second {
		t.Fatalf("two encodings of the same plaintext must differ (salt)")
	}
	if !VerifyPassword(first, "secret") || !VerifyPassword(second, "secret") {
		t.Fatalf("both hashes must verify against the original plaintext")
	}
	if VerifyPassword(first, "wrong") {
		t.Fatalf("hash verified a wrong plaintext")
	}
}

func TestProcessPassword_EmptyKeepsExistingHash(t *testing.T) {
	hash, err := ProcessPassword("H1", "")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if hash != "H1" {
		t.Fatalf("expected existing hash unchanged, got %q", hash)
	}
}

func TestProcessPassword_SuppliedReplacesHash(t *testing.T) {
	hash, err := ProcessPassword("H1", "newpw")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if hash == "H1" {
		t.Fatalf("expected a fresh hash")
	}
	if !VerifyPassword(hash, "newpw") {
		t.Fatalf("fresh hash must verify the new plaintext")
	}
}
