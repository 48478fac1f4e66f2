// internal/auth/password_test.go
package auth_test

import (
	"testing"

	"github.com/H0guera/task-tracker/internal/auth"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the password")
	}
	if !auth.VerifyPassword("s3cret", hash) {
		t.Error("correct password must verify")
	}
	if auth.VerifyPassword("wrong", hash) {
		t.Error("wrong password must not verify")
	}
}

func TestHash_UniqueSalt(t *testing.T) {
	h1, err := auth.HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := auth.HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	if auth.VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Error("malformed hash must not verify")
	}
}
