package utils

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret-pass", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret-pass" {
		t.Fatal("hash equals the plain password")
	}
	if !VerifyPassword(hash, "secret-pass") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	hash, err := HashPassword("secret-pass", 0)
	if err != nil {
		t.Fatalf("HashPassword with zero cost: %v", err)
	}
	if !VerifyPassword(hash, "secret-pass") {
		t.Error("hash produced with clamped cost does not verify")
	}
}
