package auth

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long!!")

func TestAccessTokenRoundTrip(t *testing.T) {
	raw, err := NewAccessToken("user-123", "veterinarian", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken() error: %v", err)
	}

	claims, err := ParseToken(raw, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected UserID user-123, got %s", claims.UserID)
	}
	if claims.Role != "veterinarian" {
		t.Errorf("expected role veterinarian, got %s", claims.Role)
	}
	if claims.Subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.Subject)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	raw, err := NewAccessToken("user-123", "administrator", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken() error: %v", err)
	}

	if _, err := ParseToken(raw, []byte("a-completely-different-signing-key!!")); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	raw, err := NewAccessToken("user-123", "receptionist", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error: %v", err)
	}

	if _, err := ParseToken(raw, testSecret); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}
	if len(raw) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(raw))
	}
	if hash != HashRefreshToken(raw) {
		t.Error("returned hash does not match HashRefreshToken(raw)")
	}
	if raw == hash {
		t.Error("raw token must not equal its hash")
	}

	raw2, _, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}
	if raw == raw2 {
		t.Error("two generated tokens must differ")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "s3cret-password" {
		t.Error("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret-password") {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("expected wrong password to fail")
	}
}
