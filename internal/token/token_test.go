package token

import (
	"testing"
	"time"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	signed, err := Generate("secret", time.Hour, "nguyen0001", "Nguyen Van A", 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := Parse("secret", signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "nguyen0001" {
		t.Errorf("expected subject nguyen0001, got %s", claims.Subject)
	}
	if claims.FullName != "Nguyen Van A" {
		t.Errorf("expected full name claim, got %s", claims.FullName)
	}
	if claims.Role != 0 {
		t.Errorf("expected role 0, got %d", claims.Role)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	signed, err := Generate("secret", time.Hour, "nguyen0001", "Nguyen Van A", 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := Parse("other-secret", signed); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParse_Expired(t *testing.T) {
	signed, err := Generate("secret", -time.Minute, "nguyen0001", "Nguyen Van A", 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := Parse("secret", signed); err == nil {
		t.Error("expected error for expired token")
	}
}
