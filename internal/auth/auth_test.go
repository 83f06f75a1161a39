package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("CSE@123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "CSE@123" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "CSE@123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("cse", "department", "CSE", "rollcall", "test-key", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Error("expiry must be in the future")
	}

	claims, err := Parse(token, "test-key", "rollcall")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "cse" || claims.Role != "department" || claims.Department != "CSE" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	token, _, err := Issue("admin", "admin", "", "rollcall", "test-key", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Parse(token, "other-key", "rollcall"); err == nil {
		t.Error("wrong signing key accepted")
	}
	if _, err := Parse(token, "test-key", "someone-else"); err == nil {
		t.Error("issuer mismatch accepted")
	}
	if _, err := Parse("not-a-token", "test-key", "rollcall"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, _, err := Issue("admin", "admin", "", "rollcall", "test-key", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(token, "test-key", "rollcall"); err == nil {
		t.Error("expired token accepted")
	}
}
