package sim

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	tok, err := iss.Issue(42)
	if err != nil {
		t.Fatal(err)
	}
	id, err := iss.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 {
		t.Fatalf("subject: got %d", id)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tok, err := NewTokenIssuer("secret-a", time.Hour).Issue(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenIssuer("secret-b", time.Hour).Verify(tok); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	iss := NewTokenIssuer("secret", -time.Minute)
	tok, err := iss.Issue(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := iss.Verify(tok); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("Str0ngPass")
	if err != nil {
		t.Fatal(err)
	}
	if !checkPassword(hash, "Str0ngPass") {
		t.Fatalf("matching password rejected")
	}
	if checkPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
