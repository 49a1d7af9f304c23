package state

import (
	"testing"

	"microblog-lite/internal/model"
)

func TestSessionStore_LoginLifecycle(t *testing.T) {
	s := NewSessionStore(false)
	if s.Authenticated() {
		t.Fatalf("expected anonymous start")
	}

	s.Begin()
	if s.Status() != StatusLoading {
		t.Fatalf("expected loading")
	}

	s.LoginSucceeded(model.User{Username: "alice", Name: "Alice"})
	if !s.Authenticated() {
		t.Fatalf("expected authenticated")
	}
	if s.Username() != "alice" {
		t.Fatalf("expected alice, got %q", s.Username())
	}
}

func TestSessionStore_FailureClearsUser(t *testing.T) {
	s := NewSessionStore(false)
	s.Begin()
	s.LoginSucceeded(model.User{Username: "alice"})

	s.Begin()
	s.Failed("Invalid username or password")

	if s.Authenticated() {
		t.Fatalf("expected authenticated=false after failure")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("expected user cleared")
	}
	if s.Error() != "Invalid username or password" {
		t.Fatalf("unexpected error %q", s.Error())
	}
}

func TestSessionStore_RegisterDoesNotAuthenticate(t *testing.T) {
	s := NewSessionStore(false)
	s.Begin()
	s.RegisterSucceeded(model.User{Username: "bob"})

	if s.Authenticated() {
		t.Fatalf("registration must not authenticate")
	}
	if s.Username() != "bob" {
		t.Fatalf("expected profile recorded")
	}
}

func TestSessionStore_Logout(t *testing.T) {
	s := NewSessionStore(true)
	s.LoginSucceeded(model.User{Username: "alice"})

	s.LoggedOut()
	if s.Authenticated() {
		t.Fatalf("expected anonymous after logout")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("expected user cleared after logout")
	}
}

func TestSessionStore_SeededFromCookie(t *testing.T) {
	s := NewSessionStore(true)
	if !s.Authenticated() {
		t.Fatalf("expected seeded authenticated flag")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("seeding sets only the flag, not the profile")
	}
}
