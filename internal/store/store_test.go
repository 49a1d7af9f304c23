package store

import (
	"errors"
	"testing"
	"time"

	"microblog-lite/internal/model"
)

func reg(username, email string) model.Registration {
	return model.Registration{
		Name:     "Alice",
		Surname:  "Smith",
		Email:    email,
		Username: username,
		Password: "pw",
	}
}

func TestStore_Accounts(t *testing.T) {
	s := New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	acc, err := s.CreateAccount(reg("alice", "alice@example.com"), "hash", now)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if acc.Username != "alice" {
		t.Fatalf("unexpected account: %+v", acc)
	}

	if _, err := s.CreateAccount(reg("alice", "other@example.com"), "hash", now); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := s.CreateAccount(reg("bob", "alice@example.com"), "hash", now); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, ok := s.GetAccount("alice")
	if !ok || got.PasswordHash != "hash" {
		t.Fatalf("expected stored account, got %+v ok=%v", got, ok)
	}
}

func TestStore_PostCRUD(t *testing.T) {
	s := New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	p1 := s.CreatePost("first", "d1", "alice", now)
	p2 := s.CreatePost("second", "d2", "alice", now.Add(time.Minute))

	list := s.ListPosts()
	if len(list) != 2 || list[0].ID != p1.ID || list[1].ID != p2.ID {
		t.Fatalf("expected creation order, got %+v", list)
	}

	updated, err := s.UpdatePost(p1.ID, "first!", "d1!", "alice")
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Title != "first!" || !updated.CreatedAt.Equal(now) {
		t.Fatalf("unexpected updated post: %+v", updated)
	}

	if err := s.DeletePost(p2.ID, "alice"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if len(s.ListPosts()) != 1 {
		t.Fatalf("expected 1 post after delete")
	}
}

func TestStore_PostOwnership(t *testing.T) {
	s := New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := s.CreatePost("t", "d", "alice", now)

	if _, err := s.UpdatePost(p.ID, "x", "y", "bob"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := s.DeletePost(p.ID, "bob"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := s.DeletePost("missing", "alice"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
