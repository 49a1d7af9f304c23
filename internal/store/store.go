// Package store is the dev backend's in-memory persistence: accounts
// and posts behind one mutex. It exists for local development and for
// exercising the client against the real REST surface in tests.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"microblog-lite/internal/model"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
	ErrPostNotFound  = errors.New("post not found")
	ErrNotOwner      = errors.New("post belongs to another user")
)

type Store struct {
	mu sync.RWMutex

	accountsByUsername map[string]model.Account
	postsByID          map[string]model.Post
}

func New() *Store {
	return &Store{
		accountsByUsername: make(map[string]model.Account),
		postsByID:          make(map[string]model.Post),
	}
}

func (s *Store) CreateAccount(reg model.Registration, passwordHash string, now time.Time) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accountsByUsername[reg.Username]; ok {
		return model.Account{}, ErrUsernameTaken
	}
	for _, acc := range s.accountsByUsername {
		if acc.Email == reg.Email {
			return model.Account{}, ErrEmailTaken
		}
	}

	acc := model.Account{
		User: model.User{
			Name:     reg.Name,
			Surname:  reg.Surname,
			Email:    reg.Email,
			Username: reg.Username,
		},
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	s.accountsByUsername[reg.Username] = acc
	return acc, nil
}

func (s *Store) GetAccount(username string) (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accountsByUsername[username]
	return acc, ok
}

func (s *Store) CreatePost(title, description, author string, now time.Time) model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Author:      author,
		CreatedAt:   now,
	}
	s.postsByID[p.ID] = p
	return p
}

func (s *Store) ListPosts() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Post, 0, len(s.postsByID))
	for _, p := range s.postsByID {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (s *Store) GetPost(id string) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.postsByID[id]
	return p, ok
}

func (s *Store) UpdatePost(id, title, description, author string) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.postsByID[id]
	if !ok {
		return model.Post{}, ErrPostNotFound
	}
	if p.Author != author {
		return model.Post{}, ErrNotOwner
	}

	p.Title = title
	p.Description = description
	s.postsByID[id] = p
	return p, nil
}

func (s *Store) DeletePost(id, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.postsByID[id]
	if !ok {
		return ErrPostNotFound
	}
	if p.Author != author {
		return ErrNotOwner
	}

	delete(s.postsByID, id)
	return nil
}
