package state

import (
	"sync"

	"microblog-lite/internal/model"
)

// SessionStore holds the authenticated user and the derived auth flag.
// The flag is seeded at startup from the presence of a stored session
// token, then kept in sync with login/logout outcomes.
type SessionStore struct {
	mu            sync.RWMutex
	user          *model.User
	authenticated bool
	status        Status
	err           string
}

func NewSessionStore(authenticated bool) *SessionStore {
	return &SessionStore{
		authenticated: authenticated,
		status:        StatusIdle,
	}
}

func (s *SessionStore) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.err = ""
}

func (s *SessionStore) LoginSucceeded(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.authenticated = true
	s.status = StatusSucceeded
	s.err = ""
}

// RegisterSucceeded records the new profile without authenticating;
// the user still logs in afterwards.
func (s *SessionStore) RegisterSucceeded(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.status = StatusSucceeded
	s.err = ""
}

// Failed records a login/register failure: any partially set user is
// cleared and the auth flag stays down.
func (s *SessionStore) Failed(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.status = StatusFailed
	s.err = msg
}

func (s *SessionStore) LoggedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.status = StatusSucceeded
	s.err = ""
}

// SetUser refreshes the profile from /app/getUser without touching the
// auth flag.
func (s *SessionStore) SetUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.status = StatusSucceeded
}

func (s *SessionStore) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *SessionStore) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

func (s *SessionStore) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *SessionStore) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *SessionStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
