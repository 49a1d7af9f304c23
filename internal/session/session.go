// Package session holds the one piece of persisted client state: the
// session token, the Go stand-in for the browser's token cookie.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type persistedToken struct {
	Version int    `json:"version"`
	Token   string `json:"token"`
	SavedAt int64  `json:"savedAt"`
}

// File keeps the token in memory and mirrors it to disk when a path is
// configured. An empty path means the session lives only as long as the
// process, like a session cookie.
type File struct {
	mu    sync.Mutex
	path  string
	token string
}

func Open(path string) (*File, error) {
	f := &File{path: path}
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return f, nil
	}

	var stored persistedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	if stored.Version != 1 {
		return nil, errors.New("unsupported session file version")
	}

	f.token = stored.Token
	return f, nil
}

func (f *File) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *File) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = token
	if f.path == "" {
		return nil
	}

	data, err := json.Marshal(persistedToken{
		Version: 1,
		Token:   token,
		SavedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Clear drops the token locally and removes the file. Used on logout
// regardless of what the backend answered.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = ""
	if f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
