package account

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const DefaultUsersFile = "user_data.json"

// FileStore keeps every user in one JSON object keyed by email. Reads and
// writes go through a mutex; writes replace the file atomically.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultUsersFile
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Update loads the user map, applies fn and writes the result back if fn
// returns nil. The whole cycle holds the store lock.
func (s *FileStore) Update(fn func(users map[string]*User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(users); err != nil {
		return err
	}
	return s.write(users)
}

// View loads the user map for reading.
func (s *FileStore) View(fn func(users map[string]*User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	return fn(users)
}

func (s *FileStore) load() (map[string]*User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*User{}, nil
		}
		return nil, fmt.Errorf("read users: %w", err)
	}
	users := map[string]*User{}
	if len(data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users: %w", err)
	}
	for email, u := range users {
		if u == nil {
			delete(users, email)
			continue
		}
		if u.Projects == nil {
			u.Projects = []Project{}
		}
	}
	return users, nil
}

func (s *FileStore) write(users map[string]*User) error {
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace users: %w", err)
	}
	return nil
}
