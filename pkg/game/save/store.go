package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the current run. Load returns a nil state, not an error, when
// there is no run to continue.
type Store interface {
	Load() (*State, error)
	Save(s *State) error
	Clear() error
}

// MemoryStore keeps the run in memory. Useful for tests and headless runs.
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryStore returns a store holding initial, which may be nil.
func NewMemoryStore(initial *State) *MemoryStore {
	m := &MemoryStore{}
	if initial != nil {
		cp := *initial
		m.state = &cp
	}
	return m
}

func (m *MemoryStore) Load() (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	cp := *m.state
	return &cp, nil
}

func (m *MemoryStore) Save(s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		m.state = nil
		return nil
	}
	cp := *s
	m.state = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.Save(nil)
}

// FileStore keeps the run in a JSON file. A cleared run is written as null so
// the file always holds a valid document.
type FileStore struct {
	Path string

	mu sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (*State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse save file: %w", err)
	}
	return &s, nil
}

func (f *FileStore) Save(s *State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}

	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create save directory: %w", err)
		}
	}

	tmpPath := f.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp save: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	return f.Save(nil)
}
