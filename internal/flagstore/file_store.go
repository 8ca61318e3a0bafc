package flagstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// FileStore keeps flags in a small JSON file on local disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore backed by path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) read() (map[string]bool, error) {
	flags := make(map[string]bool)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return flags, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read flag file %s", s.path)
	}
	if len(data) == 0 {
		return flags, nil
	}
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil, pkgerrors.Wrapf(err, "decode flag file %s", s.path)
	}
	return flags, nil
}

// write replaces the file atomically via rename.
func (s *FileStore) write(flags map[string]bool) error {
	data, err := json.Marshal(flags)
	if err != nil {
		return pkgerrors.Wrap(err, "encode flags")
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".flags-*")
	if err != nil {
		return pkgerrors.Wrap(err, "create temp flag file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return pkgerrors.Wrap(err, "write temp flag file")
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrap(err, "close temp flag file")
	}
	return pkgerrors.Wrap(os.Rename(tmp.Name(), s.path), "replace flag file")
}

// Set raises key and persists the file.
func (s *FileStore) Set(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, err := s.read()
	if err != nil {
		return err
	}
	flags[key] = true
	return s.write(flags)
}

// Consume reports whether key was set and clears it on disk.
func (s *FileStore) Consume(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, err := s.read()
	if err != nil {
		return false, err
	}
	set, ok := flags[key]
	if !ok {
		return false, nil
	}
	delete(flags, key)
	if err := s.write(flags); err != nil {
		return false, err
	}
	return set, nil
}
