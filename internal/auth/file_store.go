package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hubmesh-io/hubmesh/internal/constants"
)

// FileTokenStore persists the token under a named entry in a YAML credential
// file, so the CLI and other local processes share one credential. The file
// is re-read on every Get, so a token cleared by one process disappears for
// all of them.
type FileTokenStore struct {
	mutex sync.Mutex
	path  string
	entry string
}

// NewFileTokenStore creates a store backed by the given file path. An empty
// path falls back to ~/.meshctl/credentials.yml.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}

		path = filepath.Join(home, constants.CredentialsDirName, constants.CredentialsFileName)
	}

	return &FileTokenStore{
		path:  path,
		entry: constants.TokenEntryName,
	}, nil
}

// Path returns the credential file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// Get returns the stored token, or "" when the file or entry is missing.
func (s *FileTokenStore) Get(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", err
	}

	return entries[s.entry], nil
}

// Set writes the token to the credential file, creating it as needed.
func (s *FileTokenStore) Set(ctx context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	entries[s.entry] = token

	return s.save(entries)
}

// Clear deletes the token entry. Clearing a missing file is a no-op.
func (s *FileTokenStore) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := entries[s.entry]; !ok {
		return nil
	}

	delete(entries, s.entry)

	return s.save(entries)
}

func (s *FileTokenStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}

		return nil, fmt.Errorf("reading credential file: %w", err)
	}

	entries := make(map[string]string)

	err = yaml.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("parsing credential file: %w", err)
	}

	return entries, nil
}

func (s *FileTokenStore) save(entries map[string]string) error {
	err := os.MkdirAll(filepath.Dir(s.path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding credential file: %w", err)
	}

	err = os.WriteFile(s.path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}

	return nil
}
