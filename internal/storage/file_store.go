package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const stateFileName = "session.json"

// document is the on-disk layout of the state file.
type document struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// FileStore keeps all keys in a single JSON document on an afero filesystem.
type FileStore struct {
	fs      afero.Fs
	baseDir string

	mu sync.Mutex
}

// NewFileStore creates a file backed store.
// If baseDir is empty, uses ~/.surplus/
func NewFileStore(fs afero.Fs, baseDir string) (*FileStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".surplus")
	}

	if err := fs.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: failed to create state directory: %v", ErrUnavailable, err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("state store initialized")

	return &FileStore{fs: fs, baseDir: baseDir}, nil
}

// Path returns the location of the state file.
func (s *FileStore) Path() string {
	return filepath.Join(s.baseDir, stateFileName)
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}

	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *FileStore) SetMany(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for k, v := range values {
		doc.Values[k] = v
	}

	return s.save(doc)
}

func (s *FileStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	changed := false
	for _, k := range keys {
		if _, ok := doc.Values[k]; ok {
			delete(doc.Values, k)
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return s.save(doc)
}

// load reads the state file. A missing file is an empty document.
func (s *FileStore) load() (*document, error) {
	data, err := afero.ReadFile(s.fs, s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &document{Version: 1, Values: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("%w: failed to read state: %v", ErrUnavailable, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt file holds nothing we can trust, start over.
		log.Warn().Err(err).Str("path", s.Path()).Msg("discarding unreadable state file")
		return &document{Version: 1, Values: make(map[string]string)}, nil
	}

	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}

	return &doc, nil
}

// save writes the state file atomically.
func (s *FileStore) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	path := s.Path()
	tempPath := path + ".tmp"

	if err := afero.WriteFile(s.fs, tempPath, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write state: %v", ErrUnavailable, err)
	}

	if err := s.fs.Rename(tempPath, path); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("%w: failed to save state: %v", ErrUnavailable, err)
	}

	return nil
}
