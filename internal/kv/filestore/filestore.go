// Package filestore keeps one namespace of a kv.Store in a single JSON
// document on disk.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/oukeidos/wordlens/internal/files"
	"github.com/oukeidos/wordlens/internal/kv"
)

const filePerms = 0600

// Store values must be valid JSON; they are embedded verbatim in the document.
type Store struct {
	mu   sync.Mutex
	path string
	doc  map[string]json.RawMessage
}

// Open loads <dir>/<namespace>.json, creating dir when needed. A missing file
// is an empty namespace.
func Open(dir, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, errors.New("filestore: namespace is empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	s := &Store{
		path: filepath.Join(dir, namespace+".json"),
		doc:  make(map[string]json.RawMessage),
	}
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("filestore: read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", s.path, err)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return slices.Clone([]byte(v)), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("filestore: value for %q is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.doc[key]
	s.doc[key] = slices.Clone(json.RawMessage(value))
	if err := s.flush(); err != nil {
		if had {
			s.doc[key] = prev
		} else {
			delete(s.doc, key)
		}
		return err
	}
	return nil
}

// SetMany applies every value and flushes the document once.
func (s *Store) SetMany(ctx context.Context, values map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for key, value := range values {
		if !json.Valid(value) {
			return fmt.Errorf("filestore: value for %q is not valid JSON", key)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := maps.Clone(s.doc)
	for key, value := range values {
		s.doc[key] = slices.Clone(json.RawMessage(value))
	}
	if err := s.flush(); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.doc[key]
	if !had {
		return nil
	}
	delete(s.doc, key)
	if err := s.flush(); err != nil {
		s.doc[key] = prev
		return err
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.doc))
	for k := range s.doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// flush must be called with mu held.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode: %w", err)
	}
	if err := files.AtomicWrite(s.path, data, filePerms); err != nil {
		return fmt.Errorf("filestore: write %s: %w", s.path, err)
	}
	return nil
}

var _ kv.Store = (*Store)(nil)
