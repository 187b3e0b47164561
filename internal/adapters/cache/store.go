// Package cache implements the on-disk compile cache: a JSON manifest of
// compile records plus a content-addressed object directory holding the
// compiled bytes.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CompileCache = (*Store)(nil)

// Store implements ports.CompileCache using a flat JSON file and a
// directory of objects keyed by output hash.
type Store struct {
	manifestPath string
	objectsDir   string

	mu    sync.RWMutex
	cache map[string]domain.CompileInfo
}

// NewStore creates a compile cache rooted at the given workspace
// directory, conventionally .baler.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		manifestPath: filepath.Join(filepath.Clean(dir), domain.CacheFileName),
		objectsDir:   filepath.Join(filepath.Clean(dir), domain.ObjectsDirName),
		cache:        make(map[string]domain.CompileInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read compile cache")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal compile cache")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal compile cache")
	}

	if err := os.MkdirAll(filepath.Dir(s.manifestPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create compile cache directory")
	}

	if err := os.WriteFile(s.manifestPath, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write compile cache")
	}

	return nil
}

// Get retrieves the compile info for a given source path.
func (s *Store) Get(source string) (*domain.CompileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[source]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the compile info and persists the manifest.
func (s *Store) Put(info domain.CompileInfo) error {
	s.mu.Lock()
	s.cache[info.Source] = info
	s.mu.Unlock()

	return s.save()
}

// Object retrieves the compiled bytes stored under an output hash.
func (s *Store) Object(outputHash string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.objectsDir, outputHash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read cached object")
	}
	return data, nil
}

// PutObject stores compiled bytes under their output hash. An object
// already present is left alone: content addressing makes rewrites
// pointless.
func (s *Store) PutObject(outputHash string, data []byte) error {
	if err := os.MkdirAll(s.objectsDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create object directory")
	}

	path := filepath.Join(s.objectsDir, outputHash)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write cached object")
	}
	return nil
}
