// Package cas implements Content Addressable Storage and build info storage.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Store implements ports.CacheStore using a file-per-task strategy. A
// single advisory lock file guards the whole directory against
// concurrent zr invocations writing the same entry.
type Store struct {
	dir  string
	lock *flock.Flock
}

// NewStore creates a new CacheStore backed by the directory at the given path.
func NewStore(path string) (*Store, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(cleanPath, dirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create cache store directory")
	}

	return &Store{
		dir:  cleanPath,
		lock: flock.New(filepath.Join(cleanPath, ".lock")),
	}, nil
}

// Get retrieves the cache entry for a given task name.
func (s *Store) Get(taskName string) (*domain.CacheEntry, error) {
	filename := s.getFilename(taskName)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read cache entry")
	}

	var info domain.CacheEntry
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal cache entry")
	}

	return &info, nil
}

// Put stores the cache entry, holding an exclusive advisory lock for the
// duration of the write so concurrent zr invocations do not interleave.
func (s *Store) Put(info domain.CacheEntry) error {
	if err := s.lock.Lock(); err != nil {
		return zerr.Wrap(err, "failed to acquire cache lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache entry")
	}

	filename := s.getFilename(info.TaskName)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, filePerm); err != nil {
		return zerr.Wrap(err, "failed to write cache entry")
	}

	return nil
}

func (s *Store) getFilename(taskName string) string {
	hash := sha256.Sum256([]byte(taskName))
	hexHash := hex.EncodeToString(hash[:])
	return filepath.Join(s.dir, hexHash+".json")
}
