package keys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockTimeout bounds how long Set waits for another process holding the lock
const lockTimeout = 10 * time.Second

// Store reads and writes keys.json. Every operation re-reads the file; nothing
// is cached between calls.
type Store struct {
	path string
}

// NewStore creates a Store for the keys file at path. The file and its
// directory are created on the first Set.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the keys file location without touching the filesystem
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the keys file.
// A missing file is an empty mapping without the note entry.
func (s *Store) Load() (*File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewFile(), nil
		}
		return nil, fmt.Errorf("failed to read keys file: %w", err)
	}

	f, err := ParseFile(data)
	if err != nil {
		return nil, &CorruptStoreError{Path: s.path, Err: err}
	}
	return f, nil
}

// Get returns the secret stored under name. A missing name is reported
// through ok, not as an error.
func (s *Store) Get(name string) (value string, ok bool, err error) {
	f, err := s.Load()
	if err != nil {
		return "", false, err
	}
	value, ok = f.Get(name)
	return value, ok, nil
}

// List returns stored provider names in file order, excluding the note entry
func (s *Store) List() ([]string, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}
	return f.Names(), nil
}

// Set stores value under name and rewrites the whole file.
// A corrupt existing file is reported and left untouched.
func (s *Store) Set(name, value string) error {
	if name == NoteKey {
		return fmt.Errorf("cannot store a key named %q: %w", name, ErrReservedName)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	unlock, err := s.lock()
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	defer unlock()

	f, err := s.Load()
	if err != nil {
		return err
	}

	f.EnsureNote()
	if err := f.Set(name, value); err != nil {
		return err
	}

	data, err := f.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode keys file: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}

// lock takes an exclusive lock on <path>.lock so concurrent writers from
// separate processes do not interleave their read-modify-write.
func (s *Store) lock() (func(), error) {
	lock := flock.New(s.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire lock: timeout")
	}

	return func() { _ = lock.Unlock() }, nil
}

// writeFileAtomic writes data to a temp file in the same directory and renames
// it over path, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	// no-op once the rename succeeded
	defer func() { _ = os.Remove(tmpName) }()
	defer func() { _ = tmp.Close() }()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
