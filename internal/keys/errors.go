package keys

import (
	"errors"
	"fmt"
)

// ErrReservedName is returned when a caller tries to store a key under the
// name of the note entry.
var ErrReservedName = errors.New("name is reserved")

// CorruptStoreError means keys.json exists but is not a JSON object of strings.
// It is never repaired automatically: rewriting the file would drop secrets.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("keys file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// WriteError means the keys directory or file could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write keys file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NoKeyFoundError means every resolution tier was exhausted for Provider.
// EnvVar is the exact variable that was checked last.
type NoKeyFoundError struct {
	Provider string
	EnvVar   string
}

func (e *NoKeyFoundError) Error() string {
	return fmt.Sprintf("no key found for %s - add one using 'llm keys set %s' or set the %s environment variable",
		e.Provider, e.Provider, e.EnvVar)
}
