package keys

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	// NoteKey is the reserved entry written at the top of every keys file.
	// It is not a provider name.
	NoteKey = "// Note"

	// NoteText is the fixed value of NoteKey.
	NoteText = "This file stores secret API credentials. Do not share!"
)

// Entry is one name/value pair of a keys file
type Entry struct {
	Name  string
	Value string
}

// File is the decoded content of keys.json: a string-to-string mapping that
// remembers insertion order so rewrites keep diffs small.
type File struct {
	entries []Entry
	index   map[string]int
}

// NewFile returns an empty mapping (without the note entry)
func NewFile() *File {
	return &File{index: make(map[string]int)}
}

// ParseFile decodes keys.json content. Anything but a UTF-8 JSON object of
// strings is rejected, blank content included.
func ParseFile(data []byte) (*File, error) {
	// gjson does not check encoding; re-encoding invalid bytes would alter secrets
	if !utf8.Valid(data) {
		return nil, errors.New("not valid UTF-8")
	}

	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("expected a JSON object")
	}

	f := NewFile()
	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			parseErr = fmt.Errorf("value of %q is not a string", key.String())
			return false
		}
		f.put(key.String(), value.String())
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return f, nil
}

// Lookup returns the raw value stored under name, including the note entry
func (f *File) Lookup(name string) (string, bool) {
	i, ok := f.index[name]
	if !ok {
		return "", false
	}
	return f.entries[i].Value, true
}

// Get returns the secret stored for name. The note entry is never a secret.
func (f *File) Get(name string) (string, bool) {
	if name == NoteKey {
		return "", false
	}
	return f.Lookup(name)
}

// Set stores value under name, keeping the existing position if present
func (f *File) Set(name, value string) error {
	if name == NoteKey {
		return fmt.Errorf("cannot store a key named %q: %w", name, ErrReservedName)
	}
	f.put(name, value)
	return nil
}

// EnsureNote puts the note entry first if missing and resets its text
func (f *File) EnsureNote() {
	if i, ok := f.index[NoteKey]; ok {
		f.entries[i].Value = NoteText
		return
	}

	f.entries = append([]Entry{{Name: NoteKey, Value: NoteText}}, f.entries...)
	for i, e := range f.entries {
		f.index[e.Name] = i
	}
}

// Names returns the stored provider names in file order, without the note
func (f *File) Names() []string {
	names := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		if e.Name == NoteKey {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

// Entries returns a copy of all entries in file order, note included
func (f *File) Entries() []Entry {
	return append([]Entry(nil), f.entries...)
}

// MarshalJSON encodes the mapping as a JSON object in insertion order
func (f *File) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, e.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the file content as written to disk: two-space indent and a
// trailing newline.
func (f *File) Encode() ([]byte, error) {
	compact, err := f.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (f *File) put(name, value string) {
	if i, ok := f.index[name]; ok {
		f.entries[i].Value = value
		return
	}
	f.index[name] = len(f.entries)
	f.entries = append(f.entries, Entry{Name: name, Value: value})
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
