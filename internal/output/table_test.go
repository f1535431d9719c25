package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxLen   int
		expected string
	}{
		{name: "shorter than max", s: "hello", maxLen: 10, expected: "hello"},
		{name: "equal to max", s: "hello", maxLen: 5, expected: "hello"},
		{name: "longer than max", s: "hello world", maxLen: 8, expected: "hello..."},
		{name: "maxLen less than 3", s: "hello", maxLen: 2, expected: "he"},
		{name: "maxLen exactly 3", s: "hello", maxLen: 3, expected: "..."},
		{name: "empty string", s: "", maxLen: 5, expected: ""},
		{name: "maxLen zero means unlimited", s: "hello", maxLen: 0, expected: "hello"},
		{name: "multibyte within max", s: "héllo", maxLen: 5, expected: "héllo"},
		{name: "multibyte longer than max", s: "日本語のキー", maxLen: 5, expected: "日本..."},
		{name: "multibyte maxLen less than 3", s: "日本語", maxLen: 2, expected: "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateString(tt.s, tt.maxLen))
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	cols := []Column{{Name: "Key", Key: "Key"}, {Name: "Value", Key: "Value", Width: 6}}
	rows := []map[string]string{
		{"Key": "default_output", "Value": "json"},
		{"Key": "env_vars.gemini", "Value": "GOOGLE_API_KEY"},
	}

	RenderTable(&buf, cols, rows)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Key")
	assert.Contains(t, lines[0], "Value")
	assert.Contains(t, lines[2], "GOO...")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, []Column{{Name: "Key", Key: "Key"}}, nil)
	assert.Empty(t, buf.String())
}
