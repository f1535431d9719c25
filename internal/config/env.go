package config

import (
	"os"
	"strings"
)

// Env is a read-only snapshot of process environment variables.
// It is captured once at startup and passed to whatever needs it, so
// tests can supply their own values instead of mutating the process.
type Env struct {
	vars map[string]string
}

// NewEnv builds an Env from a literal map. The map is copied.
func NewEnv(vars map[string]string) Env {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return Env{vars: copied}
}

// OSEnv snapshots the current process environment.
func OSEnv() Env {
	environ := os.Environ()
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[name] = value
	}
	return Env{vars: vars}
}

// Lookup returns the value of name and whether it was set.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Get returns the value of name, or "" if unset.
func (e Env) Get(name string) string {
	return e.vars[name]
}
