package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppName is the directory name used under the XDG config home.
	// Matches the application directory of the original llm tool on Linux.
	AppName = "io.datasette.llm"

	// UserPathEnvVar replaces the default user directory when set.
	UserPathEnvVar = "LLM_USER_PATH"

	// KeysFileName is the name of the credential file inside the user directory.
	KeysFileName = "keys.json" // #nosec G101 -- file name, not a credential

	// ConfigFileName is the name of the user config file.
	ConfigFileName = "config.json5"
)

// Paths locates the files owned by the CLI.
type Paths struct {
	dir string
}

// NewPaths resolves the user directory from env.
// A non-empty LLM_USER_PATH is used verbatim; nothing is created or checked.
func NewPaths(env Env) Paths {
	if dir := env.Get(UserPathEnvVar); dir != "" {
		return Paths{dir: dir}
	}
	return Paths{dir: DefaultDir()}
}

// DefaultDir returns the user directory used when no override is set
// Typically ~/.config/io.datasette.llm on Linux
func DefaultDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Dir returns the resolved user directory
func (p Paths) Dir() string {
	return p.dir
}

// KeysPath returns the full path to keys.json
func (p Paths) KeysPath() string {
	return filepath.Join(p.dir, KeysFileName)
}

// ConfigPath returns the full path to the config file
func (p Paths) ConfigPath() string {
	return filepath.Join(p.dir, ConfigFileName)
}
