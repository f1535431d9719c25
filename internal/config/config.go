package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// envVarsPrefix addresses entries of Config.EnvVars in Get/Set/Unset,
// e.g. "env_vars.gemini".
const envVarsPrefix = "env_vars."

// OutputModes lists accepted values for default_output
var OutputModes = []string{"json", "plain", "rich", "auto"}

// Config holds the CLI configuration
type Config struct {
	DefaultOutput string `json:"default_output,omitempty"`

	// EnvVars overrides the environment variable consulted for a provider
	// when no stored key exists (provider -> variable name).
	EnvVars map[string]string `json:"env_vars,omitempty"`

	path string
}

// Item is one key/value pair of the config, as shown by config list
type Item struct {
	Key   string
	Value string
}

// Load reads config from path, returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{path: path}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Config{path: path}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to its file
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// JSON is valid JSON5, so plain JSON is written back
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// EnvVarFor returns the configured environment variable override for provider
func (c *Config) EnvVarFor(provider string) (string, bool) {
	name, ok := c.EnvVars[provider]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	if provider, ok := strings.CutPrefix(key, envVarsPrefix); ok && provider != "" {
		return c.EnvVars[provider], nil
	}

	field, ok := c.stringField(key)
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return field.String(), nil
}

// Set sets a config value by key name and saves
func (c *Config) Set(key, value string) error {
	if provider, ok := strings.CutPrefix(key, envVarsPrefix); ok && provider != "" {
		if c.EnvVars == nil {
			c.EnvVars = make(map[string]string)
		}
		c.EnvVars[provider] = value
		return c.Save()
	}

	field, ok := c.stringField(key)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	field.SetString(value)
	return c.Save()
}

// Unset sets a config value to its zero value and saves
func (c *Config) Unset(key string) error {
	if provider, ok := strings.CutPrefix(key, envVarsPrefix); ok && provider != "" {
		delete(c.EnvVars, provider)
		return c.Save()
	}

	field, ok := c.stringField(key)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	field.SetString("")
	return c.Save()
}

// Items lists every string setting followed by env_vars entries in name order
func (c *Config) Items() []Item {
	var items []Item

	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type.Kind() != reflect.String {
			continue
		}
		items = append(items, Item{Key: jsonName(field), Value: v.Field(i).String()})
	}

	providers := make([]string, 0, len(c.EnvVars))
	for p := range c.EnvVars {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	for _, p := range providers {
		items = append(items, Item{Key: envVarsPrefix + p, Value: c.EnvVars[p]})
	}

	return items
}

// stringField finds the exported string field whose json tag matches key
func (c *Config) stringField(key string) (reflect.Value, bool) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type.Kind() != reflect.String {
			continue
		}
		if jsonName(field) == key {
			return v.Field(i), true
		}
	}

	return reflect.Value{}, false
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	return name
}
