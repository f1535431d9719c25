package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/semmy-space/llmkeys/internal/config"
	"github.com/semmy-space/llmkeys/internal/keys"
	"github.com/semmy-space/llmkeys/internal/output"
)

// KeysCmd holds key management subcommands
type KeysCmd struct {
	List    KeysListCmd    `cmd:"" default:"1" help:"List names of all stored keys"`
	Path    KeysPathCmd    `cmd:"" help:"Output the path to the keys.json file"`
	Get     KeysGetCmd     `cmd:"" help:"Print the value of a stored key"`
	Set     KeysSetCmd     `cmd:"" help:"Save a key in the keys.json file"`
	Resolve KeysResolveCmd `cmd:"" help:"Show which key would be used for a provider"`
}

// KeysListCmd implements keys list (also plain "keys")
type KeysListCmd struct{}

// Run executes the list command
func (cmd *KeysListCmd) Run(store *keys.Store, fp *FormatterProvider, streams *Streams) error {
	names, err := store.List()
	if err != nil {
		return keysError(err)
	}

	if len(names) == 0 {
		fmt.Fprintf(streams.Err, "No keys found\n")
	}
	return fp.Formatter.PrintValues(names)
}

// KeysPathCmd implements keys path
type KeysPathCmd struct{}

// Run executes the path command
func (cmd *KeysPathCmd) Run(store *keys.Store, streams *Streams) error {
	path := store.Path()
	fmt.Fprintln(streams.Out, path)

	// Existence hint goes to stderr so stdout stays scriptable
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(streams.Err, "(file does not exist yet - will be created on first write)\n")
	}

	return nil
}

// KeysGetCmd implements keys get
type KeysGetCmd struct {
	Name string `arg:"" help:"Key name" predictor:"key"`
}

// Run executes the get command
func (cmd *KeysGetCmd) Run(store *keys.Store, streams *Streams) error {
	value, ok, err := store.Get(cmd.Name)
	if err != nil {
		return keysError(err)
	}
	if !ok {
		return output.NewCLIError(output.ExitNotFound, fmt.Sprintf("No key found with name '%s'", cmd.Name)).
			WithHint(fmt.Sprintf("Run: llm keys set %s", cmd.Name))
	}

	fmt.Fprintln(streams.Out, value)
	return nil
}

// KeysSetCmd implements keys set
type KeysSetCmd struct {
	Name  string  `arg:"" help:"Key name" predictor:"key"`
	Value *string `help:"Value to set (prompted for when omitted)"`
}

// Run executes the set command
func (cmd *KeysSetCmd) Run(store *keys.Store, streams *Streams, globals *Globals, logger *zap.Logger) error {
	value, err := cmd.readValue(streams, globals.NoInput)
	if err != nil {
		return err
	}

	if err := store.Set(cmd.Name, value); err != nil {
		return keysError(err)
	}

	logger.Debug("stored key", zap.String("name", cmd.Name), zap.String("path", store.Path()))
	return nil
}

// readValue takes the secret from --value, else prompts. On a terminal the
// input is not echoed; otherwise one line is read from stdin.
func (cmd *KeysSetCmd) readValue(streams *Streams, noInput bool) (string, error) {
	if cmd.Value != nil {
		return *cmd.Value, nil
	}

	if noInput {
		return "", output.NewCLIError(output.ExitUsage, "No key value given and prompting is disabled").
			WithHint(fmt.Sprintf("Run: llm keys set %s --value ...", cmd.Name))
	}

	fmt.Fprint(streams.Err, "Enter key: ")

	if f, ok := streams.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(streams.Err)
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(streams.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	if err == io.EOF && line == "" {
		return "", output.NewCLIError(output.ExitUsage, "No key value provided on stdin")
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// KeysResolveCmd implements keys resolve
type KeysResolveCmd struct {
	Provider string `arg:"" help:"Provider name, e.g. openai"`
	Key      string `help:"Stored key name, or a literal key, to use instead" predictor:"key"`
	Show     bool   `help:"Print the full key instead of a masked one"`
}

// resolvedKey is the printed result of keys resolve
type resolvedKey struct {
	Provider string `json:"provider"`
	Tier     string `json:"tier"`
	Source   string `json:"source,omitempty"`
	Key      string `json:"key"`
}

// Run executes the resolve command
func (cmd *KeysResolveCmd) Run(store *keys.Store, configs *ConfigLoader, env config.Env, logger *zap.Logger, fp *FormatterProvider) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	resolver := keys.NewResolver(store, env.Lookup)
	resolver.EnvVars = cfg.EnvVars
	resolver.Logger = logger

	res, err := resolver.Resolve(cmd.Provider, cmd.Key)
	if err != nil {
		return keysError(err)
	}

	key := res.Key
	if !cmd.Show {
		key = maskSecret(key)
	}

	return fp.Formatter.Print(resolvedKey{
		Provider: cmd.Provider,
		Tier:     res.Tier.String(),
		Source:   res.Source,
		Key:      key,
	})
}

// maskSecret masks sensitive values, showing only last 4 characters
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return "****"
	}
	return "****" + string(runes[len(runes)-4:])
}
