package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/semmy-space/llmkeys/internal/config"
	"github.com/semmy-space/llmkeys/internal/output"
)

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g., default_output, env_vars.gemini)"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(configs *ConfigLoader, streams *Streams) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return output.NewCLIError(output.ExitNotFound, fmt.Sprintf("Unknown config key: %s", cmd.Key))
	}

	fmt.Fprintln(streams.Out, value)
	return nil
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(configs *ConfigLoader, streams *Streams) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	if _, err := cfg.Get(cmd.Key); err != nil {
		return output.NewCLIError(output.ExitUsage, fmt.Sprintf("Unknown config key: %s", cmd.Key))
	}

	if cmd.Key == "default_output" && !slices.Contains(config.OutputModes, cmd.Value) {
		return output.NewCLIError(output.ExitUsage,
			fmt.Sprintf("Invalid output format: %s. Valid formats: %s", cmd.Value, strings.Join(config.OutputModes, ", ")))
	}

	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return output.NewCLIError(output.ExitGeneral, fmt.Sprintf("Failed to set config: %v", err)).Wrap(err)
	}

	fmt.Fprintf(streams.Err, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(configs *ConfigLoader, streams *Streams) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	if _, err := cfg.Get(cmd.Key); err != nil {
		return output.NewCLIError(output.ExitUsage, fmt.Sprintf("Unknown config key: %s", cmd.Key))
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return output.NewCLIError(output.ExitGeneral, fmt.Sprintf("Failed to unset config: %v", err)).Wrap(err)
	}

	fmt.Fprintf(streams.Err, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(configs *ConfigLoader, fp *FormatterProvider) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value"},
	}

	return fp.Formatter.PrintList(cfg.Items(), cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(paths config.Paths, streams *Streams) error {
	path := paths.ConfigPath()

	fmt.Fprintln(streams.Out, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(streams.Err, "(file does not exist yet - will be created on first write)\n")
	} else {
		fmt.Fprintf(streams.Err, "(file exists)\n")
	}

	return nil
}
