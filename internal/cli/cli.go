package cli

import (
	"fmt"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"
	"go.uber.org/zap"

	"github.com/semmy-space/llmkeys/internal/config"
	"github.com/semmy-space/llmkeys/internal/keys"
	"github.com/semmy-space/llmkeys/internal/logging"
	"github.com/semmy-space/llmkeys/internal/output"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure
type CLI struct {
	Globals

	Keys               KeysCmd                      `cmd:"" help:"Manage stored API keys for different models"`
	Config             ConfigCmd                    `cmd:"" help:"Configuration commands"`
	Schema             SchemaCmd                    `cmd:"" help:"Print the command tree as JSON"`
	Version            VersionCmd                   `cmd:"" help:"Show version information"`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// ConfigLoader loads the user config on first use, so commands that never
// read it keep working when config.json5 is broken.
type ConfigLoader struct {
	path string

	once sync.Once
	cfg  *config.Config
	err  error
}

// NewConfigLoader creates a ConfigLoader for the config file at path
func NewConfigLoader(path string) *ConfigLoader {
	return &ConfigLoader{path: path}
}

// Load returns the config, reading the file on the first call only
func (l *ConfigLoader) Load() (*config.Config, error) {
	l.once.Do(func() {
		cfg, err := config.Load(l.path)
		if err != nil {
			l.err = output.NewCLIError(output.ExitConfigError, err.Error()).
				WithHint(fmt.Sprintf("Fix %s or run: llm config path", l.path)).
				Wrap(err)
			return
		}
		l.cfg = cfg
	})
	return l.cfg, l.err
}

// AfterApply runs once flags are parsed and before the selected command.
// It resolves paths from the environment snapshot and binds the
// dependencies commands ask for in their Run methods.
func (c *CLI) AfterApply(ctx *kong.Context, env config.Env, streams *Streams) error {
	paths := config.NewPaths(env)
	logger := logging.New(streams.Err, c.Verbose)
	configs := NewConfigLoader(paths.ConfigPath())

	// A broken config only costs the default output mode here; commands
	// that need config report the error themselves
	defaultOutput := ""
	if cfg, err := configs.Load(); err != nil {
		logger.Debug("config not loaded", zap.Error(err))
	} else {
		defaultOutput = cfg.DefaultOutput
	}

	formatter := &FormatterProvider{
		Formatter: output.New(c.ResolvedOutput(defaultOutput, streams.Out), streams.Out, streams.Err),
	}

	ctx.Bind(paths)
	ctx.Bind(configs)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)
	ctx.Bind(keys.NewStore(paths.KeysPath()))
	ctx.Bind(logger)

	return nil
}

// NewParser builds the kong parser for cli. env and streams are bound for
// the AfterApply hook; main passes the real process values, tests pass fakes.
func NewParser(cli *CLI, env config.Env, streams *Streams, version string, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("llm"),
		kong.Description("Manage and resolve API keys for model providers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Writers(streams.Out, streams.Err),
		kong.Bind(env, streams),
		kong.Resolvers(envResolver(env)),
	}
	return kong.New(cli, append(opts, options...)...)
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context, streams *Streams) error {
	version := ctx.Model.Vars()["version"]
	_, err := fmt.Fprintf(streams.Out, "llm version %s\n", version)
	return err
}
