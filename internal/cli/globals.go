package cli

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/semmy-space/llmkeys/internal/config"
)

// Globals holds global flags available to all commands
type Globals struct {
	Output  string `help:"Output format (default from config, else auto) ($$LLM_OUTPUT)" default:"" enum:"json,plain,rich,auto," short:"o"`
	Verbose bool   `help:"Verbose diagnostics on stderr ($$LLM_VERBOSE)" short:"v"`
	NoInput bool   `help:"Disable interactive prompts (fail instead) ($$LLM_NO_INPUT)" name:"no-input"`
}

// globalEnvVars maps global flag names to the variables that set them
var globalEnvVars = map[string]string{
	"output":   "LLM_OUTPUT",
	"verbose":  "LLM_VERBOSE",
	"no-input": "LLM_NO_INPUT",
}

// envResolver fills unset global flags from env. Flags given on the
// command line always win; empty variables are ignored.
func envResolver(env config.Env) kong.Resolver {
	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		name, ok := globalEnvVars[flag.Name]
		if !ok {
			return nil, nil
		}
		if value := env.Get(name); value != "" {
			return value, nil
		}
		return nil, nil
	})
}

// ResolvedOutput returns the effective output mode.
// Precedence: --output flag > config default_output > auto.
// "auto" detects TTY: if out is a terminal -> rich, else -> plain.
func (g *Globals) ResolvedOutput(configured string, out io.Writer) string {
	mode := g.Output
	if mode == "" {
		mode = configured
	}
	if mode != "" && mode != "auto" {
		return mode
	}

	if isTerminal(out) {
		return "rich"
	}
	return "plain"
}

// Streams are the process standard streams, injected so commands can be
// driven from tests.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the real process streams
func StdStreams() *Streams {
	return &Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
