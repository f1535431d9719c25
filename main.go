package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/llmkeys/internal/cli"
	"github.com/semmy-space/llmkeys/internal/config"
	"github.com/semmy-space/llmkeys/internal/keys"
	"github.com/semmy-space/llmkeys/internal/output"
)

var (
	version = "dev"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	env := config.OSEnv()
	streams := cli.StdStreams()
	// Used before kong binds anything, for errors and completion
	formatter := output.New("plain", streams.Out, streams.Err)

	cliInstance := &cli.CLI{}
	parser, err := cli.NewParser(cliInstance, env, streams, version)
	if err != nil {
		return output.Report(formatter, err)
	}

	// Answers shell completion requests and exits when COMP_LINE is set
	store := keys.NewStore(config.NewPaths(env).KeysPath())
	kongplete.Complete(parser, kongplete.WithPredictor("key", cli.KeyNamePredictor(store)))

	ctx, err := parser.Parse(args)
	if err != nil {
		// Hook failures arrive wrapped in a ParseError but carry their own exit code
		var cliErr *output.CLIError
		if errors.As(err, &cliErr) {
			return output.Report(formatter, cliErr)
		}

		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			formatter.PrintError(err)
			if parseErr.Context != nil {
				_ = parseErr.Context.PrintUsage(true)
			}
			return output.ExitUsage
		}
		return output.Report(formatter, err)
	}

	if err := ctx.Run(); err != nil {
		return output.Report(formatter, err)
	}
	return output.ExitOK
}
