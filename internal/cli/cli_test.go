package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/llmkeys/internal/config"
	"github.com/semmy-space/llmkeys/internal/output"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// exitCode returns the CLIError exit code of err, ExitOK for nil
func (r result) exitCode() int {
	if r.err == nil {
		return output.ExitOK
	}
	var cliErr *output.CLIError
	if errors.As(r.err, &cliErr) {
		return cliErr.ExitCode
	}
	return output.ExitGeneral
}

// runCLI parses and runs args against an isolated environment
func runCLI(t *testing.T, env map[string]string, stdin string, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	streams := &Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut}

	var c CLI
	parser, err := NewParser(&c, config.NewEnv(env), streams, "1.2.3",
		kong.Exit(func(code int) { t.Fatalf("unexpected exit with code %d", code) }),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err == nil {
		err = ctx.Run()
	}

	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// userEnv points LLM_USER_PATH at a fresh temp directory
func userEnv(t *testing.T, extra map[string]string) (map[string]string, string) {
	t.Helper()
	dir := t.TempDir() + "/user/keys"
	env := map[string]string{config.UserPathEnvVar: dir}
	for k, v := range extra {
		env[k] = v
	}
	return env, dir
}
