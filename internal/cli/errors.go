package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/semmy-space/llmkeys/internal/keys"
	"github.com/semmy-space/llmkeys/internal/output"
)

// keysError maps keys package failures to exit codes and hints
func keysError(err error) error {
	var (
		noKey    *keys.NoKeyFoundError
		corrupt  *keys.CorruptStoreError
		writeErr *keys.WriteError
	)

	switch {
	case errors.As(err, &noKey):
		return output.NewCLIError(output.ExitNotFound, err.Error()).
			WithHint(fmt.Sprintf("Run: llm keys set %s, or export %s", noKey.Provider, noKey.EnvVar)).
			Wrap(err)

	case errors.As(err, &corrupt):
		return output.NewCLIError(output.ExitConfigError, err.Error()).
			WithHint(fmt.Sprintf("Fix %s by hand; it is not rewritten while it cannot be parsed", corrupt.Path)).
			Wrap(err)

	case errors.As(err, &writeErr):
		code := output.ExitGeneral
		if errors.Is(err, fs.ErrPermission) {
			code = output.ExitForbidden
		}
		return output.NewCLIError(code, err.Error()).
			WithHint(fmt.Sprintf("Check permissions on %s or set LLM_USER_PATH", writeErr.Path)).
			Wrap(err)

	case errors.Is(err, keys.ErrReservedName):
		return output.NewCLIError(output.ExitUsage, err.Error()).Wrap(err)

	default:
		return output.NewCLIError(output.ExitGeneral, err.Error()).Wrap(err)
	}
}
