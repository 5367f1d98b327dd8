package cli

import (
	"errors"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
)

const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInput    = 2
	ExitDatabase = 3
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, app.ErrInvalidInput):
		return ExitInput
	case errors.Is(err, app.ErrDatabase):
		return ExitDatabase
	default:
		return ExitFailure
	}
}
