package cli

import (
	"errors"

	"github.com/openspec-dev/openspec/internal/project"
)

var (
	// ErrValidationFailed is returned after a report with invalid items was
	// printed.
	ErrValidationFailed = errors.New("validation failed")
	ErrNothingSelected  = errors.New("nothing to validate")
	ErrAborted          = errors.New("aborted")
)

const (
	ExitOK = iota
	ExitFailure
	ExitNotFound
	ExitExists
	ExitAmbiguous
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, project.ErrNotInitialized),
		errors.Is(err, project.ErrChangeNotFound),
		errors.Is(err, project.ErrSpecNotFound),
		errors.Is(err, project.ErrItemNotFound):
		return ExitNotFound
	case errors.Is(err, project.ErrAlreadyExists),
		errors.Is(err, project.ErrArchiveExists):
		return ExitExists
	case errors.Is(err, project.ErrAmbiguousItem):
		return ExitAmbiguous
	default:
		return ExitFailure
	}
}
