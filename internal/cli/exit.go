package cli

import (
	"errors"

	"github.com/vk/xposedbuild/internal/app"
	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/target"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitTargets = 3
	ExitConfig  = 4
)

// AsExitError classifies err by the exit code the process should end with.
func AsExitError(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	code := ExitFailure
	switch {
	case errors.Is(err, app.ErrUsage), errors.Is(err, registry.ErrUnknownStep):
		code = ExitUsage
	case errors.Is(err, target.ErrNoTargets), errors.Is(err, target.ErrInvalidSpec):
		code = ExitTargets
	case errors.Is(err, app.ErrConfig), errors.Is(err, config.ErrMissingKey):
		code = ExitConfig
	}
	return &ExitError{Code: code, Message: err.Error()}
}
