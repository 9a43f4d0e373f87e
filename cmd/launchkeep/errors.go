package main

import (
	"context"
	"errors"

	"launchkeep/internal/exitcodes"
	"launchkeep/internal/reconcile"
	"launchkeep/internal/runlock"
	"launchkeep/internal/safety"
)

var safetyViolations = []error{
	safety.ErrInvalidName,
	safety.ErrInvalidPath,
	safety.ErrProtectedPath,
	safety.ErrOutsideRoot,
	safety.ErrTraversal,
	safety.ErrSymlinkEscape,
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return exitcodes.Success
	case errors.Is(err, errConfig):
		return exitcodes.InvalidConfig
	case errors.Is(err, runlock.ErrLocked):
		return exitcodes.LockBusy
	}

	for _, v := range safetyViolations {
		if errors.Is(err, v) {
			return exitcodes.SafetyViolation
		}
	}

	if errors.Is(err, reconcile.ErrFilesystem) {
		return exitcodes.FilesystemError
	}
	return exitcodes.RuntimeError
}
