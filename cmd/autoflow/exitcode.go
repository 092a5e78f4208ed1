package main

import (
	"errors"

	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/sprintloop"
)

// exitCodeFor maps a returned error to the process exit code spec.md §6
// names: 0 success, 1 unrecoverable orchestrator error, 2 sprint
// permanently blocked, 3 schema validation failure with no auto-fix
// possible.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var blocked *sprintloop.SprintBlockedError
	if errors.As(err, &blocked) {
		return 2
	}
	var validation sprintdoc.ValidationErrors
	if errors.As(err, &validation) {
		return 3
	}
	return 1
}
