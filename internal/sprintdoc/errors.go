package sprintdoc

import "fmt"

// ValidationError is a single schema violation, located by the validator's
// dotted field path (for example "sprints.0.status", or "(root)").
type ValidationError struct {
	Path    string
	Message string
}

// ValidationErrors aggregates every violation found in one validation pass.
// The sprint store never fails fast on the first error — callers get the
// full list.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msg := fmt.Sprintf("document invalid: %d violation(s):", len(e))
	for i, v := range e {
		msg += fmt.Sprintf("\n  %d. %s: %s", i+1, v.Path, v.Message)
	}
	return msg
}

// ErrDocumentMissing is returned when the backlog file does not exist at
// the expected path.
type ErrDocumentMissing struct {
	Path string
}

func (e *ErrDocumentMissing) Error() string {
	return fmt.Sprintf("sprintdoc: backlog file not found at %q", e.Path)
}
