package sprintloop

import (
	"io"
	"time"
)

// Dependencies bundles everything the phase executor and sprint loop need
// from the outside world, so both stay testable without real subprocesses
// or wall-clock time.
type Dependencies struct {
	ProjectRoot  string
	ClaudeBinary string // defaults to "claude" if empty
	Debug        bool
	LiveLogging  bool
	Warn         io.Writer
	Now          func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}
