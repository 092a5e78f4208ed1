package scheduler

import (
	"context"
	"errors"

	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/sprintloop"
)

// SprintRunner runs one sprint to a resting state (DONE, BLOCKED, or
// max-iterations) and returns the error that stopped it, or nil.
type SprintRunner func(ctx context.Context, sprint *sprintdoc.Sprint) error

// RunContinuous repeatedly selects the highest-priority runnable sprint that
// hasn't already terminated this run, drives it with run, and persists the
// document via persist. SprintBlocked and MaxIterationsExceeded are terminal
// for the sprint that produced them, not for the pass: that sprint is
// excluded from future selection and the loop keeps driving whatever else is
// runnable. Any other error aborts the whole pass.
func RunContinuous(ctx context.Context, doc *sprintdoc.Document, run SprintRunner, persist func() error) error {
	terminated := map[uint32]bool{}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sprint := nextRunnable(doc, terminated)
		if sprint == nil {
			return nil
		}

		err := run(ctx, sprint)

		if persist != nil {
			if persistErr := persist(); persistErr != nil {
				return persistErr
			}
		}

		if err != nil {
			var blocked *sprintloop.SprintBlockedError
			var maxIter *sprintloop.MaxIterationsExceededError
			if errors.As(err, &blocked) || errors.As(err, &maxIter) {
				terminated[sprint.ID] = true
				continue
			}
			return err
		}

		if sprint.Status == sprintdoc.StatusBlocked {
			terminated[sprint.ID] = true
		}
	}
}

// nextRunnable returns the highest-priority sprint SelectRunnable offers
// that hasn't already terminated this run, or nil if none remain.
func nextRunnable(doc *sprintdoc.Document, terminated map[uint32]bool) *sprintdoc.Sprint {
	for _, s := range SelectRunnable(doc) {
		if !terminated[s.ID] {
			return s
		}
	}
	return nil
}
