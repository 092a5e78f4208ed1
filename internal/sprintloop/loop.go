// Package sprintloop drives a single sprint from its current status to a
// terminal one, phase by phase, per its workflow's table.
package sprintloop

import (
	"context"
	"fmt"

	"github.com/ddunford/autoflow/internal/commithook"
	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/ux"
	"github.com/ddunford/autoflow/internal/workflow"
)

const defaultMaxIterations = 50

// commitPhases lists the statuses whose successful completion triggers an
// advisory commit.
var commitPhases = map[sprintdoc.SprintStatus]bool{
	sprintdoc.StatusWriteCode:      true,
	sprintdoc.StatusWriteUnitTests: true,
	sprintdoc.StatusWriteE2ETests:  true,
	sprintdoc.StatusCodeReview:     true,
	sprintdoc.StatusRunUnitTests:   true,
	sprintdoc.StatusRunE2ETests:    true,
	sprintdoc.StatusReviewFix:      true,
	sprintdoc.StatusUnitFix:        true,
	sprintdoc.StatusE2EFix:         true,
	sprintdoc.StatusDone:           true,
	sprintdoc.StatusComplete:       true,
}

// PersistFunc writes the sprint's owning document back to disk. It is
// retried once on failure; a second failure surfaces to the caller.
type PersistFunc func() error

// RunSprint advances sprint until it reaches DONE, is permanently BLOCKED,
// or exhausts maxIterations (0 uses the default of 50).
func RunSprint(ctx context.Context, deps Dependencies, sprint *sprintdoc.Sprint, persist PersistFunc, maxIterations int) error {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	if sprint.Started == nil {
		started := deps.now()
		sprint.Started = &started
	}

	retryCounts := map[sprintdoc.SprintStatus]uint32{}
	iter := 0

	for !sprint.IsDone() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if iter >= maxIterations {
			ux.ResumeHint(sprint.ID)
			return &MaxIterationsExceededError{SprintID: sprint.ID, Iterations: iter}
		}
		iter++

		wf := workflow.GetDefinition(sprint.WorkflowType)

		if sprint.Status == sprintdoc.StatusBlocked {
			// Blocker recovery is one-shot per run: a sprint that is blocked
			// again after a successful recovery stays blocked.
			if !sprint.UsesBlockerResolver && runBlockerResolver(ctx, deps, sprint) {
				sprint.UsesBlockerResolver = true
				ux.BlockedRecovery(sprint)
				commithook.Commit(deps.ProjectRoot, "BLOCKED_RECOVERY", sprint, deps.Warn)
				sprint.Status = sprintdoc.StatusRunUnitTests
				zero := uint32(0)
				sprint.BlockedCount = &zero
				sprint.LastUpdated = deps.now()
				if err := persistRetryingOnce(persist); err != nil {
					return err
				}
				continue
			}
			ux.Blocked(sprint, "blocker-recovery failed")
			ux.ResumeHint(sprint.ID)
			return &SprintBlockedError{SprintID: sprint.ID, Reason: "blocker-recovery failed"}
		}

		phase, _ := wf.GetPhase(sprint.Status)
		if phase.Agent != "" && phase.Agent != "none" {
			ux.PhaseHeader(sprint, sprint.Status, phase.Agent)
		}
		phaseStart := deps.now()
		decision := executePhase(ctx, deps, sprint, wf)

		switch decision {
		case ShouldAdvance:
			retryCounts[sprint.Status] = 0
			prev := sprint.Status
			advance(&sprint.Status, wf)
			if phase.Agent != "" && phase.Agent != "none" {
				ux.PhaseComplete(prev, deps.now().Sub(phaseStart))
			}
			if commitPhases[prev] {
				commithook.Commit(deps.ProjectRoot, string(prev), sprint, deps.Warn)
			}
		case ShouldRetry:
			retryCounts[sprint.Status]++
			count := retryCounts[sprint.Status]
			maxRetries := phase.MaxRetries
			if maxRetries <= 0 {
				maxRetries = 1
			}
			ux.PhaseFail(phase.Status, fmt.Sprintf("attempt %d/%d", count, maxRetries))
			if count >= uint32(maxRetries) || sprint.UsesBlockerResolver {
				sprint.Status = sprintdoc.StatusBlocked
				blocked := count
				sprint.BlockedCount = &blocked
				ux.Blocked(sprint, fmt.Sprintf("%s failed after %d attempts", phase.Status, count))
				ux.ResumeHint(sprint.ID)
			} else if phase.FixStatus != "" {
				ux.LoopBack(phase.Status, phase.FixStatus, int(count), maxRetries)
				sprint.Status = phase.FixStatus
			}
		}

		sprint.LastUpdated = deps.now()
		if sprint.Status == sprintdoc.StatusDone {
			completed := deps.now()
			sprint.CompletedAt = &completed
		}

		if err := persistRetryingOnce(persist); err != nil {
			return err
		}
	}

	return nil
}

// advance computes the next status for a successful phase completion: a fix
// phase loops back to the validation phase it fixes; any other phase moves
// forward, skipping a fix phase it doesn't need.
func advance(status *sprintdoc.SprintStatus, wf workflow.Definition) {
	if workflow.IsFixPhase(*status) {
		if next, ok := workflow.GetValidationPhaseForFix(*status); ok {
			*status = next
			return
		}
	}
	if next, ok := wf.NextPhaseSkipFix(*status); ok {
		*status = next
	}
}

func persistRetryingOnce(persist PersistFunc) error {
	if persist == nil {
		return nil
	}
	if err := persist(); err != nil {
		return persist()
	}
	return nil
}
