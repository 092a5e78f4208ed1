package sprintloop

import "fmt"

// SprintBlockedError is terminal for a sprint: a phase hit its retry
// ceiling and the blocker-recovery sub-loop also failed to clear it.
type SprintBlockedError struct {
	SprintID uint32
	Reason   string
}

func (e *SprintBlockedError) Error() string {
	return fmt.Sprintf("sprintloop: sprint %d blocked: %s", e.SprintID, e.Reason)
}

// MaxIterationsExceededError is terminal for a sprint: the loop bound was
// reached without the sprint reaching a terminal status.
type MaxIterationsExceededError struct {
	SprintID   uint32
	Iterations int
}

func (e *MaxIterationsExceededError) Error() string {
	return fmt.Sprintf("sprintloop: sprint %d exceeded %d iterations without completing", e.SprintID, e.Iterations)
}
