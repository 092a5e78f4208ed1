// Package workflow holds the static phase tables that drive a sprint from
// PENDING to DONE. Each WorkflowType names its own ordered sequence of
// phases; the sprint loop walks the table, it never branches on its own.
package workflow

import "github.com/ddunford/autoflow/internal/sprintdoc"

// Phase is one stop in a workflow's phase sequence: which agent runs, how
// many turns it gets, where a retriable failure loops back to, and how many
// times that loop-back is allowed before the sprint is blocked.
type Phase struct {
	Status             sprintdoc.SprintStatus
	Agent              string
	MaxTurns           int
	FixStatus          sprintdoc.SprintStatus // zero value if this phase has no fix phase
	MaxRetries         int
	RequiresValidation bool
}

// Definition is the full ordered phase table for one workflow type.
type Definition struct {
	Type   sprintdoc.WorkflowType
	Phases []Phase
}

// GetPhase returns the phase with the given status, or false if the
// workflow has no such phase.
func (d Definition) GetPhase(status sprintdoc.SprintStatus) (Phase, bool) {
	for _, p := range d.Phases {
		if p.Status == status {
			return p, true
		}
	}
	return Phase{}, false
}

// NextPhase returns the status immediately following the given one in the
// workflow's ordered phase list, or false if it is the last phase.
func (d Definition) NextPhase(status sprintdoc.SprintStatus) (sprintdoc.SprintStatus, bool) {
	for i, p := range d.Phases {
		if p.Status == status {
			if i+1 < len(d.Phases) {
				return d.Phases[i+1].Status, true
			}
			return "", false
		}
	}
	return "", false
}

// GetFixPhase returns the fix-loop-back status for a phase, if it has one.
func (d Definition) GetFixPhase(status sprintdoc.SprintStatus) (sprintdoc.SprintStatus, bool) {
	p, ok := d.GetPhase(status)
	if !ok || p.FixStatus == "" {
		return "", false
	}
	return p.FixStatus, true
}

// IsFixPhase reports whether status is itself a fix phase (REVIEW_FIX,
// UNIT_FIX, E2E_FIX) rather than a forward phase.
func IsFixPhase(status sprintdoc.SprintStatus) bool {
	switch status {
	case sprintdoc.StatusReviewFix, sprintdoc.StatusUnitFix, sprintdoc.StatusE2EFix:
		return true
	default:
		return false
	}
}

// GetValidationPhaseForFix returns the status a fix phase re-validates
// against once the fixer agent reports success: ReviewFix re-enters
// CodeReview, UnitFix re-enters RunUnitTests, E2eFix re-enters RunE2eTests.
func GetValidationPhaseForFix(fixStatus sprintdoc.SprintStatus) (sprintdoc.SprintStatus, bool) {
	switch fixStatus {
	case sprintdoc.StatusReviewFix:
		return sprintdoc.StatusCodeReview, true
	case sprintdoc.StatusUnitFix:
		return sprintdoc.StatusRunUnitTests, true
	case sprintdoc.StatusE2EFix:
		return sprintdoc.StatusRunE2ETests, true
	default:
		return "", false
	}
}

// NextPhaseSkipFix returns the next forward phase after status, skipping
// over any fix phase that immediately follows it in the table. Used when a
// validation phase passes outright and has no corrections to apply.
func (d Definition) NextPhaseSkipFix(status sprintdoc.SprintStatus) (sprintdoc.SprintStatus, bool) {
	next, ok := d.NextPhase(status)
	if !ok {
		return "", false
	}
	if IsFixPhase(next) {
		return d.NextPhase(next)
	}
	return next, true
}

var definitions = map[sprintdoc.WorkflowType]Definition{
	sprintdoc.WorkflowImplementation: implementationWorkflow(),
	sprintdoc.WorkflowDocumentation:  documentationWorkflow(),
	sprintdoc.WorkflowTest:           testWorkflow(),
	sprintdoc.WorkflowInfrastructure: infrastructureWorkflow(),
	sprintdoc.WorkflowRefactor:       refactorWorkflow(),
}

// GetDefinition returns the phase table for a workflow type. Unknown types
// fall back to the implementation workflow, the most general of the five.
func GetDefinition(wt sprintdoc.WorkflowType) Definition {
	if d, ok := definitions[wt]; ok {
		return d
	}
	return definitions[sprintdoc.WorkflowImplementation]
}

func implementationWorkflow() Definition {
	return Definition{
		Type: sprintdoc.WorkflowImplementation,
		Phases: []Phase{
			{Status: sprintdoc.StatusPending, Agent: "none"},
			{Status: sprintdoc.StatusWriteUnitTests, Agent: "test-writer", MaxTurns: 6, MaxRetries: 1},
			{Status: sprintdoc.StatusWriteCode, Agent: "code-implementer", MaxTurns: 10, MaxRetries: 1},
			{Status: sprintdoc.StatusCodeReview, Agent: "reviewer", MaxTurns: 5, FixStatus: sprintdoc.StatusReviewFix, MaxRetries: 5, RequiresValidation: true},
			{Status: sprintdoc.StatusReviewFix, Agent: "review-fixer", MaxTurns: 8, MaxRetries: 5},
			{Status: sprintdoc.StatusRunUnitTests, Agent: "unit-test-runner", MaxTurns: 5, FixStatus: sprintdoc.StatusUnitFix, MaxRetries: 3, RequiresValidation: true},
			{Status: sprintdoc.StatusUnitFix, Agent: "unit-fixer", MaxTurns: 8, MaxRetries: 3},
			{Status: sprintdoc.StatusWriteE2ETests, Agent: "e2e-writer", MaxTurns: 6, MaxRetries: 1},
			{Status: sprintdoc.StatusRunE2ETests, Agent: "e2e-test-runner", MaxTurns: 5, FixStatus: sprintdoc.StatusE2EFix, MaxRetries: 3, RequiresValidation: true},
			{Status: sprintdoc.StatusE2EFix, Agent: "e2e-fixer", MaxTurns: 10, MaxRetries: 3},
			{Status: sprintdoc.StatusComplete, Agent: "health-check", MaxTurns: 5, MaxRetries: 1},
			{Status: sprintdoc.StatusDone, Agent: "none"},
		},
	}
}

func documentationWorkflow() Definition {
	return Definition{
		Type: sprintdoc.WorkflowDocumentation,
		Phases: []Phase{
			{Status: sprintdoc.StatusPending, Agent: "none"},
			{Status: sprintdoc.StatusWriteCode, Agent: "doc-writer", MaxTurns: 8, MaxRetries: 1},
			{Status: sprintdoc.StatusCodeReview, Agent: "doc-reviewer", MaxTurns: 5, FixStatus: sprintdoc.StatusReviewFix, MaxRetries: 3, RequiresValidation: true},
			{Status: sprintdoc.StatusReviewFix, Agent: "doc-fixer", MaxTurns: 6, MaxRetries: 3},
			{Status: sprintdoc.StatusComplete, Agent: "health-check", MaxTurns: 5, MaxRetries: 1},
			{Status: sprintdoc.StatusDone, Agent: "none"},
		},
	}
}

func testWorkflow() Definition {
	return Definition{
		Type: sprintdoc.WorkflowTest,
		Phases: []Phase{
			{Status: sprintdoc.StatusPending, Agent: "none"},
			{Status: sprintdoc.StatusWriteCode, Agent: "test-implementer", MaxTurns: 8, MaxRetries: 1},
			{Status: sprintdoc.StatusCodeReview, Agent: "reviewer", MaxTurns: 5, FixStatus: sprintdoc.StatusReviewFix, MaxRetries: 3, RequiresValidation: true},
			{Status: sprintdoc.StatusReviewFix, Agent: "review-fixer", MaxTurns: 6, MaxRetries: 3},
			{Status: sprintdoc.StatusRunUnitTests, Agent: "unit-test-runner", MaxTurns: 5, FixStatus: sprintdoc.StatusUnitFix, MaxRetries: 3, RequiresValidation: true},
			{Status: sprintdoc.StatusUnitFix, Agent: "unit-fixer", MaxTurns: 8, MaxRetries: 3},
			{Status: sprintdoc.StatusComplete, Agent: "health-check", MaxTurns: 5, MaxRetries: 1},
			{Status: sprintdoc.StatusDone, Agent: "none"},
		},
	}
}

func infrastructureWorkflow() Definition {
	return Definition{
		Type: sprintdoc.WorkflowInfrastructure,
		Phases: []Phase{
			{Status: sprintdoc.StatusPending, Agent: "none"},
			{Status: sprintdoc.StatusWriteCode, Agent: "infra-implementer", MaxTurns: 10, MaxRetries: 1},
			{Status: sprintdoc.StatusCodeReview, Agent: "reviewer", MaxTurns: 5, FixStatus: sprintdoc.StatusReviewFix, MaxRetries: 5, RequiresValidation: true},
			{Status: sprintdoc.StatusReviewFix, Agent: "review-fixer", MaxTurns: 8, MaxRetries: 5},
			{Status: sprintdoc.StatusWriteE2ETests, Agent: "integration-test-writer", MaxTurns: 6, MaxRetries: 1},
			{Status: sprintdoc.StatusRunE2ETests, Agent: "integration-test-runner", MaxTurns: 5, FixStatus: sprintdoc.StatusE2EFix, MaxRetries: 3, RequiresValidation: true},
			{Status: sprintdoc.StatusE2EFix, Agent: "integration-fixer", MaxTurns: 10, MaxRetries: 3},
			{Status: sprintdoc.StatusComplete, Agent: "health-check", MaxTurns: 5, MaxRetries: 1},
			{Status: sprintdoc.StatusDone, Agent: "none"},
		},
	}
}

func refactorWorkflow() Definition {
	return Definition{
		Type: sprintdoc.WorkflowRefactor,
		Phases: []Phase{
			{Status: sprintdoc.StatusPending, Agent: "none"},
			{Status: sprintdoc.StatusWriteUnitTests, Agent: "test-verifier", MaxTurns: 5, MaxRetries: 1},
			{Status: sprintdoc.StatusWriteCode, Agent: "refactor-implementer", MaxTurns: 10, MaxRetries: 1},
			{Status: sprintdoc.StatusCodeReview, Agent: "reviewer", MaxTurns: 5, FixStatus: sprintdoc.StatusReviewFix, MaxRetries: 5, RequiresValidation: true},
			{Status: sprintdoc.StatusReviewFix, Agent: "review-fixer", MaxTurns: 8, MaxRetries: 5},
			{Status: sprintdoc.StatusRunUnitTests, Agent: "unit-test-runner", MaxTurns: 5, FixStatus: sprintdoc.StatusUnitFix, MaxRetries: 3, RequiresValidation: true},
			{Status: sprintdoc.StatusUnitFix, Agent: "unit-fixer", MaxTurns: 8, MaxRetries: 3},
			{Status: sprintdoc.StatusComplete, Agent: "health-check", MaxTurns: 5, MaxRetries: 1},
			{Status: sprintdoc.StatusDone, Agent: "none"},
		},
	}
}
