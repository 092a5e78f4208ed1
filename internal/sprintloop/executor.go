package sprintloop

import (
	"context"

	"github.com/ddunford/autoflow/internal/eventsink"
	"github.com/ddunford/autoflow/internal/failarchive"
	"github.com/ddunford/autoflow/internal/promptctx"
	"github.com/ddunford/autoflow/internal/resultparser"
	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/supervisor"
	"github.com/ddunford/autoflow/internal/workflow"
)

// Decision is the phase executor's verdict on a completed (or skipped)
// phase: whether the sprint advances or must retry.
type Decision int

const (
	ShouldAdvance Decision = iota
	ShouldRetry
)

// executePhase runs the phase a sprint is currently sitting at and decides
// whether it advances or must retry. PENDING and no-agent phases always
// advance without spawning anything.
func executePhase(ctx context.Context, deps Dependencies, sprint *sprintdoc.Sprint, wf workflow.Definition) Decision {
	phase, ok := wf.GetPhase(sprint.Status)
	if !ok || sprint.Status == sprintdoc.StatusPending || phase.Agent == "none" {
		return ShouldAdvance
	}

	failarchive.ArchiveBeforeAgent(deps.ProjectRoot, sprint.ID, phase.Agent, deps.now())

	def, err := promptctx.LoadAgentDef(deps.ProjectRoot, phase.Agent)
	if err != nil {
		// AgentDefinitionMissing / AgentFormatInvalid: the sprint loop
		// treats either as an ordinary phase failure.
		return ShouldRetry
	}

	contextBody := selectContext(sprint.Status, deps.ProjectRoot, sprint)
	prompt := promptctx.FinalPrompt(def, contextBody)

	live := newLiveLoggerIfEnabled(deps, phase.Agent, sprint.ID)
	if live != nil {
		defer live.Close()
	}

	res, err := supervisor.ExecuteWithRetry(ctx, supervisor.Invocation{
		AgentName:    phase.Agent,
		Prompt:       prompt,
		Model:        def.Model,
		Tools:        def.Tools,
		MaxTurns:     phase.MaxTurns,
		SprintID:     &sprint.ID,
		ClaudeBinary: deps.ClaudeBinary,
		Debug:        deps.Debug,
		Live:         live,
	})
	if err != nil || !res.Success {
		return ShouldRetry
	}

	switch sprint.Status {
	case sprintdoc.StatusRunUnitTests, sprintdoc.StatusRunE2ETests:
		if resultparser.ParseTestResult(res.Output, deps.Warn) {
			return ShouldAdvance
		}
		return ShouldRetry
	case sprintdoc.StatusCodeReview:
		if resultparser.ParseReviewResult(res.Output, deps.Warn) {
			return ShouldAdvance
		}
		return ShouldRetry
	default:
		return ShouldAdvance
	}
}

// selectContext picks the context builder for a phase's status:
// test-runner-lite for the test-execution phases and WRITE_E2E_TESTS,
// fixer-lite for the fix phases, full context for everything else.
func selectContext(status sprintdoc.SprintStatus, projectRoot string, sprint *sprintdoc.Sprint) string {
	switch status {
	case sprintdoc.StatusRunUnitTests, sprintdoc.StatusRunE2ETests, sprintdoc.StatusWriteE2ETests:
		return promptctx.BuildTestRunnerLite(sprint)
	case sprintdoc.StatusReviewFix, sprintdoc.StatusUnitFix, sprintdoc.StatusE2EFix:
		return promptctx.BuildFixerLite(projectRoot, sprint)
	default:
		return promptctx.BuildFull(projectRoot, sprint)
	}
}

func newLiveLoggerIfEnabled(deps Dependencies, agentName string, sprintID uint32) *eventsink.LiveLogger {
	if !deps.LiveLogging {
		return nil
	}
	logger, err := eventsink.New(deps.ProjectRoot, agentName, sprintID, deps.now())
	if err != nil {
		return nil
	}
	return logger
}
