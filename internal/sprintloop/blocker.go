package sprintloop

import (
	"context"

	"github.com/ddunford/autoflow/internal/promptctx"
	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/supervisor"
)

const blockerResolverMaxTurns = 10

// runBlockerResolver invokes the blocker-resolver agent with fixer-lite
// context. It reports success or failure; it never itself decides what the
// sprint should do next — that's the loop's job.
func runBlockerResolver(ctx context.Context, deps Dependencies, sprint *sprintdoc.Sprint) bool {
	def, err := promptctx.LoadAgentDef(deps.ProjectRoot, "blocker-resolver")
	if err != nil {
		return false
	}

	contextBody := promptctx.BuildFixerLite(deps.ProjectRoot, sprint)
	prompt := promptctx.FinalPrompt(def, contextBody)

	live := newLiveLoggerIfEnabled(deps, "blocker-resolver", sprint.ID)
	if live != nil {
		defer live.Close()
	}

	res, err := supervisor.ExecuteWithRetry(ctx, supervisor.Invocation{
		AgentName:    "blocker-resolver",
		Prompt:       prompt,
		Model:        def.Model,
		Tools:        def.Tools,
		MaxTurns:     blockerResolverMaxTurns,
		SprintID:     &sprint.ID,
		ClaudeBinary: deps.ClaudeBinary,
		Debug:        deps.Debug,
		Live:         live,
	})
	if err != nil {
		return false
	}
	return res.Success
}
