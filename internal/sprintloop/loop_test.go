package sprintloop

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

const fakeClaudeScript = `#!/bin/sh
input=$(cat)
case "$input" in
  *FORCE_REVIEW_FAIL*) echo "REVIEW_STATUS: FAILED" ;;
  *REVIEW_STATUS_OK*) echo "REVIEW_STATUS: PASSED" ;;
  *TEST_RESULT:*) echo "TEST_RESULT: PASSED" ;;
esac
exit 0
`

func writeFakeClaude(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-claude.sh")
	if err := os.WriteFile(path, []byte(fakeClaudeScript), 0755); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func writeAgent(t *testing.T, projectRoot, name, body string) {
	t.Helper()
	agentsDir := filepath.Join(projectRoot, ".claude", "agents")
	if err := os.MkdirAll(agentsDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	content := fmt.Sprintf("---\nmodel: sonnet\ntools: Read\n---\n%s\n", body)
	path := filepath.Join(agentsDir, name+".agent.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func writeImplementationAgents(t *testing.T, projectRoot string, reviewFails bool) {
	t.Helper()
	writeAgent(t, projectRoot, "test-writer", "Write unit tests.")
	writeAgent(t, projectRoot, "code-implementer", "Implement the code.")
	if reviewFails {
		writeAgent(t, projectRoot, "reviewer", "Review the code. FORCE_REVIEW_FAIL")
	} else {
		writeAgent(t, projectRoot, "reviewer", "Review the code. REVIEW_STATUS_OK")
	}
	writeAgent(t, projectRoot, "review-fixer", "Fix review issues.")
	writeAgent(t, projectRoot, "unit-test-runner", "Run unit tests.")
	writeAgent(t, projectRoot, "unit-fixer", "Fix unit test failures.")
	writeAgent(t, projectRoot, "e2e-writer", "Write e2e tests.")
	writeAgent(t, projectRoot, "e2e-test-runner", "Run e2e tests.")
	writeAgent(t, projectRoot, "e2e-fixer", "Fix e2e failures.")
	writeAgent(t, projectRoot, "health-check", "Run final health check.")
	writeAgent(t, projectRoot, "blocker-resolver", "Resolve the blocker.")
}

func sampleSprintForLoop() *sprintdoc.Sprint {
	return &sprintdoc.Sprint{
		ID:           1,
		Goal:         "Build the export feature",
		Status:       sprintdoc.StatusPending,
		WorkflowType: sprintdoc.WorkflowImplementation,
		Tasks: []sprintdoc.Task{
			{ID: "t1", Title: "Implement handler", Effort: "M", Priority: sprintdoc.PriorityHigh, TestSpecification: "covers the happy path"},
		},
	}
}

func TestRunSprintHappyPath(t *testing.T) {
	dir := t.TempDir()
	writeImplementationAgents(t, dir, false)
	claude := writeFakeClaude(t, dir)

	sprint := sampleSprintForLoop()
	deps := Dependencies{
		ProjectRoot:  dir,
		ClaudeBinary: claude,
		Now:          func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
		Warn:         &bytes.Buffer{},
	}

	err := RunSprint(context.Background(), deps, sprint, func() error { return nil }, 50)
	if err != nil {
		t.Fatalf("RunSprint() error = %v", err)
	}
	if sprint.Status != sprintdoc.StatusDone {
		t.Fatalf("final status = %s, want DONE", sprint.Status)
	}
	if sprint.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be set")
	}
}

func TestRunSprintBlockedRecovery(t *testing.T) {
	dir := t.TempDir()
	writeImplementationAgents(t, dir, true) // reviewer always fails
	claude := writeFakeClaude(t, dir)

	sprint := sampleSprintForLoop()
	sprint.Status = sprintdoc.StatusCodeReview

	deps := Dependencies{
		ProjectRoot:  dir,
		ClaudeBinary: claude,
		Now:          func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
		Warn:         &bytes.Buffer{},
	}

	// maxRetries for CODE_REVIEW is 5: reviewer fails every time, so after
	// 5 retries the sprint is forced BLOCKED, then the blocker-resolver
	// (which always "succeeds" — no failure marker in its prompt) resets it
	// to RUN_UNIT_TESTS with uses_blocker_resolver raised.
	err := RunSprint(context.Background(), deps, sprint, func() error { return nil }, 30)
	if err != nil {
		t.Fatalf("RunSprint() error = %v", err)
	}
	if !sprint.UsesBlockerResolver {
		t.Fatal("expected uses_blocker_resolver to be set after recovery")
	}
	if sprint.Status != sprintdoc.StatusDone {
		t.Fatalf("final status = %s, want DONE after recovery", sprint.Status)
	}
}

func TestRunSprintMaxIterationsExceeded(t *testing.T) {
	dir := t.TempDir()
	writeImplementationAgents(t, dir, false)
	claude := writeFakeClaude(t, dir)

	sprint := sampleSprintForLoop()
	deps := Dependencies{
		ProjectRoot:  dir,
		ClaudeBinary: claude,
		Now:          func() time.Time { return time.Now().UTC() },
	}

	err := RunSprint(context.Background(), deps, sprint, func() error { return nil }, 2)
	if err == nil {
		t.Fatal("expected MaxIterationsExceededError")
	}
	if _, ok := err.(*MaxIterationsExceededError); !ok {
		t.Fatalf("error = %#v, want *MaxIterationsExceededError", err)
	}
}

func TestRunSprintUsesBlockerResolverSkipsFixPhase(t *testing.T) {
	dir := t.TempDir()
	writeImplementationAgents(t, dir, true) // reviewer always fails
	claude := writeFakeClaude(t, dir)

	sprint := sampleSprintForLoop()
	sprint.Status = sprintdoc.StatusCodeReview
	sprint.UsesBlockerResolver = true // recovery already happened once

	deps := Dependencies{
		ProjectRoot:  dir,
		ClaudeBinary: claude,
		Now:          func() time.Time { return time.Now().UTC() },
	}

	err := RunSprint(context.Background(), deps, sprint, func() error { return nil }, 5)
	if err == nil {
		t.Fatal("expected SprintBlockedError")
	}
	if _, ok := err.(*SprintBlockedError); !ok {
		t.Fatalf("error = %#v, want *SprintBlockedError", err)
	}
	// A single failed validation must go straight to BLOCKED, never REVIEW_FIX.
	if sprint.Status != sprintdoc.StatusBlocked {
		t.Fatalf("status = %s, want BLOCKED (fix phase should be skipped)", sprint.Status)
	}
}
