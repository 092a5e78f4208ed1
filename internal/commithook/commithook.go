// Package commithook produces an advisory git commit after a sprint phase
// completes. Commits here are best-effort: a failure is logged, never
// surfaced as a sprint-blocking error.
package commithook

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

// excludedPathspec keeps the backlog's own bookkeeping directory out of
// every automated commit — it's local state, not project source.
const excludedPathspec = ":(exclude).autoflow"

// Commit stages everything except .autoflow/ and commits it with a message
// describing the phase that just completed. It no-ops quietly if there is
// no git repository at projectRoot or nothing to commit. Any failure is
// written to warn and swallowed — the caller's sprint loop must keep going
// regardless.
func Commit(projectRoot string, phaseName string, sprint *sprintdoc.Sprint, warn io.Writer) {
	if !isGitRepo(projectRoot) {
		return
	}
	if !hasChanges(projectRoot) {
		return
	}

	if err := run(projectRoot, "git", "add", "--all", "--", ".", excludedPathspec); err != nil {
		logWarn(warn, "commithook: staging changes: %v", err)
		return
	}
	if !hasStagedChanges(projectRoot) {
		return
	}

	message := buildMessage(phaseName, sprint)
	if err := run(projectRoot, "git", "commit", "--message", message); err != nil {
		logWarn(warn, "commithook: committing: %v", err)
	}
}

func buildMessage(phaseName string, sprint *sprintdoc.Sprint) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "autoflow: %s (sprint %d)\n\n", strings.ToLower(phaseName), sprint.ID)
	fmt.Fprintf(&buf, "Sprint: %s\n", sprint.Goal)
	fmt.Fprintf(&buf, "Workflow: %s\n", sprint.WorkflowType)
	buf.WriteString("\nAutoflow-Automated: true\n")
	return buf.String()
}

func isGitRepo(projectRoot string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = projectRoot
	return cmd.Run() == nil
}

func hasChanges(projectRoot string) bool {
	out, err := output(projectRoot, "git", "status", "--porcelain")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

func hasStagedChanges(projectRoot string) bool {
	cmd := exec.Command("git", "diff", "--cached", "--quiet")
	cmd.Dir = projectRoot
	// Exit code 1 means staged changes exist; 0 means the index is clean.
	err := cmd.Run()
	return err != nil
}

func run(dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return err
	}
	return nil
}

func output(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

func logWarn(w io.Writer, format string, args ...interface{}) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}
