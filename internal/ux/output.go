package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

func timestamp() string {
	return dimStyle.Render("[" + time.Now().Format("15:04:05") + "]")
}

// RenderError returns the styled "error:" prefix used for top-level CLI
// failures.
func RenderError() string {
	return redStyle.Render("error:")
}

// PhaseHeader prints a timestamped header naming the sprint and phase about
// to run.
func PhaseHeader(sprint *sprintdoc.Sprint, status sprintdoc.SprintStatus, agent string) {
	fmt.Printf("\n%s %s\n", timestamp(), headerRule)
	fmt.Printf("%s  %s\n", timestamp(), boldStyle.Render(
		fmt.Sprintf("Sprint %d: %s — %s (%s)", sprint.ID, sprint.Goal, status, agent)))
	fmt.Printf("%s %s\n", timestamp(), headerRule)
}

// PhaseComplete prints a phase completion message.
func PhaseComplete(status sprintdoc.SprintStatus, duration time.Duration) {
	m := int(duration.Minutes())
	s := int(duration.Seconds()) % 60
	fmt.Printf("%s  %s\n", timestamp(), greenStyle.Render(
		fmt.Sprintf("✓ %s complete (%dm %02ds)", status, m, s)))
}

// PhaseFail prints a phase failure message.
func PhaseFail(status sprintdoc.SprintStatus, errMsg string) {
	fmt.Printf("%s  %s\n", timestamp(), redStyle.Render(
		fmt.Sprintf("✗ %s failed: %s", status, errMsg)))
}

// LoopBack prints a fix-phase loop-back message.
func LoopBack(fromStatus, toStatus sprintdoc.SprintStatus, attempt, max int) {
	fmt.Printf("%s  %s\n", timestamp(), yellowStyle.Render(
		fmt.Sprintf("↺ %s failed. Looping back to %s (attempt %d/%d)", fromStatus, toStatus, attempt, max)))
}

// Blocked prints a sprint-blocked message.
func Blocked(sprint *sprintdoc.Sprint, reason string) {
	fmt.Printf("%s  %s\n", timestamp(), redStyle.Render(
		fmt.Sprintf("⛔ Sprint %d blocked: %s", sprint.ID, reason)))
}

// BlockedRecovery prints a successful blocker-resolver recovery message.
func BlockedRecovery(sprint *sprintdoc.Sprint) {
	fmt.Printf("%s  %s\n", timestamp(), yellowStyle.Render(
		fmt.Sprintf("⚠ Sprint %d recovered via blocker-resolver, resuming at RUN_UNIT_TESTS", sprint.ID)))
}

// ResumeHint prints a resume command hint.
func ResumeHint(sprintID uint32) {
	fmt.Printf("\n%s autoflow start --sprint %d\n", yellowStyle.Render("Resume:"), sprintID)
}

// Success prints a final success message once every sprint reaches DONE.
func Success(total int) {
	fmt.Printf("\n%s  %s\n\n", timestamp(), boldStyle.Render(greenStyle.Render(
		fmt.Sprintf("══ All %d sprints complete ══", total))))
}

// ScheduledSet prints which sprints a scheduling pass selected.
func ScheduledSet(sprints []*sprintdoc.Sprint) {
	ids := make([]string, len(sprints))
	for i, s := range sprints {
		ids[i] = fmt.Sprintf("%d", s.ID)
	}
	fmt.Printf("%s  %s\n", timestamp(), cyanStyle.Render("Scheduled: "+strings.Join(ids, ", ")))
}
