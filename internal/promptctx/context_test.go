package promptctx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

func sampleSprint() *sprintdoc.Sprint {
	return &sprintdoc.Sprint{
		ID:           3,
		Goal:         "Add billing export",
		Status:       sprintdoc.StatusWriteCode,
		WorkflowType: sprintdoc.WorkflowImplementation,
		Deliverables: []string{"CSV export endpoint"},
		Tasks: []sprintdoc.Task{
			{
				ID:                "t1",
				Title:             "Implement export handler",
				Effort:            "M",
				Priority:          sprintdoc.PriorityHigh,
				TestSpecification: "exported CSV contains every invoice row",
				Docs:              []string{"billing.md#Export"},
			},
		},
	}
}

func TestBuildFullIncludesSprintAndDocs(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "billing.md"), []byte("# Billing\n\n## Export\n\nExport rules live here.\n"), 0644)

	out := BuildFull(dir, sampleSprint())
	if !contains(out, "Sprint 3") {
		t.Errorf("BuildFull() missing sprint header: %q", out)
	}
	if !contains(out, "Export rules live here.") {
		t.Errorf("BuildFull() missing referenced doc content: %q", out)
	}
	if !contains(out, "Implement export handler") {
		t.Errorf("BuildFull() missing task title: %q", out)
	}
}

func TestBuildTestRunnerLiteEndsWithReminder(t *testing.T) {
	out := BuildTestRunnerLite(sampleSprint())
	if !contains(out, "TEST_RESULT: PASSED") {
		t.Errorf("BuildTestRunnerLite() missing mandatory reminder: %q", out)
	}
	if !contains(out, "exported CSV contains every invoice row") {
		t.Errorf("BuildTestRunnerLite() missing test specification: %q", out)
	}
}

func TestBuildFixerLiteIncludesFailureReports(t *testing.T) {
	dir := t.TempDir()
	failDir := filepath.Join(dir, ".autoflow", ".failures")
	os.MkdirAll(failDir, 0755)
	os.WriteFile(filepath.Join(failDir, "sprint-3-review.md"), []byte("review failed: missing validation"), 0644)

	out := BuildFixerLite(dir, sampleSprint())
	if !contains(out, "review failed: missing validation") {
		t.Errorf("BuildFixerLite() missing failure report content: %q", out)
	}
}

func TestBuildFixerLiteUsesExplicitFailureReportsList(t *testing.T) {
	dir := t.TempDir()
	failDir := filepath.Join(dir, ".autoflow", ".failures")
	os.MkdirAll(failDir, 0755)
	os.WriteFile(filepath.Join(failDir, "custom-report.md"), []byte("custom failure detail"), 0644)

	s := sampleSprint()
	s.FailureReports = []string{"custom-report.md"}

	out := BuildFixerLite(dir, s)
	if !contains(out, "custom failure detail") {
		t.Errorf("BuildFixerLite() missing explicit failure report: %q", out)
	}
}
