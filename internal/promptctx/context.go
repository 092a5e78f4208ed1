package promptctx

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

const failuresDir = ".autoflow/.failures"

// BuildFull assembles the full context used for writer, implementer,
// reviewer, and blocker-resolver agents: sprint header and task breakdown,
// referenced documentation, and outstanding failure reports.
func BuildFull(projectRoot string, s *sprintdoc.Sprint) string {
	b := NewBuilder().Sprint(s)

	if docs := resolveSprintDocs(projectRoot, s); docs != "" {
		b.Section("Referenced Documentation", docs)
	}

	if reports := failureReportsSection(projectRoot, s); reports != "" {
		b.Section("Failure Reports", reports)
	}

	return b.Build()
}

// BuildTestRunnerLite assembles the minimal context for RUN_UNIT_TESTS,
// RUN_E2E_TESTS, and WRITE_E2E_TESTS: sprint id, goal, and concatenated test
// specifications, ending with the mandatory TEST_RESULT reminder.
func BuildTestRunnerLite(s *sprintdoc.Sprint) string {
	var specs strings.Builder
	for _, t := range s.Tasks {
		if t.TestSpecification == "" {
			continue
		}
		fmt.Fprintf(&specs, "- [%s] %s: %s\n", t.ID, t.Title, t.TestSpecification)
	}

	b := NewBuilder().Section("Sprint", fmt.Sprintf("Sprint %d: %s", s.ID, s.Goal))
	if specs.Len() > 0 {
		b.Section("Test Specifications", specs.String())
	}
	b.Instruction("Run the tests and report the outcome. You must end your response with exactly one line: `TEST_RESULT: PASSED` or `TEST_RESULT: FAILED`.")
	return b.Build()
}

// BuildFixerLite assembles the minimal context for REVIEW_FIX, UNIT_FIX,
// and E2E_FIX: sprint id, goal, and failure reports only.
func BuildFixerLite(projectRoot string, s *sprintdoc.Sprint) string {
	b := NewBuilder().Section("Sprint", fmt.Sprintf("Sprint %d: %s", s.ID, s.Goal))
	if reports := failureReportsSection(projectRoot, s); reports != "" {
		b.Section("Failure Reports", reports)
	}
	return b.Build()
}

func resolveSprintDocs(projectRoot string, s *sprintdoc.Sprint) string {
	var all []string
	for _, t := range s.Tasks {
		all = append(all, t.Docs...)
	}
	if len(all) == 0 {
		return ""
	}
	return ResolveDocs(projectRoot, all)
}

// failureReportsSection renders the content of every failure report that
// applies to this sprint: the explicit list in sprint.FailureReports if
// present, otherwise every file under .autoflow/.failures/ whose name
// matches the sprint id.
func failureReportsSection(projectRoot string, s *sprintdoc.Sprint) string {
	names := s.FailureReports
	if len(names) == 0 {
		names = discoverFailureReports(projectRoot, s.ID)
	}
	if len(names) == 0 {
		return ""
	}

	var buf strings.Builder
	for _, name := range names {
		path := filepath.Join(projectRoot, failuresDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fmt.Fprintf(&buf, "\n### %s\n\n%s\n", name, strings.TrimSpace(string(data)))
	}
	return buf.String()
}

func discoverFailureReports(projectRoot string, sprintID uint32) []string {
	dir := filepath.Join(projectRoot, failuresDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	prefix := fmt.Sprintf("sprint-%d-", sprintID)
	blockerPrefix := fmt.Sprintf("blocker-analysis-sprint-%d.", sprintID)

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) || strings.HasPrefix(e.Name(), blockerPrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
