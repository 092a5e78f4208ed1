package sprintdoc

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// statusCasingFixes maps the common PascalCase/camelCase spellings an agent
// might emit for a status value to the canonical SCREAMING_SNAKE_CASE form.
// Ported from the schema fixer's normalize_status_values table.
var statusCasingFixes = []struct{ from, to string }{
	{"status: Done", "status: DONE"},
	{"status: Pending", "status: PENDING"},
	{"status: Blocked", "status: BLOCKED"},
	{"status: Complete", "status: COMPLETE"},
	{"status: WriteCode", "status: WRITE_CODE"},
	{"status: WriteUnitTests", "status: WRITE_UNIT_TESTS"},
	{"status: WriteE2eTests", "status: WRITE_E2E_TESTS"},
	{"status: CodeReview", "status: CODE_REVIEW"},
	{"status: ReviewFix", "status: REVIEW_FIX"},
	{"status: RunUnitTests", "status: RUN_UNIT_TESTS"},
	{"status: UnitFix", "status: UNIT_FIX"},
	{"status: RunE2eTests", "status: RUN_E2E_TESTS"},
	{"status: E2eFix", "status: E2E_FIX"},
}

// normalizeStatusCasing rewrites known non-canonical status spellings.
func normalizeStatusCasing(content string) string {
	for _, fix := range statusCasingFixes {
		content = strings.ReplaceAll(content, fix.from, fix.to)
	}
	return content
}

// stripMarkdownFences removes ```yaml / ``` fences that agents sometimes
// wrap the document in, keeping only the fenced content (or, outside any
// fence, any non-empty line).
func stripMarkdownFences(content string) string {
	if !strings.Contains(content, "```") {
		return content
	}

	var out strings.Builder
	inFence := false
	skipBlankAfterOpen := false

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inFence {
				inFence = true
				skipBlankAfterOpen = true
			} else {
				inFence = false
			}
			continue
		}
		if inFence {
			if skipBlankAfterOpen && line == "" {
				skipBlankAfterOpen = false
				continue
			}
			out.WriteString(line)
			out.WriteByte('\n')
		} else if line != "" {
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// injectDefaults fills in fields the schema requires but an agent-authored
// document commonly omits. It never removes or overwrites content the
// document already has.
func injectDefaults(doc *Document) {
	now := time.Now().UTC()

	if doc.Project.Version == "" {
		doc.Project.Version = "0.1.0"
	}
	if doc.Project.Description == "" {
		doc.Project.Description = doc.Project.Name
	}
	if doc.Project.LastUpdated.IsZero() {
		doc.Project.LastUpdated = now
	}
	if doc.Project.TotalSprints == 0 {
		doc.Project.TotalSprints = uint32(len(doc.Sprints))
	}
	if doc.Project.CurrentSprint == nil {
		for i := range doc.Sprints {
			if doc.Sprints[i].Status != StatusDone {
				id := doc.Sprints[i].ID
				doc.Project.CurrentSprint = &id
				break
			}
		}
	}

	for i := range doc.Sprints {
		s := &doc.Sprints[i]
		if s.WorkflowType == "" {
			s.WorkflowType = WorkflowImplementation
		}
		if s.LastUpdated.IsZero() {
			s.LastUpdated = now
		}
		if s.Status != StatusPending && s.Status != StatusDone && s.Started == nil {
			started := now
			s.Started = &started
		}
		if s.Status == StatusDone && s.CompletedAt == nil {
			completed := now
			s.CompletedAt = &completed
		}
		for j := range s.Tasks {
			if s.Tasks[j].Type == "" {
				s.Tasks[j].Type = TaskImplementation
			}
			if s.Tasks[j].Status == "" {
				s.Tasks[j].Status = TaskStatusPending
			}
		}
	}
}

// ValidateAndFix applies the repair pipeline to raw document text: strip
// fenced-code-block wrappers, normalize status-value casing, parse, and
// inject missing default fields. It reparses after repair; if the result is
// still invalid against the schema, the validation error is returned.
func ValidateAndFix(content string) (*Document, error) {
	fixed := stripMarkdownFences(content)
	fixed = normalizeStatusCasing(fixed)

	var doc Document
	if err := yaml.Unmarshal([]byte(fixed), &doc); err != nil {
		return nil, err
	}

	injectDefaults(&doc)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, err
	}
	if errs := ValidateBytes(out); len(errs) > 0 {
		return nil, errs
	}

	var reparsed Document
	if err := yaml.Unmarshal(out, &reparsed); err != nil {
		return nil, err
	}
	return &reparsed, nil
}
