package promptctx

import (
	"fmt"
	"strings"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

// section is one titled block of an assembled context.
type section struct {
	title   string
	content string
}

// Builder assembles a context body as an ordered list of titled sections,
// each rendered as "# title\n\ncontent" and joined with a blank line.
type Builder struct {
	sections []section
}

// NewBuilder returns an empty context builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Section appends a titled block.
func (b *Builder) Section(title, content string) *Builder {
	b.sections = append(b.sections, section{title: title, content: content})
	return b
}

// Instruction appends a one-line "Instructions" section.
func (b *Builder) Instruction(instruction string) *Builder {
	return b.Section("Instructions", instruction)
}

// Sprint appends the sprint header, deliverables, and task breakdown.
func (b *Builder) Sprint(s *sprintdoc.Sprint) *Builder {
	var buf strings.Builder
	fmt.Fprintf(&buf, "**Sprint %d**: %s\n", s.ID, s.Goal)
	fmt.Fprintf(&buf, "Status: %s | Workflow: %s\n", s.Status, s.WorkflowType)

	if len(s.Deliverables) > 0 {
		buf.WriteString("\nDeliverables:\n")
		for _, d := range s.Deliverables {
			fmt.Fprintf(&buf, "- %s\n", d)
		}
	}

	if len(s.Tasks) > 0 {
		buf.WriteString("\nTasks:\n")
		for _, t := range s.Tasks {
			buf.WriteString(renderTask(&t))
		}
	}

	return b.Section("Sprint", buf.String())
}

func renderTask(t *sprintdoc.Task) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "\n## Task %s: %s\n", t.ID, t.Title)
	fmt.Fprintf(&buf, "- effort: %s\n", t.Effort)
	fmt.Fprintf(&buf, "- priority: %s\n", t.Priority)
	if t.Type != "" {
		fmt.Fprintf(&buf, "- type: %s\n", t.Type)
	}
	if t.Feature != "" {
		fmt.Fprintf(&buf, "- feature: %s\n", t.Feature)
	}
	if t.Description != "" {
		fmt.Fprintf(&buf, "- description: %s\n", t.Description)
	}
	if len(t.BusinessRules) > 0 {
		buf.WriteString("- business rules:\n")
		for _, r := range t.BusinessRules {
			fmt.Fprintf(&buf, "  - %s\n", r)
		}
	}
	if len(t.AcceptanceCriteria) > 0 {
		buf.WriteString("- acceptance criteria:\n")
		for _, c := range t.AcceptanceCriteria {
			fmt.Fprintf(&buf, "  - %s\n", c)
		}
	}
	if t.TestSpecification != "" {
		fmt.Fprintf(&buf, "- test specification: %s\n", t.TestSpecification)
	}
	if len(t.Docs) > 0 {
		fmt.Fprintf(&buf, "- docs: %s\n", strings.Join(t.Docs, ", "))
	}
	return buf.String()
}

// FileContent appends a section holding a single file's contents, fenced as
// a code block.
func (b *Builder) FileContent(path, content string) *Builder {
	return b.Section(path, "```\n"+content+"\n```")
}

// Build renders the assembled sections, each as "# title\n\ncontent",
// joined by a blank line.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.sections))
	for _, s := range b.sections {
		parts = append(parts, fmt.Sprintf("# %s\n\n%s", s.title, s.content))
	}
	return strings.Join(parts, "\n\n")
}
