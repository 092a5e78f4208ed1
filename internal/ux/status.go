package ux

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

// RenderStatus prints a one-line-per-sprint table for the whole document.
func RenderStatus(doc *sprintdoc.Document) {
	fmt.Printf("%s  %s\n", boldStyle.Render("Project:"), doc.Project.Name)
	fmt.Printf("%s   %d/%d sprints\n\n", boldStyle.Render("Progress:"), countDone(doc), len(doc.Sprints))

	for _, s := range doc.Sprints {
		marker := "  "
		style := dimStyle
		switch s.Status {
		case sprintdoc.StatusDone:
			style = greenStyle
		case sprintdoc.StatusBlocked:
			style = redStyle
			marker = "⛔"
		case sprintdoc.StatusPending:
			style = dimStyle
		default:
			style = yellowStyle
			marker = "→ "
		}
		fmt.Printf("  %s %s%-3d%s  %-32s %s\n",
			marker, dimStyle.Render(""), s.ID, "", truncate(s.Goal, 32), style.Render(string(s.Status)))
	}
	fmt.Println()
}

// RenderSprintDetail prints a single sprint's full status, tasks, and
// dependencies.
func RenderSprintDetail(s *sprintdoc.Sprint) {
	fmt.Printf("%s %d\n", boldStyle.Render("Sprint"), s.ID)
	fmt.Printf("%s      %s\n", boldStyle.Render("Goal:"), s.Goal)
	fmt.Printf("%s    %s\n", boldStyle.Render("Status:"), statusStyle(s.Status).Render(string(s.Status)))
	if s.WorkflowType != "" {
		fmt.Printf("%s  %s\n", boldStyle.Render("Workflow:"), s.WorkflowType)
	}
	if len(s.Dependencies) > 0 {
		fmt.Printf("%s  %v\n", boldStyle.Render("Depends on:"), s.Dependencies)
	}
	if s.MustCompleteFirst {
		fmt.Printf("%s\n", yellowStyle.Render("must_complete_first: true"))
	}

	if len(s.Tasks) > 0 {
		fmt.Printf("\n%s\n", boldStyle.Render("Tasks:"))
		for _, t := range s.Tasks {
			fmt.Printf("  %-8s %-40s %s\n", t.ID, truncate(t.Title, 40), dimStyle.Render(string(t.Status)))
		}
	}
	fmt.Println()
}

func statusStyle(status sprintdoc.SprintStatus) lipgloss.Style {
	switch status {
	case sprintdoc.StatusDone:
		return greenStyle
	case sprintdoc.StatusBlocked:
		return redStyle
	case sprintdoc.StatusPending:
		return dimStyle
	default:
		return yellowStyle
	}
}

func countDone(doc *sprintdoc.Document) int {
	n := 0
	for _, s := range doc.Sprints {
		if s.Status == sprintdoc.StatusDone {
			n++
		}
	}
	return n
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
