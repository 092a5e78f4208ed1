// Package sprintdoc owns the backlog document: load, validate, repair, and
// atomically persist the YAML file that records every sprint's progress.
package sprintdoc

import "time"

// SprintStatus is the state of a sprint within its workflow.
type SprintStatus string

const (
	StatusPending        SprintStatus = "PENDING"
	StatusWriteUnitTests SprintStatus = "WRITE_UNIT_TESTS"
	StatusWriteCode      SprintStatus = "WRITE_CODE"
	StatusCodeReview     SprintStatus = "CODE_REVIEW"
	StatusReviewFix      SprintStatus = "REVIEW_FIX"
	StatusRunUnitTests   SprintStatus = "RUN_UNIT_TESTS"
	StatusUnitFix        SprintStatus = "UNIT_FIX"
	StatusWriteE2ETests  SprintStatus = "WRITE_E2E_TESTS"
	StatusRunE2ETests    SprintStatus = "RUN_E2E_TESTS"
	StatusE2EFix         SprintStatus = "E2E_FIX"
	StatusBlocked        SprintStatus = "BLOCKED"
	StatusComplete       SprintStatus = "COMPLETE"
	StatusDone           SprintStatus = "DONE"
)

// IsTerminal reports whether the status ends a sprint's life in the loop.
func (s SprintStatus) IsTerminal() bool {
	return s == StatusDone
}

// WorkflowType selects which phase table a sprint follows.
type WorkflowType string

const (
	WorkflowImplementation WorkflowType = "IMPLEMENTATION"
	WorkflowDocumentation  WorkflowType = "DOCUMENTATION"
	WorkflowTest           WorkflowType = "TEST"
	WorkflowInfrastructure WorkflowType = "INFRASTRUCTURE"
	WorkflowRefactor       WorkflowType = "REFACTOR"
)

// TaskType categorizes what kind of work a task represents.
type TaskType string

const (
	TaskImplementation TaskType = "IMPLEMENTATION"
	TaskTesting        TaskType = "TESTING"
	TaskDocumentation  TaskType = "DOCUMENTATION"
	TaskInfrastructure TaskType = "INFRASTRUCTURE"
	TaskRefactor       TaskType = "REFACTOR"
)

// TaskStatus tracks a task's progress independent of the sprint's own status.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCommitted  TaskStatus = "COMMITTED"
	TaskStatusReviewed   TaskStatus = "REVIEWED"
	TaskStatusTested     TaskStatus = "TESTED"
	TaskStatusDone       TaskStatus = "DONE"
)

// Priority ranks a task's urgency.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// TestRequirement records whether a given test tier applies to a task, and why.
type TestRequirement struct {
	Required bool   `yaml:"required"`
	Reason   string `yaml:"reason,omitempty"`
}

// TestingRequirements is the unit/integration/e2e triple carried by a task.
type TestingRequirements struct {
	UnitTests        *TestRequirement `yaml:"unit_tests,omitempty"`
	IntegrationTests *TestRequirement `yaml:"integration_tests,omitempty"`
	E2ETests         *TestRequirement `yaml:"e2e_tests,omitempty"`
}

// Task is a single unit of work within a sprint.
type Task struct {
	ID                 string              `yaml:"id"`
	Title              string              `yaml:"title"`
	Description        string              `yaml:"description,omitempty"`
	Type               TaskType            `yaml:"type,omitempty"`
	Effort             string              `yaml:"effort"`
	Priority           Priority            `yaml:"priority"`
	Feature            string              `yaml:"feature,omitempty"`
	Docs               []string            `yaml:"docs,omitempty"`
	AcceptanceCriteria []string            `yaml:"acceptance_criteria,omitempty"`
	TestSpecification  string              `yaml:"test_specification,omitempty"`
	BusinessRules      []string            `yaml:"business_rules,omitempty"`
	IntegrationNotes   string              `yaml:"integration_notes,omitempty"`
	Testing            TestingRequirements `yaml:"testing"`
	Status             TaskStatus          `yaml:"status,omitempty"`
	CommittedAt        *time.Time          `yaml:"committed_at,omitempty"`
	ReviewedAt         *time.Time          `yaml:"reviewed_at,omitempty"`
	TestedAt           *time.Time          `yaml:"tested_at,omitempty"`
	DoneAt             *time.Time          `yaml:"done_at,omitempty"`
	GitCommit          string              `yaml:"git_commit,omitempty"`
}

// IntegrationPoints describes how a sprint's changes touch the rest of the codebase.
type IntegrationPoints struct {
	Modifies      []string `yaml:"modifies,omitempty"`
	Creates       []string `yaml:"creates,omitempty"`
	TestsExisting []string `yaml:"tests_existing,omitempty"`
	Patterns      []string `yaml:"patterns,omitempty"`
}

// Sprint is one unit of work that proceeds through a workflow-specific phase sequence.
type Sprint struct {
	ID                  uint32              `yaml:"id"`
	Goal                string              `yaml:"goal"`
	Status              SprintStatus        `yaml:"status"`
	WorkflowType        WorkflowType        `yaml:"workflow_type,omitempty"`
	Duration            string              `yaml:"duration,omitempty"`
	TotalEffort         string              `yaml:"total_effort,omitempty"`
	MaxEffort           string              `yaml:"max_effort,omitempty"`
	Started             *time.Time          `yaml:"started,omitempty"`
	LastUpdated         time.Time           `yaml:"last_updated"`
	CompletedAt         *time.Time          `yaml:"completed_at,omitempty"`
	Deliverables        []string            `yaml:"deliverables,omitempty"`
	Tasks               []Task              `yaml:"tasks,omitempty"`
	Dependencies        []string            `yaml:"dependencies,omitempty"`
	IntegrationPoints   *IntegrationPoints  `yaml:"integration_points,omitempty"`
	BlockedCount        *uint32             `yaml:"blocked_count,omitempty"`
	MustCompleteFirst   bool                `yaml:"must_complete_first,omitempty"`
	FailureReports      []string            `yaml:"failure_reports,omitempty"`
	UsesBlockerResolver bool                `yaml:"-"`
}

// IsDone reports whether the sprint has reached its terminal state.
func (s *Sprint) IsDone() bool {
	return s.Status == StatusDone
}

// ProjectMetadata is the document's header block.
type ProjectMetadata struct {
	Name          string    `yaml:"name"`
	Version       string    `yaml:"version,omitempty"`
	Description   string    `yaml:"description,omitempty"`
	TotalSprints  uint32    `yaml:"total_sprints"`
	CurrentSprint *uint32   `yaml:"current_sprint,omitempty"`
	LastUpdated   time.Time `yaml:"last_updated"`
}

// Document is the whole backlog file: project metadata plus the ordered sprint list.
type Document struct {
	Project ProjectMetadata `yaml:"project"`
	Sprints []Sprint        `yaml:"sprints"`
}

// FindSprint returns a pointer to the sprint with the given id, or nil.
func (d *Document) FindSprint(id uint32) *Sprint {
	for i := range d.Sprints {
		if d.Sprints[i].ID == id {
			return &d.Sprints[i]
		}
	}
	return nil
}
