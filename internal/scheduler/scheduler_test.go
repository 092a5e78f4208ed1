package scheduler

import (
	"context"
	"testing"

	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/sprintloop"
)

func docWith(sprints ...sprintdoc.Sprint) *sprintdoc.Document {
	return &sprintdoc.Document{Sprints: sprints}
}

func TestSelectRunnableCriticalPreemption(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, MustCompleteFirst: true, Status: sprintdoc.StatusBlocked},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending},
	)
	got := SelectRunnable(doc)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("SelectRunnable() = %+v, want only sprint 1", got)
	}
}

func TestSelectRunnableFoundationGate(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, MustCompleteFirst: true, Status: sprintdoc.StatusWriteCode},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending},
	)
	got := SelectRunnable(doc)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("SelectRunnable() = %+v, want only sprint 1 (gate)", got)
	}
}

func TestSelectRunnableDependencyGating(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusDone},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending, Dependencies: []string{"1"}},
		sprintdoc.Sprint{ID: 3, Status: sprintdoc.StatusPending, Dependencies: []string{"2"}},
	)
	got := SelectRunnable(doc)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("SelectRunnable() = %+v, want only sprint 2 runnable", got)
	}
}

func TestSelectRunnableUnknownDependencySatisfied(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending, Dependencies: []string{"99"}},
	)
	got := SelectRunnable(doc)
	if len(got) != 1 {
		t.Fatalf("SelectRunnable() = %+v, want sprint 1 runnable despite unknown dependency", got)
	}
}

func TestSelectRunnablePriorityInProgressFirst(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusCodeReview},
	)
	got := SelectRunnable(doc)
	if got[0].ID != 2 {
		t.Fatalf("SelectRunnable()[0] = %d, want in-progress sprint 2 first", got[0].ID)
	}
}

func TestSelectRunnablePriorityMustCompleteFirstBeforeID(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending, MustCompleteFirst: true},
	)
	got := SelectRunnable(doc)
	if got[0].ID != 2 {
		t.Fatalf("SelectRunnable()[0] = %d, want must_complete_first sprint 2 first", got[0].ID)
	}
}

func TestSelectRunnableNoneLeft(t *testing.T) {
	doc := docWith(sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusDone})
	got := SelectRunnable(doc)
	if len(got) != 0 {
		t.Fatalf("SelectRunnable() = %+v, want empty", got)
	}
}

func TestRunContinuousDrivesUntilDone(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending, Dependencies: []string{"1"}},
	)
	persisted := 0
	err := RunContinuous(context.Background(), doc, func(ctx context.Context, s *sprintdoc.Sprint) error {
		s.Status = sprintdoc.StatusDone
		return nil
	}, func() error {
		persisted++
		return nil
	})
	if err != nil {
		t.Fatalf("RunContinuous() error = %v", err)
	}
	for _, s := range doc.Sprints {
		if s.Status != sprintdoc.StatusDone {
			t.Fatalf("sprint %d status = %s, want DONE", s.ID, s.Status)
		}
	}
	if persisted != 2 {
		t.Fatalf("persisted %d times, want 2", persisted)
	}
}

func TestRunContinuousExcludesBlockedAndKeepsGoing(t *testing.T) {
	// A real SprintRunner (sprintloop.RunSprint) returns a non-nil
	// *SprintBlockedError for a sprint it leaves BLOCKED; it never returns
	// nil while leaving the sprint blocked. RunContinuous must treat that
	// as terminal for sprint 1 only and still drive sprint 2 to DONE.
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending},
	)
	ran := []uint32{}
	err := RunContinuous(context.Background(), doc, func(ctx context.Context, s *sprintdoc.Sprint) error {
		ran = append(ran, s.ID)
		if s.ID == 1 {
			s.Status = sprintdoc.StatusBlocked
			return &sprintloop.SprintBlockedError{SprintID: s.ID, Reason: "blocker-recovery failed"}
		}
		s.Status = sprintdoc.StatusDone
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("RunContinuous() error = %v", err)
	}
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Fatalf("ran sprints %v, want [1 2]", ran)
	}
	if doc.Sprints[0].Status != sprintdoc.StatusBlocked {
		t.Fatalf("sprint 1 status = %s, want BLOCKED", doc.Sprints[0].Status)
	}
	if doc.Sprints[1].Status != sprintdoc.StatusDone {
		t.Fatalf("sprint 2 status = %s, want DONE", doc.Sprints[1].Status)
	}
}

func TestRunContinuousAbortsOnNonTerminalError(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending},
	)
	ran := 0
	boom := errBoomType{}
	err := RunContinuous(context.Background(), doc, func(ctx context.Context, s *sprintdoc.Sprint) error {
		ran++
		return boom
	}, nil)
	if err == nil {
		t.Fatal("RunContinuous() error = nil, want non-nil")
	}
	if ran != 1 {
		t.Fatalf("ran %d sprints, want 1 (abort on first non-terminal error)", ran)
	}
}

func TestRunParallelWritesBackEachSprint(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending},
	)
	err := RunParallel(context.Background(), doc, []string{"1", "2"}, 2, func(ctx context.Context, s *sprintdoc.Sprint) error {
		s.Status = sprintdoc.StatusDone
		return nil
	})
	if err != nil {
		t.Fatalf("RunParallel() error = %v", err)
	}
	for _, s := range doc.Sprints {
		if s.Status != sprintdoc.StatusDone {
			t.Fatalf("sprint %d status = %s, want DONE", s.ID, s.Status)
		}
	}
}

func TestRunParallelPartialFailureStillWritesBackCompleted(t *testing.T) {
	doc := docWith(
		sprintdoc.Sprint{ID: 1, Status: sprintdoc.StatusPending},
		sprintdoc.Sprint{ID: 2, Status: sprintdoc.StatusPending},
	)
	err := RunParallel(context.Background(), doc, []string{"1", "2"}, 2, func(ctx context.Context, s *sprintdoc.Sprint) error {
		if s.ID == 2 {
			return errBoom
		}
		s.Status = sprintdoc.StatusDone
		return nil
	})
	if err == nil {
		t.Fatal("RunParallel() error = nil, want errBoom propagated")
	}
	if doc.Sprints[0].Status != sprintdoc.StatusDone {
		t.Fatalf("sprint 1 status = %s, want DONE despite sprint 2 failing", doc.Sprints[0].Status)
	}
}

var errBoom = errBoomType{}

type errBoomType struct{}

func (errBoomType) Error() string { return "boom" }
