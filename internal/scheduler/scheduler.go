// Package scheduler selects which sprint(s) in a document are runnable next
// and drives them to completion, either one at a time in a continuous loop
// or as a bounded-parallel fan-out over a caller-chosen set.
package scheduler

import (
	"sort"
	"strconv"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

// Runnable reports whether a sprint can be picked up right now: it is not
// DONE and every id in its dependencies list names a sprint already DONE.
// Unknown dependency ids are treated as satisfied so a stale reference never
// wedges the document.
func Runnable(doc *sprintdoc.Document, s *sprintdoc.Sprint) bool {
	if s.Status == sprintdoc.StatusDone {
		return false
	}
	for _, dep := range s.Dependencies {
		if depSprint := findByID(doc, dep); depSprint != nil && depSprint.Status != sprintdoc.StatusDone {
			return false
		}
	}
	return true
}

func findByID(doc *sprintdoc.Document, id string) *sprintdoc.Sprint {
	for i := range doc.Sprints {
		if strconv.FormatUint(uint64(doc.Sprints[i].ID), 10) == id {
			return &doc.Sprints[i]
		}
	}
	return nil
}

// SelectRunnable produces the ordered set of sprints that should run next,
// applying the preemption, foundation-gate, dependency, and priority rules
// in order. An empty result means the document has nothing left to run.
func SelectRunnable(doc *sprintdoc.Document) []*sprintdoc.Sprint {
	// Rule 1: a BLOCKED must_complete_first sprint runs alone so its
	// blocker-recovery loop gets a chance.
	for i := range doc.Sprints {
		s := &doc.Sprints[i]
		if s.MustCompleteFirst && s.Status == sprintdoc.StatusBlocked {
			return []*sprintdoc.Sprint{s}
		}
	}

	// Rule 2: any other not-yet-DONE must_complete_first sprint gates
	// everything else.
	for i := range doc.Sprints {
		s := &doc.Sprints[i]
		if s.MustCompleteFirst && s.Status != sprintdoc.StatusDone {
			return []*sprintdoc.Sprint{s}
		}
	}

	// Rules 3+4: dependency-satisfied, not-DONE sprints.
	var candidates []*sprintdoc.Sprint
	for i := range doc.Sprints {
		s := &doc.Sprints[i]
		if Runnable(doc, s) {
			candidates = append(candidates, s)
		}
	}

	// Rule 5: in-progress first, then must_complete_first, then ascending id.
	sort.SliceStable(candidates, func(i, j int) bool {
		return lessKey(sortKeyOf(candidates[i]), sortKeyOf(candidates[j]))
	})
	return candidates
}

type key struct {
	inProgress        int // 0 if in progress, 1 otherwise
	mustCompleteFirst int // 0 if true, 1 otherwise
	id                uint32
}

func sortKeyOf(s *sprintdoc.Sprint) key {
	inProgress := 1
	if s.Status != sprintdoc.StatusPending && s.Status != sprintdoc.StatusDone {
		inProgress = 0
	}
	mustFirst := 1
	if s.MustCompleteFirst {
		mustFirst = 0
	}
	return key{inProgress: inProgress, mustCompleteFirst: mustFirst, id: s.ID}
}

func lessKey(a, b key) bool {
	if a.inProgress != b.inProgress {
		return a.inProgress < b.inProgress
	}
	if a.mustCompleteFirst != b.mustCompleteFirst {
		return a.mustCompleteFirst < b.mustCompleteFirst
	}
	return a.id < b.id
}
