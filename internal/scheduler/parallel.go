package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

// DefaultParallelism bounds how many sprints RunParallel drives at once when
// the caller doesn't request a specific limit.
const DefaultParallelism = 4

// RunParallel drives the sprints named by ids as cooperative tasks, each
// against its own cloned copy so no two goroutines touch the same *Sprint.
// No callback runs during execution; results are written back into doc in
// the caller's id order once every task has finished, and the caller is
// expected to persist exactly once after RunParallel returns.
//
// This is the only place the document is mutated by more than one
// goroutine's output, and even then only after every task has joined — the
// single-writer policy is preserved by deferring the write, not by locking.
func RunParallel(ctx context.Context, doc *sprintdoc.Document, ids []string, parallelism int, run SprintRunner) error {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	originals := make([]*sprintdoc.Sprint, len(ids))
	clones := make([]*sprintdoc.Sprint, len(ids))
	for i, id := range ids {
		s := findByID(doc, id)
		if s == nil {
			continue
		}
		originals[i] = s
		clone := *s
		clones[i] = &clone
	}

	// A plain errgroup.Group, not WithContext: run() returning
	// SprintBlockedError/MaxIterationsExceededError is a normal per-sprint
	// terminal outcome, not a batch failure, and must not cancel ctx for
	// sibling sprints still in flight (that ctx flows straight into
	// supervisor.Execute's exec.CommandContext, which SIGTERMs the process
	// group on cancellation). Only the caller's own ctx — e.g. Ctrl-C —
	// should stop every sprint in the batch.
	sem := semaphore.NewWeighted(int64(parallelism))
	var group errgroup.Group

	for i := range clones {
		i := i
		if clones[i] == nil {
			continue
		}
		group.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return run(ctx, clones[i])
		})
	}

	runErr := group.Wait()

	// Write back whatever each task produced, in caller order, regardless
	// of whether a later task failed — a partial fan-out still advances
	// the sprints that did finish.
	for i := range clones {
		if clones[i] == nil || originals[i] == nil {
			continue
		}
		*originals[i] = *clones[i]
	}

	return runErr
}
