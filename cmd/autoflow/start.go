package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/ddunford/autoflow/internal/scheduler"
	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/sprintloop"
	"github.com/ddunford/autoflow/internal/ux"
)

func startCmd() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Run the scheduler over the backlog",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "parallel", Usage: "Fan the runnable set out concurrently instead of one sprint at a time"},
			&cli.IntFlag{Name: "sprint", Usage: "Restrict to a single sprint id"},
			&cli.BoolFlag{Name: "live", Usage: "Enable the live JSON-lines event sink"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			projectRoot, err := findProjectRoot()
			if err != nil {
				return err
			}

			docPath := sprintsDocPath(projectRoot)
			doc, err := sprintdoc.Load(docPath)
			if err != nil {
				return fmt.Errorf("loading backlog: %w", err)
			}

			deps := sprintloop.Dependencies{
				ProjectRoot: projectRoot,
				LiveLogging: cmd.Bool("live"),
				Debug:       os.Getenv("AUTOFLOW_DEBUG") == "1",
				Warn:        os.Stderr,
			}

			ctx, stop := signalContext(ctx)
			defer stop()

			if sprintID := cmd.Int("sprint"); sprintID != 0 {
				return runSingleSprint(ctx, doc, docPath, deps, uint32(sprintID))
			}

			if cmd.Bool("parallel") {
				return runParallelPass(ctx, doc, docPath, deps)
			}
			return runSequential(ctx, doc, docPath, deps)
		},
	}
}

func runSingleSprint(ctx context.Context, doc *sprintdoc.Document, docPath string, deps sprintloop.Dependencies, sprintID uint32) error {
	s := findSprint(doc, sprintID)
	if s == nil {
		return fmt.Errorf("sprint %d not found", sprintID)
	}
	err := sprintloop.RunSprint(ctx, deps, s, func() error {
		return sprintdoc.Save(docPath, doc)
	}, 0)
	if s.Status == sprintdoc.StatusDone {
		ux.Success(1)
	}
	return err
}

func runSequential(ctx context.Context, doc *sprintdoc.Document, docPath string, deps sprintloop.Dependencies) error {
	err := scheduler.RunContinuous(ctx, doc, func(ctx context.Context, s *sprintdoc.Sprint) error {
		return sprintloop.RunSprint(ctx, deps, s, func() error {
			return sprintdoc.Save(docPath, doc)
		}, 0)
	}, func() error {
		return sprintdoc.Save(docPath, doc)
	})
	if err != nil {
		return err
	}

	for _, s := range doc.Sprints {
		if s.Status == sprintdoc.StatusBlocked {
			return &sprintloop.SprintBlockedError{SprintID: s.ID, Reason: "blocker-recovery failed"}
		}
	}
	ux.Success(len(doc.Sprints))
	return nil
}

func runParallelPass(ctx context.Context, doc *sprintdoc.Document, docPath string, deps sprintloop.Dependencies) error {
	set := scheduler.SelectRunnable(doc)
	if len(set) == 0 {
		ux.Success(len(doc.Sprints))
		return nil
	}

	ids := make([]string, len(set))
	for i, s := range set {
		ids[i] = fmt.Sprintf("%d", s.ID)
	}
	ux.ScheduledSet(set)

	err := scheduler.RunParallel(ctx, doc, ids, scheduler.DefaultParallelism, func(ctx context.Context, s *sprintdoc.Sprint) error {
		return sprintloop.RunSprint(ctx, deps, s, nil, 0)
	})

	// Parallel mode persists once at the end regardless of per-sprint
	// errors, so whatever each task did complete survives a crash.
	if saveErr := sprintdoc.Save(docPath, doc); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}

func findSprint(doc *sprintdoc.Document, id uint32) *sprintdoc.Sprint {
	for i := range doc.Sprints {
		if doc.Sprints[i].ID == id {
			return &doc.Sprints[i]
		}
	}
	return nil
}
