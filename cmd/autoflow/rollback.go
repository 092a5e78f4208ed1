package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

// rollbackCmd resets a sprint back to PENDING, clearing its lifecycle
// timestamps, blocked count, and blocker-resolver flag — a manual escape
// hatch for a sprint whose agent went off the rails, letting the scheduler
// pick it up fresh. It never touches files the agent wrote; the backlog
// record is the only thing rolled back.
func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:  "rollback",
		Usage: "Reset a sprint to PENDING",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "sprint", Usage: "Sprint id to roll back", Required: true},
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

			sprintID := uint32(cmd.Int("sprint"))
			s := findSprint(doc, sprintID)
			if s == nil {
				return fmt.Errorf("sprint %d not found", sprintID)
			}

			s.Status = sprintdoc.StatusPending
			s.Started = nil
			s.CompletedAt = nil
			s.BlockedCount = nil
			s.UsesBlockerResolver = false

			if err := sprintdoc.Save(docPath, doc); err != nil {
				return fmt.Errorf("saving backlog: %w", err)
			}
			fmt.Printf("sprint %d rolled back to PENDING\n", sprintID)
			return nil
		},
	}
}
