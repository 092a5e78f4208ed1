package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/ddunford/autoflow/internal/sprintdoc"
	"github.com/ddunford/autoflow/internal/ux"
)

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the backlog's overall progress",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the raw document as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			projectRoot, err := findProjectRoot()
			if err != nil {
				return err
			}
			doc, err := sprintdoc.Load(sprintsDocPath(projectRoot))
			if err != nil {
				return fmt.Errorf("loading backlog: %w", err)
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}

			ux.RenderStatus(doc)
			return nil
		},
	}
}

func sprintsCmd() *cli.Command {
	return &cli.Command{
		Name:  "sprints",
		Usage: "Inspect individual sprints",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every sprint and its status",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					projectRoot, err := findProjectRoot()
					if err != nil {
						return err
					}
					doc, err := sprintdoc.Load(sprintsDocPath(projectRoot))
					if err != nil {
						return fmt.Errorf("loading backlog: %w", err)
					}
					ux.RenderStatus(doc)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Show one sprint's full detail",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := parseSprintArg(cmd.Args().First())
					if err != nil {
						return err
					}
					projectRoot, err := findProjectRoot()
					if err != nil {
						return err
					}
					doc, err := sprintdoc.Load(sprintsDocPath(projectRoot))
					if err != nil {
						return fmt.Errorf("loading backlog: %w", err)
					}
					s := findSprint(doc, id)
					if s == nil {
						return fmt.Errorf("sprint %d not found", id)
					}
					ux.RenderSprintDetail(s)
					return nil
				},
			},
		},
	}
}

func parseSprintArg(arg string) (uint32, error) {
	if arg == "" {
		return 0, fmt.Errorf("a sprint id is required")
	}
	var id uint32
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid sprint id %q: %w", arg, err)
	}
	return id, nil
}
