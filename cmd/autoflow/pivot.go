package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

// pivotCmd and addCmd are thin stubs: spec.md places backlog authoring
// (generating or rewriting sprint records from a natural-language
// instruction) outside the orchestration core — that's the make-sprints
// agent's job, not this binary's. These commands exist so the CLI surface
// named in spec.md §6 is complete. Each checks that its argument is present
// and then returns a not-implemented error; neither invokes any agent.
func pivotCmd() *cli.Command {
	return &cli.Command{
		Name:      "pivot",
		Usage:     "Revise the plan (not implemented by this binary)",
		ArgsUsage: "<instruction>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			instruction := cmd.Args().First()
			if instruction == "" {
				return fmt.Errorf("an instruction is required")
			}
			return fmt.Errorf("pivot is a thin driver over the backlog-authoring agent; it is not implemented by the orchestration core")
		},
	}
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a sprint (not implemented by this binary)",
		ArgsUsage: "<description>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			description := cmd.Args().First()
			if description == "" {
				return fmt.Errorf("a description is required")
			}
			return fmt.Errorf("add is a thin driver over the backlog-authoring agent; it is not implemented by the orchestration core")
		},
	}
}
