package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/ddunford/autoflow/internal/sprintdoc"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate the backlog document against its schema",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "fix", Usage: "Attempt best-effort repair and rewrite the document"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			projectRoot, err := findProjectRoot()
			if err != nil {
				return err
			}
			docPath := sprintsDocPath(projectRoot)

			if !cmd.Bool("fix") {
				errs, err := sprintdoc.ValidateAllErrors(docPath)
				if err != nil {
					return fmt.Errorf("reading backlog: %w", err)
				}
				if len(errs) == 0 {
					fmt.Println("backlog is valid")
					return nil
				}
				return errs
			}

			raw, err := os.ReadFile(docPath)
			if err != nil {
				return fmt.Errorf("reading backlog: %w", err)
			}
			doc, err := sprintdoc.ValidateAndFix(string(raw))
			if err != nil {
				return fmt.Errorf("document could not be repaired: %w", err)
			}
			if err := sprintdoc.Save(docPath, doc); err != nil {
				return fmt.Errorf("saving repaired backlog: %w", err)
			}
			fmt.Println("backlog repaired and saved")
			return nil
		},
	}
}
