package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/ddunford/autoflow/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:        "autoflow",
		Usage:       "Autonomous sprint orchestrator",
		Description: "Drives a backlog of sprints through their TDD workflows by invoking an agent CLI once per phase.",
		Commands: []*cli.Command{
			startCmd(),
			statusCmd(),
			sprintsCmd(),
			rollbackCmd(),
			validateCmd(),
			pivotCmd(),
			addCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ux.RenderError(), err)
		os.Exit(exitCodeFor(err))
	}
}

// findProjectRoot walks up from cwd looking for .autoflow/SPRINTS.yml.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		docPath := filepath.Join(dir, ".autoflow", "SPRINTS.yml")
		if _, err := os.Stat(docPath); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no .autoflow/SPRINTS.yml found (searched from cwd to root)")
		}
		dir = parent
	}
}

func sprintsDocPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".autoflow", "SPRINTS.yml")
}

// signalContext wires SIGINT/SIGTERM/SIGHUP to context cancellation, so a
// running sprint's subprocess gets signalled instead of the process being
// killed out from under it.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
}
