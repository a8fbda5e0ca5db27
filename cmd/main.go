package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/upform/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:     "upform",
		Usage:    "Upload a local file or a URL to an upload endpoint",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Configure,
		Action:   runner.TUI,
		Commands: runner.register(),
	}
}
