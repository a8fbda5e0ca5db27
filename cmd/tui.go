package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/upform/internal/shared"
	"github.com/desertthunder/upform/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive upload form.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	controller := r.newController()
	defer controller.Close()

	model := ui.NewModel(ctx, controller, ui.Options{
		StartDir:     cmd.String("dir"),
		PreviewWidth: r.config.Preview.Width,
		MaxBytes:     r.config.Preview.MaxBytes,
		Endpoint:     r.config.Upload.Endpoint,
		OpenBrowser:  r.openBrowser,
		Logger:       fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
