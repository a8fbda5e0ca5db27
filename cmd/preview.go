package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/upform/internal/preview"
	"github.com/desertthunder/upform/internal/shared"
	"github.com/urfave/cli/v3"
)

// Preview renders an image file with the same half-block renderer the form uses.
func (r *Runner) Preview(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: PATH", shared.ErrMissingArgument)
	}

	width := int(cmd.Int("width"))
	if width <= 0 {
		width = r.config.Preview.Width
	}

	f, err := shared.ReadLocalFile(path, r.config.Preview.MaxBytes)
	if err != nil {
		return err
	}

	store := preview.NewStore()
	ref, err := store.Create(f.Name, f.ContentType, f.Data)
	if err != nil {
		return err
	}
	defer store.RevokeAll()

	entry, _ := store.Lookup(ref)
	info, err := entry.Info()
	if err != nil {
		return err
	}

	return r.writePlain("%s (%s)\n%s\n", f.Name, info, store.Render(ref, width))
}
