package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/upform/internal/form"
	"github.com/desertthunder/upform/internal/shared"
	"github.com/urfave/cli/v3"
)

// UploadResult is the JSON shape printed by `upload --json`.
type UploadResult struct {
	Field   string `json:"field"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Upload submits a single file or URL through the form controller.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	text := cmd.String("url")

	if path != "" && text != "" {
		return fmt.Errorf("%w: use either --file or --url, not both", shared.ErrInvalidFlag)
	}

	controller := r.newController()
	defer controller.Close()

	field := "url"
	if path != "" {
		f, err := shared.ReadLocalFile(path, r.config.Preview.MaxBytes)
		if err != nil {
			return err
		}
		controller.Select(form.File{Name: f.Name, ContentType: f.ContentType, Data: f.Data})
		field = "file"
	} else if text != "" {
		controller.SetURL(text)
	}

	r.logger.Info("uploading", "field", field, "endpoint", r.config.Upload.Endpoint)

	state, err := controller.Submit(ctx)
	if errors.Is(err, form.ErrNothingSelected) {
		return fmt.Errorf("%w: %s", err, form.PromptNothingSelected)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(UploadResult{Field: field, Status: state.Status.Kind.String(), Message: state.Status.Text}, true); err != nil {
			return err
		}
	} else if err := r.writePlain("%s\n", state.Status.Text); err != nil {
		return err
	}

	switch state.Status.Kind {
	case form.StatusFailure:
		return fmt.Errorf("%w: %s", shared.ErrUploadRejected, state.Status.Text)
	case form.StatusError:
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, state.Status.Text)
	}
	return nil
}
