package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upform/internal/preview"
	"github.com/desertthunder/upform/internal/shared"
	"github.com/desertthunder/upform/internal/upload"
)

// PromptNothingSelected is shown when submitting an empty form.
const PromptNothingSelected = "Select a file or enter a URL before uploading."

const (
	statusSucceeded = "Upload succeeded: %s"
	statusFailed    = "Upload failed: %s"
	statusErrored   = "An error occurred while uploading."
)

var (
	ErrNothingSelected = fmt.Errorf("%w: no file or URL selected", shared.ErrMissingArgument)
	ErrSubmitInFlight  = errors.New("an upload is already in progress")
)

// Submission is a prepared upload: the payload plus the generation it was taken from.
type Submission struct {
	Generation uint64
	Payload    upload.Payload
}

// Outcome is what came back from sending a [Submission].
type Outcome struct {
	Response *upload.Response
	Err      error
}

// Controller owns the form state. Safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	state    State
	previews *preview.Store
	uploader upload.Uploader
	logger   *log.Logger
}

// NewController creates a controller posting through uploader. A nil store gets a private one.
func NewController(uploader upload.Uploader, previews *preview.Store, logger *log.Logger) *Controller {
	if previews == nil {
		previews = preview.NewStore()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		previews: previews,
		uploader: uploader,
		logger:   shared.WithLogger(logger, "component", "form"),
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Previews returns the store holding preview references.
func (c *Controller) Previews() *preview.Store {
	return c.previews
}

// Select stores f as the selection and drops any URL.
//
// Image files get a fresh preview reference; the previous one is revoked first.
func (c *Controller) Select(f File) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state
	c.previews.Revoke(next.Preview)
	next.Preview = ""

	file := f
	next.File = &file
	next.URL = ""
	next.Generation++

	if preview.IsImage(f.ContentType) {
		ref, err := c.previews.Create(f.Name, f.ContentType, f.Data)
		if err != nil {
			c.logger.Warn("preview unavailable", "file", f.Name, "err", err)
		} else {
			next.Preview = ref
		}
	}

	c.logger.Debug("file selected", "file", f.Name, "type", f.ContentType, "bytes", len(f.Data))
	c.state = next
	return next
}

// SetURL stores text verbatim and drops any selected file and its preview.
func (c *Controller) SetURL(text string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state
	c.previews.Revoke(next.Preview)
	next.Preview = ""
	next.File = nil
	next.URL = text
	next.Generation++

	c.state = next
	return next
}

// Clear empties the selection and status and bumps the reset token.
//
// An outstanding request keeps running; its outcome will be stale.
func (c *Controller) Clear() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.previews.Revoke(c.state.Preview)
	next := State{
		ResetToken: c.state.ResetToken + 1,
		Generation: c.state.Generation + 1,
		Pending:    c.state.Pending,
	}

	c.state = next
	return next
}

// Prepare validates the form and marks a request as outstanding.
func (c *Controller) Prepare() (Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.Pending {
		return Submission{}, ErrSubmitInFlight
	}

	if !s.HasSelection() {
		return Submission{}, ErrNothingSelected
	}

	payload := upload.URLPayload(s.URL)
	if s.File != nil {
		payload = upload.FilePayload(s.File.Name, s.File.ContentType, s.File.Data)
	}

	s.Pending = true
	c.state = s
	return Submission{Generation: s.Generation, Payload: payload}, nil
}

// Send performs the network call for sub. It does not touch the form state.
func (c *Controller) Send(ctx context.Context, sub Submission) Outcome {
	resp, err := c.uploader.Upload(ctx, sub.Payload)
	if err != nil {
		c.logger.Error("upload failed", "field", sub.Payload.Kind, "err", err)
		return Outcome{Err: err}
	}
	c.logger.Info("upload answered", "field", sub.Payload.Kind, "status", resp.StatusCode)
	return Outcome{Response: resp}
}

// Complete ends the outstanding request and applies o unless the form changed since Prepare.
//
// The returned bool reports whether o was applied.
func (c *Controller) Complete(sub Submission, o Outcome) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state
	next.Pending = false

	if sub.Generation != next.Generation {
		c.logger.Info("discarding stale upload result", "submitted", sub.Generation, "current", next.Generation)
		c.state = next
		return next, false
	}

	switch {
	case o.Err != nil || o.Response == nil:
		next.Status = Status{Kind: StatusError, Text: statusErrored}
	case o.Response.OK():
		c.previews.Revoke(next.Preview)
		next.File = nil
		next.URL = ""
		next.Preview = ""
		next.Status = Status{Kind: StatusSuccess, Text: fmt.Sprintf(statusSucceeded, o.Response.Message)}
		next.ResetToken++
		next.Generation++
	default:
		next.Status = Status{Kind: StatusFailure, Text: fmt.Sprintf(statusFailed, o.Response.Message)}
	}

	c.state = next
	return next, true
}

// Submit validates, posts once and applies the outcome.
//
// Only local failures are returned as errors; server and transport failures land in the Status.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	sub, err := c.Prepare()
	if err != nil {
		return c.State(), err
	}
	next, _ := c.Complete(sub, c.Send(ctx, sub))
	return next, nil
}

// Close releases the live preview. The controller stays usable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.previews.Revoke(c.state.Preview)
	c.state.Preview = ""
}
