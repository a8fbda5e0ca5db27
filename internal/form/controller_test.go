package form

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/upform/internal/preview"
	"github.com/desertthunder/upform/internal/shared"
	tu "github.com/desertthunder/upform/internal/testing"
	"github.com/desertthunder/upform/internal/upload"
)

// stubUploader records payloads and answers with a fixed response or error.
// When gate is non-nil each call blocks until a value is received on it.
type stubUploader struct {
	mu       sync.Mutex
	calls    []upload.Payload
	response *upload.Response
	err      error
	gate     chan struct{}
	started  chan struct{}
}

func (s *stubUploader) Upload(ctx context.Context, p upload.Payload) (*upload.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	s.mu.Unlock()

	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	return s.response, s.err
}

func (s *stubUploader) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newController(u upload.Uploader) *Controller {
	return NewController(u, preview.NewStore(), shared.NewLogger(&bytes.Buffer{}))
}

func imageFile(t *testing.T, name string) File {
	return File{Name: name, ContentType: "image/png", Data: tu.PNG(t, 4, 4)}
}

func TestSelection(t *testing.T) {
	t.Run("Select image creates preview", func(t *testing.T) {
		c := newController(&stubUploader{})
		s := c.Select(imageFile(t, "cat.png"))

		if s.File == nil || s.File.Name != "cat.png" {
			t.Fatalf("expected cat.png selected, got %+v", s.File)
		}
		if s.Preview.IsZero() {
			t.Fatal("expected a preview reference")
		}
		if _, ok := c.Previews().Lookup(s.Preview); !ok {
			t.Error("expected preview reference to be live")
		}
	})

	t.Run("Select non-image has no preview", func(t *testing.T) {
		c := newController(&stubUploader{})
		s := c.Select(File{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hi")})

		if !s.Preview.IsZero() {
			t.Errorf("expected no preview, got %s", s.Preview)
		}
		if c.Previews().Live() != 0 {
			t.Errorf("expected 0 live previews, got %d", c.Previews().Live())
		}
	})

	t.Run("Select clears URL", func(t *testing.T) {
		c := newController(&stubUploader{})
		c.SetURL("https://youtu.be/dQw4w9WgXcQ")
		s := c.Select(imageFile(t, "cat.png"))

		if s.URL != "" {
			t.Errorf("expected URL cleared, got %q", s.URL)
		}
	})

	t.Run("SetURL clears file and preview", func(t *testing.T) {
		c := newController(&stubUploader{})
		c.Select(imageFile(t, "cat.png"))
		s := c.SetURL("not even a url")

		if s.File != nil {
			t.Error("expected file cleared")
		}
		if s.URL != "not even a url" {
			t.Errorf("expected URL stored verbatim, got %q", s.URL)
		}
		if !s.Preview.IsZero() || c.Previews().Live() != 0 {
			t.Error("expected preview revoked")
		}
	})

	t.Run("Select does not touch status", func(t *testing.T) {
		u := &stubUploader{response: &upload.Response{StatusCode: 400, Message: "bad format"}}
		c := newController(u)
		c.SetURL("x")
		c.Submit(context.Background())

		s := c.Select(imageFile(t, "cat.png"))
		if s.Status.Kind != StatusFailure {
			t.Errorf("expected failure status to remain, got %v", s.Status.Kind)
		}
	})

	t.Run("Mutual exclusion over random sequences", func(t *testing.T) {
		c := newController(&stubUploader{})
		rng := rand.New(rand.NewSource(42))

		for i := 0; i < 500; i++ {
			var s State
			switch rng.Intn(3) {
			case 0:
				s = c.Select(File{Name: fmt.Sprintf("f%d.png", i), ContentType: "image/png", Data: []byte{1}})
			case 1:
				s = c.SetURL(fmt.Sprintf("https://example.com/%d", i))
			case 2:
				s = c.Clear()
			}

			if s.File != nil && s.URL != "" {
				t.Fatalf("step %d: both file and URL set", i)
			}
			if c.Previews().Live() > 1 {
				t.Fatalf("step %d: %d live previews", i, c.Previews().Live())
			}
		}
	})

	t.Run("Repeated image selections keep one live preview", func(t *testing.T) {
		c := newController(&stubUploader{})
		var prev preview.Ref
		for i := 0; i < 10; i++ {
			s := c.Select(imageFile(t, fmt.Sprintf("img%d.png", i)))
			if s.Preview == prev {
				t.Fatal("expected a new preview reference")
			}
			if _, ok := c.Previews().Lookup(prev); ok {
				t.Fatalf("expected previous reference %s to be revoked", prev)
			}
			if c.Previews().Live() != 1 {
				t.Fatalf("expected 1 live preview, got %d", c.Previews().Live())
			}
			prev = s.Preview
		}
	})

	t.Run("Generation advances on every transition", func(t *testing.T) {
		c := newController(&stubUploader{})
		g0 := c.State().Generation
		c.SetURL("a")
		c.Select(imageFile(t, "a.png"))
		c.Clear()
		if got := c.State().Generation; got != g0+3 {
			t.Errorf("expected generation %d, got %d", g0+3, got)
		}
	})
}

func TestClear(t *testing.T) {
	t.Run("Clear after image select leaves nothing live", func(t *testing.T) {
		c := newController(&stubUploader{})
		c.Select(imageFile(t, "cat.png"))
		before := c.State().ResetToken

		s := c.Clear()
		if s.HasSelection() {
			t.Error("expected no selection")
		}
		if !s.Preview.IsZero() || c.Previews().Live() != 0 {
			t.Error("expected no live preview")
		}
		if !s.Status.IsZero() {
			t.Errorf("expected status cleared, got %+v", s.Status)
		}
		if s.ResetToken != before+1 {
			t.Errorf("expected reset token %d, got %d", before+1, s.ResetToken)
		}
	})

	t.Run("Clear resets status", func(t *testing.T) {
		c := newController(&stubUploader{err: errors.New("boom")})
		c.SetURL("x")
		c.Submit(context.Background())

		if s := c.Clear(); !s.Status.IsZero() {
			t.Errorf("expected empty status, got %+v", s.Status)
		}
	})

	t.Run("Close revokes preview", func(t *testing.T) {
		c := newController(&stubUploader{})
		c.Select(imageFile(t, "cat.png"))
		c.Close()

		if c.Previews().Live() != 0 {
			t.Errorf("expected 0 live previews, got %d", c.Previews().Live())
		}
		if !c.State().Preview.IsZero() {
			t.Error("expected state preview cleared")
		}
	})
}

func TestSubmit(t *testing.T) {
	t.Run("Nothing selected never calls the network", func(t *testing.T) {
		u := &stubUploader{}
		c := newController(u)

		_, err := c.Submit(context.Background())
		if !errors.Is(err, ErrNothingSelected) {
			t.Errorf("expected ErrNothingSelected, got %v", err)
		}
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Error("expected ErrNothingSelected to wrap ErrMissingArgument")
		}
		if u.count() != 0 {
			t.Errorf("expected no upload, got %d", u.count())
		}
		if c.State().Pending {
			t.Error("expected no pending request")
		}
	})

	t.Run("File success clears selection once", func(t *testing.T) {
		u := &stubUploader{response: &upload.Response{StatusCode: 200, Message: "ok"}}
		c := newController(u)
		c.Select(imageFile(t, "cat.png"))
		before := c.State().ResetToken

		s, err := c.Submit(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(s.Status.Text, "ok") || s.Status.Kind != StatusSuccess {
			t.Errorf("expected success status containing ok, got %+v", s.Status)
		}
		if s.HasSelection() || !s.Preview.IsZero() {
			t.Error("expected selection and preview cleared")
		}
		if c.Previews().Live() != 0 {
			t.Errorf("expected 0 live previews, got %d", c.Previews().Live())
		}
		if s.ResetToken != before+1 {
			t.Errorf("expected reset token bumped once, got %d -> %d", before, s.ResetToken)
		}
		if s.Pending {
			t.Error("expected pending cleared")
		}

		if u.count() != 1 {
			t.Fatalf("expected one upload, got %d", u.count())
		}
		p := u.calls[0]
		if p.Kind != upload.KindFile || p.Filename != "cat.png" || p.ContentType != "image/png" {
			t.Errorf("unexpected payload %+v", p)
		}
	})

	t.Run("URL failure keeps selection", func(t *testing.T) {
		u := &stubUploader{response: &upload.Response{StatusCode: 422, Message: "bad format"}}
		c := newController(u)
		c.SetURL("htp:/broken")
		before := c.State()

		s, err := c.Submit(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Status.Kind != StatusFailure || !strings.Contains(s.Status.Text, "bad format") {
			t.Errorf("expected failure status containing 'bad format', got %+v", s.Status)
		}
		if s.URL != "htp:/broken" {
			t.Errorf("expected URL unchanged, got %q", s.URL)
		}
		if s.ResetToken != before.ResetToken {
			t.Error("expected reset token unchanged")
		}
		if u.calls[0].Kind != upload.KindURL || u.calls[0].URL != "htp:/broken" {
			t.Errorf("unexpected payload %+v", u.calls[0])
		}
	})

	t.Run("Transport failure shows generic status", func(t *testing.T) {
		u := &stubUploader{err: fmt.Errorf("%w: dial tcp: connection refused", shared.ErrAPIRequest)}
		c := newController(u)
		c.Select(imageFile(t, "cat.png"))

		s, err := c.Submit(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Status.Kind != StatusError || s.Status.Text != statusErrored {
			t.Errorf("expected generic error status, got %+v", s.Status)
		}
		if strings.Contains(s.Status.Text, "refused") {
			t.Error("expected no transport detail in status")
		}
		if s.File == nil || s.Preview.IsZero() {
			t.Error("expected selection and preview retained")
		}
	})

	t.Run("Form stays usable after failure", func(t *testing.T) {
		u := &stubUploader{err: errors.New("boom")}
		c := newController(u)
		c.SetURL("x")
		c.Submit(context.Background())

		u.err = nil
		u.response = &upload.Response{StatusCode: 201, Message: "created"}
		s, err := c.Submit(context.Background())
		if err != nil {
			t.Fatalf("expected retry to be accepted, got %v", err)
		}
		if s.Status.Kind != StatusSuccess {
			t.Errorf("expected success on retry, got %+v", s.Status)
		}
	})
}

func TestSubmitConcurrency(t *testing.T) {
	t.Run("Second submit while pending is rejected", func(t *testing.T) {
		u := &stubUploader{response: &upload.Response{StatusCode: 200, Message: "ok"}}
		c := newController(u)
		c.SetURL("x")

		sub, err := c.Prepare()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !c.State().Pending {
			t.Error("expected pending after Prepare")
		}
		if _, err := c.Prepare(); !errors.Is(err, ErrSubmitInFlight) {
			t.Errorf("expected ErrSubmitInFlight, got %v", err)
		}

		c.Complete(sub, c.Send(context.Background(), sub))
		if u.count() != 1 {
			t.Errorf("expected exactly one upload, got %d", u.count())
		}
	})

	t.Run("Clear during flight makes result stale", func(t *testing.T) {
		u := &stubUploader{
			response: &upload.Response{StatusCode: 200, Message: "ok"},
			gate:     make(chan struct{}),
			started:  make(chan struct{}),
		}
		c := newController(u)
		c.SetURL("https://youtu.be/dQw4w9WgXcQ")

		done := make(chan State)
		go func() {
			s, _ := c.Submit(context.Background())
			done <- s
		}()

		<-u.started
		cleared := c.Clear()
		if !cleared.Pending {
			t.Error("expected clear to keep the request outstanding")
		}
		if _, err := c.Prepare(); !errors.Is(err, ErrSubmitInFlight) && !errors.Is(err, ErrNothingSelected) {
			t.Errorf("expected submit to stay blocked, got %v", err)
		}

		c.SetURL("typed after clear")
		close(u.gate)
		<-done

		s := c.State()
		if !s.Status.IsZero() {
			t.Errorf("expected stale result dropped, got status %+v", s.Status)
		}
		if s.URL != "typed after clear" {
			t.Errorf("expected new URL untouched, got %q", s.URL)
		}
		if s.ResetToken != cleared.ResetToken {
			t.Error("expected stale success not to bump reset token")
		}
		if s.Pending {
			t.Error("expected pending released")
		}
	})

	t.Run("Complete reports whether outcome applied", func(t *testing.T) {
		c := newController(&stubUploader{})
		c.SetURL("x")
		sub, _ := c.Prepare()
		c.SetURL("y")

		_, applied := c.Complete(sub, Outcome{Response: &upload.Response{StatusCode: 200, Message: "ok"}})
		if applied {
			t.Error("expected stale outcome not applied")
		}
	})
}

func TestState(t *testing.T) {
	s := State{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
	if s.Thumbnail() != "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Errorf("unexpected thumbnail %q", s.Thumbnail())
	}
	if (State{URL: "https://example.com/video"}).Thumbnail() != "" {
		t.Error("expected no thumbnail for non-video URL")
	}
	if (State{URL: "hello_world"}).Thumbnail() != "" {
		t.Error("expected no thumbnail for a plain word")
	}
	if (State{}).HasSelection() {
		t.Error("expected empty state to have no selection")
	}
	if StatusSuccess.String() != "success" || StatusNone.String() != "none" {
		t.Error("unexpected StatusKind strings")
	}
}
