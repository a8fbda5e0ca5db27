package form

import (
	"github.com/desertthunder/upform/internal/extractor"
	"github.com/desertthunder/upform/internal/preview"
)

// File is a locally chosen file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// StatusKind classifies the most recent submission outcome.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusFailure
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusError:
		return "error"
	default:
		return "none"
	}
}

// Status is the user-facing result of a submission.
type Status struct {
	Kind StatusKind
	Text string
}

// IsZero reports whether no status is shown.
func (s Status) IsZero() bool { return s.Kind == StatusNone && s.Text == "" }

// State is a snapshot of the form. Values are never mutated after publication.
type State struct {
	File       *File
	URL        string
	Preview    preview.Ref
	Status     Status
	ResetToken uint64
	Generation uint64
	Pending    bool
}

// HasSelection reports whether a file or a URL is set.
func (s State) HasSelection() bool {
	return s.File != nil || s.URL != ""
}

// Thumbnail returns the derived video thumbnail URL for a URL selection, or "".
func (s State) Thumbnail() string {
	if s.URL == "" {
		return ""
	}
	return extractor.Thumbnail(s.URL)
}
