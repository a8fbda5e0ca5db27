package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/desertthunder/upform/internal/shared"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const scheme = "preview:"

// Ref identifies a live preview.
type Ref string

// IsZero reports whether r names no preview.
func (r Ref) IsZero() bool { return r == "" }

// Entry is the registered content behind a [Ref].
type Entry struct {
	Ref         Ref
	Name        string
	ContentType string
	data        []byte
}

// Info describes a decodable image.
type Info struct {
	Format string
	Width  int
	Height int
}

func (i Info) String() string {
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

// Size returns the number of bytes held by the entry.
func (e *Entry) Size() int { return len(e.data) }

// Info decodes only the image header.
func (e *Entry) Info() (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(e.data))
	if err != nil {
		return Info{}, fmt.Errorf("failed to decode image config: %w", err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Image decodes the full image.
func (e *Entry) Image() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(e.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Store keeps preview entries until they are revoked. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[Ref]*Entry
}

// NewStore creates an empty [Store].
func NewStore() *Store {
	return &Store{entries: make(map[Ref]*Entry)}
}

// IsImage reports whether a declared content type is previewable.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Create registers data and returns a fresh reference to it.
func (s *Store) Create(name, contentType string, data []byte) (Ref, error) {
	if !IsImage(contentType) {
		return "", fmt.Errorf("%w: %q is not an image type", shared.ErrInvalidInput, contentType)
	}

	ref := Ref(scheme + shared.GenerateID())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ref] = &Entry{Ref: ref, Name: name, ContentType: contentType, data: data}
	return ref, nil
}

// Revoke releases the entry behind ref. Revoking an unknown or zero ref is a no-op.
func (s *Store) Revoke(ref Ref) {
	if ref.IsZero() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, ref)
}

// Lookup returns the live entry behind ref.
func (s *Store) Lookup(ref Ref) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[ref]
	return e, ok
}

// Live returns the number of unrevoked references.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RevokeAll releases every entry.
func (s *Store) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ref := range s.entries {
		delete(s.entries, ref)
	}
}
