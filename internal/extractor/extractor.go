package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// IDLength is the length of every YouTube video id.
const IDLength = 11

const (
	thumbnailFormatHq     = "https://i.ytimg.com/vi/%s/hqdefault.jpg"
	thumbnailFormatMaxRes = "https://i.ytimg.com/vi/%s/maxresdefault.jpg"
)

var ErrInvalidURL = errors.New("no video id in url")

// Covers watch?v=, watch?...&v=, /v/, /e/, /embed/, /shorts/, /live/, youtube-nocookie.com and youtu.be links.
// The host must open the input, optionally behind a scheme and subdomains.
var reURL = regexp.MustCompile(`^(?:https?://)?(?:[a-zA-Z0-9-]+\.)*(?:youtube(?:-nocookie)?\.com/(?:(?:v|e(?:mbed)?|shorts|live)/|\S*?[?&]vi?=)|youtu\.be/)([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)
var reVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID returns the 11-character video id embedded in a YouTube link.
func ExtractVideoID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if match := reURL.FindStringSubmatch(s); len(match) > 1 {
		return match[1], true
	}
	return "", false
}

// RegexExtractor adapts [ExtractVideoID] to an error-returning interface.
//
// With AllowBareID set, input that is already an 11-character id is returned as-is.
type RegexExtractor struct {
	AllowBareID bool
}

func (e RegexExtractor) ExtractVideoIDFromURL(s string) (string, error) {
	if id, ok := ExtractVideoID(s); ok {
		return id, nil
	}

	s = strings.TrimSpace(s)
	if e.AllowBareID && reVideoID.MatchString(s) {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidURL, s)
}

// ThumbnailURL returns the high quality thumbnail URL for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf(thumbnailFormatHq, videoID)
}

// MaxResThumbnailURL returns the max resolution thumbnail URL, which not every video has.
func MaxResThumbnailURL(videoID string) string {
	return fmt.Sprintf(thumbnailFormatMaxRes, videoID)
}

// Thumbnail derives a thumbnail URL from arbitrary text, or "" when no id is found.
func Thumbnail(s string) string {
	id, ok := ExtractVideoID(s)
	if !ok {
		return ""
	}
	return ThumbnailURL(id)
}
