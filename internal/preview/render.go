package preview

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const (
	DefaultWidth = 40
	maxWidth     = 200
	maxHeight    = 2 * maxWidth // pixels, two per row
	upperHalf    = "▀"
)

// Render paints the image behind ref as rows of half-block cells, width cells wide.
//
// Each cell carries two vertically stacked pixels: the foreground colors the top one and the
// background the bottom one. Images that cannot be decoded render as a one-line placeholder.
func (s *Store) Render(ref Ref, width int) string {
	e, ok := s.Lookup(ref)
	if !ok {
		return ""
	}

	img, err := e.Image()
	if err != nil {
		return fmt.Sprintf("[%s: no preview available]", e.Name)
	}
	return RenderImage(img, width)
}

// RenderImage paints img as half-block cells, width cells wide.
func RenderImage(img image.Image, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if width > maxWidth {
		width = maxWidth
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	h := width * b.Dy() / b.Dx()
	if h < 2 {
		h = 2
	}
	if h > maxHeight {
		h = maxHeight
	}
	if h%2 != 0 {
		h++
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < width; x++ {
			cell := lipgloss.NewStyle().
				Foreground(hex(dst.At(x, y))).
				Background(hex(dst.At(x, y+1)))
			sb.WriteString(cell.Render(upperHalf))
		}
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
