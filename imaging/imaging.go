// Package imaging provides the pixel plumbing shared by the artifact
// pipeline: RGB buffers, binary masks, the PNG/JPEG codec, binary-mask
// morphology (dilation, hole filling, boundary tracing), and the contour
// and label drawing used by the renderer.
//
// Images are canonical RGB; masks are single-channel with foreground 255.
package imaging

import (
	"fmt"
	"image"
)

// Image is an RGB pixel buffer in canonical channel order.
type Image struct {
	Pix *image.NRGBA
}

// NewImage creates a blank image of the given size.
func NewImage(width, height int) *Image {
	return &Image{Pix: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// FromNRGBA wraps an existing buffer. The buffer must have a zero origin.
func FromNRGBA(pix *image.NRGBA) *Image {
	return &Image{Pix: pix}
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.Pix.Rect.Dx() }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.Pix.Rect.Dy() }

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	dst := image.NewNRGBA(img.Pix.Rect)
	copy(dst.Pix, img.Pix.Pix)
	return &Image{Pix: dst}
}

// RGBAt returns the color at (x, y).
func (img *Image) RGBAt(x, y int) RGB {
	i := img.Pix.PixOffset(x, y)
	return RGB{R: img.Pix.Pix[i], G: img.Pix.Pix[i+1], B: img.Pix.Pix[i+2]}
}

// SetRGB sets the color at (x, y) with full opacity.
func (img *Image) SetRGB(x, y int, c RGB) {
	i := img.Pix.PixOffset(x, y)
	img.Pix.Pix[i] = c.R
	img.Pix.Pix[i+1] = c.G
	img.Pix.Pix[i+2] = c.B
	img.Pix.Pix[i+3] = 0xff
}

// Mask is a single-channel binary buffer. Foreground pixels are 255.
type Mask struct {
	Pix *image.Gray
}

// NewMask creates an all-background mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{Pix: image.NewGray(image.Rect(0, 0, width, height))}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.Pix.Rect.Dx() }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.Pix.Rect.Dy() }

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	dst := image.NewGray(m.Pix.Rect)
	copy(dst.Pix, m.Pix.Pix)
	return &Mask{Pix: dst}
}

// At reports whether (x, y) is foreground.
func (m *Mask) At(x, y int) bool {
	return m.Pix.Pix[m.Pix.PixOffset(x, y)] != 0
}

// Set marks (x, y) as foreground or background.
func (m *Mask) Set(x, y int, on bool) {
	v := uint8(0)
	if on {
		v = 0xff
	}
	m.Pix.Pix[m.Pix.PixOffset(x, y)] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Predefined colors used by the renderer.
var (
	Red   = RGB{255, 0, 0}
	Green = RGB{0, 255, 0}
	Blue  = RGB{0, 0, 255}
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// Custom builds an RGB value, rejecting components outside 0-255.
func Custom(r, g, b int) (RGB, error) {
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("rgb component %d out of range 0-255", v)
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}
