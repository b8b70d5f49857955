package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// JPEGQuality is the encoder quality for .jpg/.jpeg artifacts.
const JPEGQuality = 95

// Decode reads and decodes a PNG or JPEG file into a canonical RGB buffer.
// The format is detected from content, not the extension.
func Decode(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Rect, src, bounds.Min, draw.Src)
	return &Image{Pix: dst}, nil
}

// Encode writes img to path, choosing the format from the extension
// (.png, .jpg or .jpeg, case-insensitive). Parent directories are created
// as needed.
func Encode(path string, img *Image) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img.Pix)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img.Pix, &jpeg.Options{Quality: JPEGQuality})
	default:
		return fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
