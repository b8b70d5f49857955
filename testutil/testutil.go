// Package testutil provides fixtures and engine stubs for testing.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/woundflow/engine"
	"github.com/randalmurphal/woundflow/imaging"
)

// WriteTestImage writes a small gradient PNG/JPEG to path and fails the
// test on error. Parent directories are created as needed.
func WriteTestImage(t *testing.T, path string, width, height int) {
	t.Helper()

	img := imaging.NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, imaging.RGB{R: uint8(x * 17), G: uint8(y * 31), B: 0x40})
		}
	}
	if err := imaging.Encode(path, img); err != nil {
		t.Fatalf("write test image %s: %v", path, err)
	}
}

// WriteCorruptImage writes a file with an image extension but garbage
// content, for decode-failure paths.
func WriteCorruptImage(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("definitely not pixels"), 0o644); err != nil {
		t.Fatalf("write corrupt image %s: %v", path, err)
	}
}

// Engine is a deterministic Segmenter and Scorer with call counting, for
// asserting memoization and wiring without a real model.
type Engine struct {
	mu           sync.Mutex
	segmentCalls int
	scoreCalls   int

	// ScoreValue is returned by Score. Defaults to zero.
	ScoreValue float64

	// SegmentErr and ScoreErr, when set, make the respective call fail.
	SegmentErr error
	ScoreErr   error
}

// Segment returns three mutually exclusive masks: a centered wound
// square, a body region surrounding it, and background everywhere else.
func (e *Engine) Segment(ctx context.Context, img *imaging.Image, tolerance float64) (engine.Segmentation, error) {
	e.mu.Lock()
	e.segmentCalls++
	e.mu.Unlock()
	if e.SegmentErr != nil {
		return engine.Segmentation{}, e.SegmentErr
	}

	w, h := img.Width(), img.Height()
	wound := imaging.NewMask(w, h)
	body := imaging.NewMask(w, h)
	background := imaging.NewMask(w, h)

	inRect := func(x, y, x0, y0, x1, y1 int) bool {
		return x >= x0 && x < x1 && y >= y0 && y < y1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case inRect(x, y, 3*w/8, 3*h/8, 5*w/8, 5*h/8):
				wound.Set(x, y, true)
			case inRect(x, y, w/8, h/8, 7*w/8, 7*h/8):
				body.Set(x, y, true)
			default:
				background.Set(x, y, true)
			}
		}
	}
	return engine.Segmentation{Wound: wound, Body: body, Background: background}, nil
}

// Score returns ScoreValue.
func (e *Engine) Score(ctx context.Context, img *imaging.Image, seg engine.Segmentation, kernel int) (float64, error) {
	e.mu.Lock()
	e.scoreCalls++
	e.mu.Unlock()
	if e.ScoreErr != nil {
		return 0, e.ScoreErr
	}
	return e.ScoreValue, nil
}

// SegmentCount returns how many times Segment ran.
func (e *Engine) SegmentCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.segmentCalls
}

// ScoreCount returns how many times Score ran.
func (e *Engine) ScoreCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scoreCalls
}
