package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/woundflow/engine"
	"github.com/randalmurphal/woundflow/imaging"
	"github.com/randalmurphal/woundflow/testutil"
)

func newTestGraph(t *testing.T, eng *testutil.Engine, opts ...Option) *Graph {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wound.png")
	testutil.WriteTestImage(t, path, 96, 96)
	g, err := NewGraph(path, eng, eng, opts...)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func TestNewGraphValidation(t *testing.T) {
	eng := &testutil.Engine{}

	if _, err := NewGraph("wound.bmp", eng, eng); err == nil {
		t.Error("bad extension should fail before touching disk")
	}

	missing := filepath.Join(t.TempDir(), "nope.png")
	_, err := NewGraph(missing, eng, eng)
	var nf *SourceNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *SourceNotFoundError", err)
	}
	if nf.Path != missing {
		t.Errorf("SourceNotFoundError.Path = %q, want %q", nf.Path, missing)
	}
}

func TestOriginalIsMemoized(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	ctx := context.Background()

	first, err := g.Original(ctx)
	if err != nil {
		t.Fatalf("Original: %v", err)
	}
	second, err := g.Original(ctx)
	if err != nil {
		t.Fatalf("Original (cached): %v", err)
	}
	if first != second {
		t.Error("second access should return the cached image, not a fresh decode")
	}
}

func TestSegmentationRunsOnce(t *testing.T) {
	eng := &testutil.Engine{ScoreValue: 9.5}
	g := newTestGraph(t, eng)
	ctx := context.Background()

	// Every mask accessor plus the score depends on the segmentation.
	if _, err := g.WoundMask(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := g.BodyMask(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := g.BackgroundMask(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := g.PredictedScore(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := g.PeriWoundMasked(ctx); err != nil {
		t.Fatal(err)
	}

	if got := eng.SegmentCount(); got != 1 {
		t.Errorf("Segment ran %d times, want 1", got)
	}
	if got := eng.ScoreCount(); got != 1 {
		t.Errorf("Score ran %d times, want 1", got)
	}
}

func TestMasksAreMutuallyExclusiveChannels(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	ctx := context.Background()

	seg, err := g.Segmentation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wound, _ := g.WoundMask(ctx)
	body, _ := g.BodyMask(ctx)
	background, _ := g.BackgroundMask(ctx)

	if wound != seg.Wound || body != seg.Body || background != seg.Background {
		t.Error("mask accessors should return the segmentation channels themselves")
	}
	if imaging.Overlaps(wound, body) || imaging.Overlaps(wound, background) || imaging.Overlaps(body, background) {
		t.Error("channels double-count pixels")
	}
	total := wound.Count() + body.Count() + background.Count()
	if want := wound.Width() * wound.Height(); total != want {
		t.Errorf("channel union covers %d pixels, want %d", total, want)
	}
}

func TestWoundMaskedZeroesOutsideWound(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	ctx := context.Background()

	masked, err := g.WoundMasked(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wound, _ := g.WoundMask(ctx)
	original, _ := g.Original(ctx)

	for y := 0; y < masked.Height(); y++ {
		for x := 0; x < masked.Width(); x++ {
			got := masked.RGBAt(x, y)
			if wound.At(x, y) {
				if got != original.RGBAt(x, y) {
					t.Fatalf("pixel (%d,%d) inside wound changed", x, y)
				}
			} else if got != imaging.Black {
				t.Fatalf("pixel (%d,%d) outside wound = %v, want black", x, y, got)
			}
		}
	}
}

func TestPeriWoundMaskBounds(t *testing.T) {
	ctx := context.Background()

	var previous *imaging.Mask
	for _, kernel := range []int{5, 11, 21} {
		g := newTestGraph(t, &testutil.Engine{}, WithPerilesionKernel(kernel))

		peri, err := g.PeriWoundMask(ctx)
		if err != nil {
			t.Fatal(err)
		}
		wound, _ := g.WoundMask(ctx)
		body, _ := g.BodyMask(ctx)

		subject := imaging.Fill(imaging.Or(body, wound))
		if !imaging.IsSubset(peri, subject) {
			t.Errorf("kernel %d: peri-wound mask escapes the filled subject", kernel)
		}
		if imaging.Overlaps(peri, wound) {
			t.Errorf("kernel %d: peri-wound mask overlaps the wound", kernel)
		}
		if previous != nil && peri.Count() < previous.Count() {
			t.Errorf("kernel %d: peri-wound mask shrank as the kernel grew", kernel)
		}
		previous = peri
	}
}

func TestClinicalScoreOptional(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	if _, ok := g.ClinicalScore(); ok {
		t.Error("clinical score should be absent by default")
	}

	g = newTestGraph(t, &testutil.Engine{}, WithClinicalScore(6.5))
	v, ok := g.ClinicalScore()
	if !ok || v != 6.5 {
		t.Errorf("ClinicalScore() = %v, %v; want 6.5, true", v, ok)
	}
}

func TestProcessAllResolvesEverything(t *testing.T) {
	eng := &testutil.Engine{ScoreValue: 3.25}
	g := newTestGraph(t, eng)

	if err := g.ProcessAll(context.Background()); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if got := eng.SegmentCount(); got != 1 {
		t.Errorf("Segment ran %d times, want 1", got)
	}
	if got := eng.ScoreCount(); got != 1 {
		t.Errorf("Score ran %d times, want 1", got)
	}
}

func TestFailedSlotRetries(t *testing.T) {
	eng := &testutil.Engine{SegmentErr: errors.New("model unavailable")}
	g := newTestGraph(t, eng)
	ctx := context.Background()

	_, err := g.WoundMask(ctx)
	if !engine.IsComputation(err) {
		t.Fatalf("error = %v, want computation error", err)
	}

	// The slot stays unresolved: clearing the fault makes the next call
	// recompute instead of returning a cached failure.
	eng.SegmentErr = nil
	if _, err := g.WoundMask(ctx); err != nil {
		t.Fatalf("retry after cleared fault: %v", err)
	}
	if got := eng.SegmentCount(); got != 2 {
		t.Errorf("Segment ran %d times, want 2", got)
	}
}

func TestCorruptSourceSurfacesDecodeError(t *testing.T) {
	eng := &testutil.Engine{}
	path := filepath.Join(t.TempDir(), "bad.png")
	testutil.WriteCorruptImage(t, path)

	g, err := NewGraph(path, eng, eng)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	_, err = g.Original(context.Background())
	var ce *engine.ComputationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ComputationError", err)
	}
	if ce.Stage != engine.StageDecode {
		t.Errorf("stage = %q, want %q", ce.Stage, engine.StageDecode)
	}
	if got := eng.SegmentCount(); got != 0 {
		t.Errorf("Segment ran %d times on a corrupt source, want 0", got)
	}
}
