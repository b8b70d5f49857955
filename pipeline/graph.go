package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/randalmurphal/woundflow/engine"
	"github.com/randalmurphal/woundflow/imaging"
	"github.com/randalmurphal/woundflow/pathcheck"
)

// Engine knobs. Tolerance is the segmentation confidence cutoff; the
// kernel sizes are quality knobs, not domain parameters — changing them
// changes the output but not its meaning.
const (
	SegmentationTolerance   = 0.95
	ScoreKernel             = 65
	DefaultPerilesionKernel = 20
)

// SourceNotFoundError reports a well-formed image path with no file
// behind it.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source image %s not found", e.Path)
}

// slotID identifies one memoized derivation inside a Graph.
type slotID int

const (
	slotOriginal slotID = iota
	slotSegmentation
	slotWoundMasked
	slotPeriWoundMask
	slotPeriWoundMasked
	slotPredicted
	slotCount
)

// slotDeps declares each slot's dependencies. resolve walks this table,
// so evaluation order follows the declared graph rather than call-order
// side effects.
var slotDeps = [slotCount][]slotID{
	slotOriginal:        nil,
	slotSegmentation:    {slotOriginal},
	slotWoundMasked:     {slotOriginal, slotSegmentation},
	slotPeriWoundMask:   {slotSegmentation},
	slotPeriWoundMasked: {slotOriginal, slotPeriWoundMask},
	slotPredicted:       {slotOriginal, slotSegmentation},
}

// Graph owns one source image and derives all dependent artifacts from it
// lazily, each at most once. There is no invalidation and no re-binding;
// dispose of the Graph to release everything. Not safe for concurrent use.
type Graph struct {
	path      string
	segmenter engine.Segmenter
	scorer    engine.Scorer
	logger    *slog.Logger

	perilesionKernel int
	clinical         *float64

	// slots holds resolved values; a nil entry is unresolved. A failed
	// computation leaves its slot nil so a later call retries.
	slots [slotCount]any
}

// Option configures a Graph.
type Option func(*Graph)

// WithClinicalScore attaches an externally supplied clinical PWAT score.
// Absent by default; this is the extension point for ground-truth labels.
func WithClinicalScore(v float64) Option {
	return func(g *Graph) { g.clinical = &v }
}

// WithPerilesionKernel overrides the perilesion expansion kernel size.
func WithPerilesionKernel(k int) Option {
	return func(g *Graph) { g.perilesionKernel = k }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// NewGraph binds a pipeline to one source image. The path must be a
// well-formed image path and must exist on disk; decoding happens lazily
// on first access.
func NewGraph(path string, segmenter engine.Segmenter, scorer engine.Scorer, opts ...Option) (*Graph, error) {
	if err := pathcheck.ValidateImagePath(path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &SourceNotFoundError{Path: path}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if segmenter == nil || scorer == nil {
		return nil, fmt.Errorf("pipeline: segmenter and scorer are required")
	}

	g := &Graph{
		path:             path,
		segmenter:        segmenter,
		scorer:           scorer,
		logger:           slog.Default(),
		perilesionKernel: DefaultPerilesionKernel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Path returns the bound source image path.
func (g *Graph) Path() string { return g.path }

// Original returns the decoded source image.
func (g *Graph) Original(ctx context.Context) (*imaging.Image, error) {
	v, err := g.resolve(ctx, slotOriginal)
	if err != nil {
		return nil, err
	}
	return v.(*imaging.Image), nil
}

// Segmentation returns the three-mask segmentation result.
func (g *Graph) Segmentation(ctx context.Context) (engine.Segmentation, error) {
	v, err := g.resolve(ctx, slotSegmentation)
	if err != nil {
		return engine.Segmentation{}, err
	}
	return v.(engine.Segmentation), nil
}

// WoundMask returns the wound channel of the segmentation.
func (g *Graph) WoundMask(ctx context.Context) (*imaging.Mask, error) {
	seg, err := g.Segmentation(ctx)
	if err != nil {
		return nil, err
	}
	return seg.Wound, nil
}

// BodyMask returns the body channel of the segmentation.
func (g *Graph) BodyMask(ctx context.Context) (*imaging.Mask, error) {
	seg, err := g.Segmentation(ctx)
	if err != nil {
		return nil, err
	}
	return seg.Body, nil
}

// BackgroundMask returns the background channel of the segmentation.
func (g *Graph) BackgroundMask(ctx context.Context) (*imaging.Mask, error) {
	seg, err := g.Segmentation(ctx)
	if err != nil {
		return nil, err
	}
	return seg.Background, nil
}

// WoundMasked returns the source image with pixels outside the wound
// zeroed.
func (g *Graph) WoundMasked(ctx context.Context) (*imaging.Image, error) {
	v, err := g.resolve(ctx, slotWoundMasked)
	if err != nil {
		return nil, err
	}
	return v.(*imaging.Image), nil
}

// PeriWoundMask returns the perilesion expansion of the wound mask,
// clipped to the filled body.
func (g *Graph) PeriWoundMask(ctx context.Context) (*imaging.Mask, error) {
	v, err := g.resolve(ctx, slotPeriWoundMask)
	if err != nil {
		return nil, err
	}
	return v.(*imaging.Mask), nil
}

// PeriWoundMasked returns the source image with pixels outside the
// peri-wound region zeroed.
func (g *Graph) PeriWoundMasked(ctx context.Context) (*imaging.Image, error) {
	v, err := g.resolve(ctx, slotPeriWoundMasked)
	if err != nil {
		return nil, err
	}
	return v.(*imaging.Image), nil
}

// PredictedScore returns the model's PWAT estimate.
func (g *Graph) PredictedScore(ctx context.Context) (float64, error) {
	v, err := g.resolve(ctx, slotPredicted)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// ClinicalScore returns the externally supplied clinical PWAT score, if
// one was attached at construction.
func (g *Graph) ClinicalScore() (float64, bool) {
	if g.clinical == nil {
		return 0, false
	}
	return *g.clinical, true
}

// ProcessAll forces every derivation in dependency order.
func (g *Graph) ProcessAll(ctx context.Context) error {
	for id := slotID(0); id < slotCount; id++ {
		if _, err := g.resolve(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// resolve returns the slot's value, computing it (and its declared
// dependencies) on first access.
func (g *Graph) resolve(ctx context.Context, id slotID) (any, error) {
	if v := g.slots[id]; v != nil {
		return v, nil
	}

	deps := make([]any, 0, len(slotDeps[id]))
	for _, dep := range slotDeps[id] {
		v, err := g.resolve(ctx, dep)
		if err != nil {
			return nil, err
		}
		deps = append(deps, v)
	}

	v, err := g.compute(ctx, id, deps)
	if err != nil {
		return nil, err
	}
	g.slots[id] = v
	return v, nil
}

// compute is the resolver for one slot. deps arrive in the order declared
// by slotDeps.
func (g *Graph) compute(ctx context.Context, id slotID, deps []any) (any, error) {
	switch id {
	case slotOriginal:
		img, err := imaging.Decode(g.path)
		if err != nil {
			return nil, &engine.ComputationError{Stage: engine.StageDecode, Path: g.path, Err: err}
		}
		g.logger.Debug("decoded source image", "path", g.path, "width", img.Width(), "height", img.Height())
		return img, nil

	case slotSegmentation:
		img := deps[0].(*imaging.Image)
		seg, err := g.segmenter.Segment(ctx, img, SegmentationTolerance)
		if err != nil {
			return nil, &engine.ComputationError{Stage: engine.StageSegment, Path: g.path, Err: err}
		}
		return seg, nil

	case slotWoundMasked:
		img := deps[0].(*imaging.Image)
		seg := deps[1].(engine.Segmentation)
		return imaging.Apply(img, seg.Wound), nil

	case slotPeriWoundMask:
		seg := deps[0].(engine.Segmentation)
		expanded := imaging.AndNot(imaging.Dilate(seg.Wound, g.perilesionKernel), seg.Wound)
		subject := imaging.Fill(imaging.Or(seg.Body, seg.Wound))
		return imaging.And(expanded, subject), nil

	case slotPeriWoundMasked:
		img := deps[0].(*imaging.Image)
		mask := deps[1].(*imaging.Mask)
		return imaging.Apply(img, mask), nil

	case slotPredicted:
		img := deps[0].(*imaging.Image)
		seg := deps[1].(engine.Segmentation)
		score, err := g.scorer.Score(ctx, img, seg, ScoreKernel)
		if err != nil {
			return nil, &engine.ComputationError{Stage: engine.StageScore, Path: g.path, Err: err}
		}
		g.logger.Debug("predicted PWAT score", "path", g.path, "score", score)
		return score, nil
	}
	return nil, fmt.Errorf("pipeline: unknown slot %d", id)
}
