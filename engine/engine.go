// Package engine defines the contracts for the external segmentation and
// scoring models. The models themselves are collaborators supplied by the
// caller; this package only fixes their Go surface and the error type the
// pipeline uses for failures inside the engine layer.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/woundflow/imaging"
)

// Segmentation holds the three per-pixel masks produced by the
// segmentation model. The masks are mutually exclusive by construction of
// the model; the pipeline does not re-validate that.
type Segmentation struct {
	Wound      *imaging.Mask
	Body       *imaging.Mask
	Background *imaging.Mask
}

// Segmenter produces a wound/body/background segmentation of an image.
type Segmenter interface {
	Segment(ctx context.Context, img *imaging.Image, tolerance float64) (Segmentation, error)
}

// Scorer produces a PWAT severity estimate for an image given its
// segmentation. The kernel size is a model knob, not a domain parameter.
type Scorer interface {
	Score(ctx context.Context, img *imaging.Image, seg Segmentation, kernel int) (float64, error)
}

// Computation stages reported by ComputationError.
const (
	StageDecode  = "decode"
	StageSegment = "segment"
	StageScore   = "score"
)

// ComputationError wraps a failure inside the engine layer (decode,
// segmentation or scoring). The originating error is preserved unchanged.
type ComputationError struct {
	Stage string
	Path  string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// IsComputation reports whether err originated in the engine layer.
func IsComputation(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}
