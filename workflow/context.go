package workflow

import (
	"context"

	"github.com/randalmurphal/woundflow/engine"
)

type serviceContextKey string

const (
	segmenterServiceKey serviceContextKey = "woundflow.segmenter"
	scorerServiceKey    serviceContextKey = "woundflow.scorer"
)

// WithEngines adds the segmentation and scoring engines to the context.
func WithEngines(ctx context.Context, segmenter engine.Segmenter, scorer engine.Scorer) context.Context {
	ctx = context.WithValue(ctx, segmenterServiceKey, segmenter)
	return context.WithValue(ctx, scorerServiceKey, scorer)
}

// SegmenterFromContext extracts the segmenter, or nil if absent.
func SegmenterFromContext(ctx context.Context) engine.Segmenter {
	if s, ok := ctx.Value(segmenterServiceKey).(engine.Segmenter); ok {
		return s
	}
	return nil
}

// ScorerFromContext extracts the scorer, or nil if absent.
func ScorerFromContext(ctx context.Context) engine.Scorer {
	if s, ok := ctx.Value(scorerServiceKey).(engine.Scorer); ok {
		return s
	}
	return nil
}
