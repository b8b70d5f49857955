package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/woundflow/notify"
	"github.com/randalmurphal/woundflow/pathcheck"
	"github.com/randalmurphal/woundflow/pipeline"
)

// ErrNoEngines is returned when ProcessNode runs without engines in
// the context.
var ErrNoEngines = errors.New("no segmenter or scorer in context")

// ValidateNode checks the state's paths before any heavy work runs.
//
// Prerequisites: state.ImagePath, state.ImageDir, state.CSVPath,
// state.Extension must be set.
func ValidateNode(ctx flowgraph.Context, state State) (State, error) {
	if err := pathcheck.ValidateImagePath(state.ImagePath); err != nil {
		return state, err
	}
	if err := pathcheck.ValidateCSVPath(state.CSVPath); err != nil {
		return state, err
	}
	if err := pathcheck.ValidateImageExtension(state.Extension); err != nil {
		return state, err
	}
	if state.ImageDir == "" {
		return state, errors.New("image output dir required")
	}
	return state, nil
}

// ProcessNode runs the full artifact pipeline for state.ImagePath and
// persists every artifact plus the ledger row.
//
// Updates: state.Predicted.
func ProcessNode(ctx flowgraph.Context, state State) (State, error) {
	segmenter := SegmenterFromContext(ctx)
	scorer := ScorerFromContext(ctx)
	if segmenter == nil || scorer == nil {
		return state, ErrNoEngines
	}

	opts := []pipeline.Option{}
	if state.Clinical != nil {
		opts = append(opts, pipeline.WithClinicalScore(*state.Clinical))
	}
	if state.PerilesionKernel > 0 {
		opts = append(opts, pipeline.WithPerilesionKernel(state.PerilesionKernel))
	}

	graph, err := pipeline.NewGraph(state.ImagePath, segmenter, scorer, opts...)
	if err != nil {
		return state, err
	}
	if err := pipeline.SaveAll(ctx, graph, state.ImageDir, state.CSVPath, state.Extension); err != nil {
		return state, err
	}

	predicted, err := graph.PredictedScore(ctx)
	if err != nil {
		return state, err
	}
	state.Predicted = predicted
	return state, nil
}

// NotifyNode reports a processed image to the notifier in context.
// Without a notifier it is a no-op.
func NotifyNode(ctx flowgraph.Context, state State) (State, error) {
	notifier := notify.NotifierFromContext(ctx)
	if notifier == nil {
		return state, nil
	}

	event := notify.Event{
		Type:      notify.EventImageProcessed,
		BatchID:   state.BatchID,
		ImagePath: state.ImagePath,
		Message:   fmt.Sprintf("predicted PWAT %.3f", state.Predicted),
		Severity:  notify.SeverityInfo,
		Timestamp: time.Now(),
	}
	if err := notifier.Notify(ctx, event); err != nil {
		// Notification failures never fail the run.
		return state, nil
	}
	return state, nil
}

// WithTiming wraps a node to record its duration in the state.
func WithTiming(node flowgraph.NodeFunc[State]) flowgraph.NodeFunc[State] {
	return func(ctx flowgraph.Context, state State) (State, error) {
		start := time.Now()
		state, err := node(ctx, state)
		state.Duration = time.Since(start)
		return state, err
	}
}

// RunImage executes the validate -> process -> notify graph for one
// image. Engines and an optional notifier are read from ctx.
func RunImage(ctx context.Context, state State) (State, error) {
	graph := flowgraph.NewGraph[State]().
		AddNode("validate", ValidateNode).
		AddNode("process", WithTiming(ProcessNode)).
		AddNode("notify", NotifyNode).
		AddEdge("validate", "process").
		AddEdge("process", "notify").
		AddEdge("notify", flowgraph.END).
		SetEntry("validate")

	compiled, err := graph.Compile()
	if err != nil {
		return state, fmt.Errorf("compile graph: %w", err)
	}
	return compiled.Run(flowgraph.NewContext(ctx), state)
}
