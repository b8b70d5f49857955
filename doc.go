// Package woundflow provides the wound-photo analysis pipeline: derived
// image artifacts, PWAT severity scoring, and a durable score ledger.
//
// The package is organized into subpackages by domain:
//
//   - pathcheck: lexical validation of image and CSV paths
//   - imaging: pixel buffers, masks, morphology, contour and text drawing
//   - engine: segmentation and scoring engine contracts
//   - pipeline: the memoized per-image artifact graph, renderer, and save/preview facade
//   - ledger: append-only CSV score ledger with strict header enforcement
//   - workflow: flowgraph-based per-image workflow and batch driver
//   - notify: notification services (webhook, log)
//   - config: explicit process configuration
//   - auth: API keys and bearer tokens for the HTTP boundary
//   - httpapi: upload-and-process HTTP boundary
//   - templates: embedded upload pages
//   - cleanup: delayed best-effort temp file removal
//   - testutil: test fixtures and engine stubs
//
// # Quick Start
//
//	import "github.com/randalmurphal/woundflow/pipeline"
//
//	g, _ := pipeline.NewGraph("wound.png", segmenter, scorer)
//	score, _ := g.PredictedScore(ctx)
//	_ = pipeline.SaveAll(ctx, g, "out/wound_png", "out/pwat_data.csv", ".png")
//
// See individual package documentation for detailed usage.
package woundflow
