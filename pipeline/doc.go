// Package pipeline implements the per-image artifact pipeline.
//
// Core types:
//   - Graph: one source image plus a memoized store of everything derived
//     from it (segmentation, masks, masked composites, PWAT scores)
//   - Kind: the enumerated set of persistable artifacts
//   - Render: pure transform from a resolved Graph to a persistable image
//   - SaveAll: the save-everything facade (eight artifacts + one ledger row)
//   - Preview: render to a transient file, present, delete
//
// A Graph is bound to exactly one source image for its whole lifetime.
// Each derived value is computed at most once; a failed computation
// propagates to the caller and leaves the slot unresolved, so a retry
// re-runs the same computation. Graphs are not safe for concurrent use —
// run one Graph per worker.
//
// Example usage:
//
//	g, err := pipeline.NewGraph("wound.png", segmenter, scorer)
//	if err != nil { ... }
//	if err := pipeline.SaveAll(ctx, g, "out/wound_png", "out/pwat_data.csv", ".png"); err != nil { ... }
package pipeline
