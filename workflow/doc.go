// Package workflow orchestrates wound image processing as flowgraph
// pipelines.
//
// A single image runs through a validate -> process -> notify graph
// (RunImage); RunBatch drives a directory of images through that graph
// with a worker pool, a shared CSV ledger, and per-image progress
// reporting.
//
// Nodes receive their collaborators (segmenter, scorer, notifier)
// through the context rather than as struct fields, so graphs stay
// declarative and tests can swap in stubs.
package workflow
