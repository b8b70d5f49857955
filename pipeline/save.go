package pipeline

import (
	"context"
	"path/filepath"

	"github.com/randalmurphal/woundflow/imaging"
	"github.com/randalmurphal/woundflow/ledger"
	"github.com/randalmurphal/woundflow/pathcheck"
)

// SaveAll renders and writes all eight artifacts under imageDir using the
// fixed naming scheme, then appends exactly one ledger row to csvPath.
// Any failure aborts the remaining writes and the ledger append; files
// already written stay on disk (no rollback).
func SaveAll(ctx context.Context, g *Graph, imageDir, csvPath, extension string) error {
	if err := pathcheck.ValidateImageExtension(extension); err != nil {
		return err
	}

	for _, kind := range Kinds() {
		img, err := Render(ctx, g, kind)
		if err != nil {
			return err
		}
		if err := imaging.Encode(filepath.Join(imageDir, kind.String()+extension), img); err != nil {
			return err
		}
	}

	// Rendering the overlay already resolved the score; this is a cache hit.
	predicted, err := g.PredictedScore(ctx)
	if err != nil {
		return err
	}
	clinical, _ := g.ClinicalScore()

	return ledger.Append(csvPath, ledger.Row{
		ImagePath: g.Path(),
		Clinical:  clinical,
		Predicted: predicted,
	})
}

// SaveArtifact renders and writes a single artifact to path. Used by the
// upload boundary, which returns one artifact per request.
func SaveArtifact(ctx context.Context, g *Graph, kind Kind, path string) error {
	if err := pathcheck.ValidateImagePath(path); err != nil {
		return err
	}
	img, err := Render(ctx, g, kind)
	if err != nil {
		return err
	}
	return imaging.Encode(path, img)
}
