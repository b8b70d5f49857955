package pipeline

import (
	"context"
	"os"
	"path/filepath"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Presenter displays a rendered artifact file to a human. Implementations
// live with the caller (GUI window, system image viewer, test stub).
type Presenter interface {
	Present(ctx context.Context, path, title string) error
}

// Preview renders one artifact into tempDir, presents it, then deletes
// the transient file. Deletion happens even when presenting fails.
func Preview(ctx context.Context, g *Graph, kind Kind, tempDir string, p Presenter) error {
	id, err := nanoid.New()
	if err != nil {
		return err
	}

	path := filepath.Join(tempDir, id+".png")
	if err := SaveArtifact(ctx, g, kind, path); err != nil {
		return err
	}
	defer os.Remove(path)

	return p.Present(ctx, path, kind.String())
}

// PreviewAll saves every artifact (plus a throwaway ledger) into a fresh
// subdirectory of tempDir, presents each artifact in save order, and
// removes the whole subdirectory afterwards.
func PreviewAll(ctx context.Context, g *Graph, tempDir string, p Presenter) error {
	id, err := nanoid.New()
	if err != nil {
		return err
	}

	dir := filepath.Join(tempDir, id)
	csvPath := filepath.Join(dir, "pwat_data.csv")
	if err := SaveAll(ctx, g, dir, csvPath, ".png"); err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	for _, kind := range Kinds() {
		if err := p.Present(ctx, filepath.Join(dir, kind.String()+".png"), kind.String()); err != nil {
			return err
		}
	}
	return nil
}
