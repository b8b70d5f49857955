package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/woundflow/ledger"
	"github.com/randalmurphal/woundflow/testutil"
)

func TestSaveAllWritesEightFilesAndOneRow(t *testing.T) {
	eng := &testutil.Engine{ScoreValue: 14.75}
	g := newTestGraph(t, eng)
	out := t.TempDir()
	imageDir := filepath.Join(out, "wound_png")
	csvPath := filepath.Join(out, "csv", "pwat_data.csv")

	if err := SaveAll(context.Background(), g, imageDir, csvPath, ".png"); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	entries, err := os.ReadDir(imageDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 8 {
		t.Fatalf("artifact count = %d, want 8", len(entries))
	}
	for _, kind := range Kinds() {
		if _, err := os.Stat(filepath.Join(imageDir, kind.String()+".png")); err != nil {
			t.Errorf("missing artifact %s: %v", kind, err)
		}
	}

	rows, err := ledger.ReadRows(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(rows))
	}
	if rows[0].ImagePath != g.Path() {
		t.Errorf("ledger image = %q, want %q", rows[0].ImagePath, g.Path())
	}
	if rows[0].Predicted != 14.75 {
		t.Errorf("ledger predicted = %v, want 14.75", rows[0].Predicted)
	}
	if rows[0].Clinical != 0 {
		t.Errorf("ledger clinical = %v, want 0 for an absent label", rows[0].Clinical)
	}
}

func TestSaveAllRejectsBadExtension(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	out := t.TempDir()

	err := SaveAll(context.Background(), g, filepath.Join(out, "img"), filepath.Join(out, "d.csv"), ".gif")
	if err == nil {
		t.Fatal("SaveAll with .gif should fail")
	}
	if _, statErr := os.Stat(filepath.Join(out, "img")); !os.IsNotExist(statErr) {
		t.Error("no artifacts should be written for a rejected extension")
	}
}

func TestSaveAllAbortsOnEngineFailure(t *testing.T) {
	eng := &testutil.Engine{ScoreErr: os.ErrDeadlineExceeded}
	g := newTestGraph(t, eng)
	out := t.TempDir()
	imageDir := filepath.Join(out, "img")
	csvPath := filepath.Join(out, "pwat_data.csv")

	if err := SaveAll(context.Background(), g, imageDir, csvPath, ".png"); err == nil {
		t.Fatal("SaveAll should surface the scoring failure")
	}

	// Artifacts before the failing overlay stay on disk; the ledger is
	// never touched.
	if _, err := os.Stat(filepath.Join(imageDir, "original.png")); err != nil {
		t.Errorf("earlier artifacts should remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(imageDir, "pwat_estimation.png")); !os.IsNotExist(err) {
		t.Error("failing artifact should not be written")
	}
	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Error("ledger should not gain a row on failure")
	}
}

func TestSaveArtifactSingleFile(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	path := filepath.Join(t.TempDir(), "out", "wound.jpeg")

	if err := SaveArtifact(context.Background(), g, KindMaskWound, path); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("artifact missing: %v", err)
	}

	if err := SaveArtifact(context.Background(), g, KindMaskWound, "bad.txt"); err == nil {
		t.Error("SaveArtifact to non-image path should fail")
	}
}

type recordingPresenter struct {
	shown []string
	fail  bool
}

func (p *recordingPresenter) Present(ctx context.Context, path, title string) error {
	p.shown = append(p.shown, path)
	if p.fail {
		return os.ErrInvalid
	}
	return nil
}

func TestPreviewDeletesTransientFile(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	tempDir := t.TempDir()
	p := &recordingPresenter{}

	if err := Preview(context.Background(), g, KindOriginal, tempDir, p); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(p.shown) != 1 {
		t.Fatalf("presented %d files, want 1", len(p.shown))
	}
	if _, err := os.Stat(p.shown[0]); !os.IsNotExist(err) {
		t.Error("transient preview file should be deleted")
	}
}

func TestPreviewDeletesEvenWhenPresentFails(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	tempDir := t.TempDir()
	p := &recordingPresenter{fail: true}

	if err := Preview(context.Background(), g, KindOriginal, tempDir, p); err == nil {
		t.Fatal("presenter failure should propagate")
	}
	if _, err := os.Stat(p.shown[0]); !os.IsNotExist(err) {
		t.Error("transient preview file should be deleted on failure")
	}
}

func TestPreviewAllPresentsEveryKindThenCleansUp(t *testing.T) {
	g := newTestGraph(t, &testutil.Engine{})
	tempDir := t.TempDir()
	p := &recordingPresenter{}

	if err := PreviewAll(context.Background(), g, tempDir, p); err != nil {
		t.Fatalf("PreviewAll: %v", err)
	}
	if len(p.shown) != 8 {
		t.Fatalf("presented %d files, want 8", len(p.shown))
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir should be empty after preview, found %d entries", len(entries))
	}
}
