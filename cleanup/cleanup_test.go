package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitGone(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s still exists", path)
}

func TestFileRemovedAfterDelay(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Stop()

	path := filepath.Join(t.TempDir(), "tmp.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s.File(path, 10*time.Millisecond)

	if _, err := os.Stat(path); err != nil {
		t.Fatal("file should still exist immediately after scheduling")
	}
	waitGone(t, path)
}

func TestDirRemovedAfterDelay(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Stop()

	dir := filepath.Join(t.TempDir(), "work")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	s.Dir(dir, 10*time.Millisecond)
	waitGone(t, dir)
}

func TestMissingFileIsNoOp(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Stop()

	// Nothing to assert beyond "does not panic or log-spam": removal of
	// an absent path is success.
	s.File(filepath.Join(t.TempDir(), "never-existed.png"), time.Millisecond)
	time.Sleep(20 * time.Millisecond)
}

func TestStopCancelsPending(t *testing.T) {
	s := NewScheduler(nil)

	path := filepath.Join(t.TempDir(), "keep.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s.File(path, 50*time.Millisecond)
	s.Stop()

	time.Sleep(100 * time.Millisecond)
	if _, err := os.Stat(path); err != nil {
		t.Error("stopped scheduler should not delete")
	}
}
