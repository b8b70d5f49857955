package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/woundflow/engine"
	"github.com/randalmurphal/woundflow/notify"
	"github.com/randalmurphal/woundflow/pathcheck"
)

// FailurePolicy decides what a batch does when one image fails.
type FailurePolicy int

const (
	// AbortOnFirstError stops scheduling new images after the first
	// failure and returns it.
	AbortOnFirstError FailurePolicy = iota

	// ContinueAndReport processes every image and collects failures in
	// the result.
	ContinueAndReport
)

// Progress reports one finished image. Err is nil on success.
type Progress struct {
	Done  int
	Total int
	Path  string
	Err   error
}

// BatchConfig configures a directory run.
type BatchConfig struct {
	// InputDir is scanned (non-recursively) for images with valid
	// extensions; other entries are skipped.
	InputDir string

	// OutputDir receives wounds/<image>/ artifact directories and
	// csv/pwat_data.csv.
	OutputDir string

	// Extension is the artifact encoding, ".png" by default.
	Extension string

	// Workers is the number of images processed concurrently.
	// Zero or one means sequential, which also keeps ledger rows in
	// input order.
	Workers int

	// Policy defaults to AbortOnFirstError.
	Policy FailurePolicy

	// Progress, when non-nil, receives one message per finished image.
	// The caller must drain it.
	Progress chan<- Progress

	// BatchID tags notifications. Empty means a generated ID.
	BatchID string

	Segmenter engine.Segmenter
	Scorer    engine.Scorer

	// Notifier, when non-nil, receives batch lifecycle and per-image
	// events.
	Notifier notify.Notifier

	Logger *slog.Logger
}

// BatchResult summarizes a finished batch.
type BatchResult struct {
	// Processed counts images that completed successfully.
	Processed int

	// Failures maps image path to the error that stopped it.
	Failures map[string]error

	// CSVPath is the ledger every successful image appended to.
	CSVPath string
}

// CSVFileName is the ledger name inside OutputDir/csv.
const CSVFileName = "pwat_data.csv"

// RunBatch processes every image in cfg.InputDir through the
// single-image graph.
func RunBatch(ctx context.Context, cfg BatchConfig) (*BatchResult, error) {
	if cfg.Segmenter == nil || cfg.Scorer == nil {
		return nil, ErrNoEngines
	}
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return nil, errors.New("input and output dirs required")
	}
	if cfg.Extension == "" {
		cfg.Extension = ".png"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BatchID == "" {
		id, err := nanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generate batch id: %w", err)
		}
		cfg.BatchID = "batch-" + id
	}

	paths, err := listImages(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	csvPath := filepath.Join(cfg.OutputDir, "csv", CSVFileName)
	result := &BatchResult{Failures: make(map[string]error), CSVPath: csvPath}

	notifyBatch(ctx, cfg, notify.EventBatchStarted, fmt.Sprintf("%d images", len(paths)), notify.SeverityInfo)
	cfg.Logger.Info("batch started", "batchId", cfg.BatchID, "images", len(paths))

	ctx = WithEngines(ctx, cfg.Segmenter, cfg.Scorer)
	if cfg.Notifier != nil {
		ctx = notify.WithNotifier(ctx, cfg.Notifier)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu   sync.Mutex
		done int
	)
	finish := func(path string, err error) {
		mu.Lock()
		if err != nil {
			result.Failures[path] = err
			if cfg.Policy == AbortOnFirstError {
				cancel()
			}
		} else {
			result.Processed++
		}
		done++
		progress := Progress{Done: done, Total: len(paths), Path: path, Err: err}
		mu.Unlock()

		if err != nil {
			cfg.Logger.Error("image failed", "batchId", cfg.BatchID, "path", path, "error", err)
			notifyImage(ctx, cfg, path, err)
		}
		if cfg.Progress != nil {
			cfg.Progress <- progress
		}
	}

	runOne := func(path string) {
		if runCtx.Err() != nil {
			finish(path, runCtx.Err())
			return
		}
		state := NewState(path).WithOutput(woundDir(cfg.OutputDir, path), csvPath)
		state.BatchID = cfg.BatchID
		state.Extension = cfg.Extension
		_, err := RunImage(runCtx, state)
		finish(path, err)
	}

	if cfg.Workers <= 1 {
		for _, path := range paths {
			runOne(path)
		}
	} else {
		queue := make(chan string)
		var wg sync.WaitGroup
		for i := 0; i < cfg.Workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for path := range queue {
					runOne(path)
				}
			}()
		}
		for _, path := range paths {
			queue <- path
		}
		close(queue)
		wg.Wait()
	}

	if len(result.Failures) > 0 {
		notifyBatch(ctx, cfg, notify.EventBatchFailed,
			fmt.Sprintf("%d of %d images failed", len(result.Failures), len(paths)), notify.SeverityError)
		if cfg.Policy == AbortOnFirstError {
			for path, err := range result.Failures {
				if !errors.Is(err, context.Canceled) {
					return result, fmt.Errorf("process %s: %w", path, err)
				}
			}
		}
		return result, nil
	}

	notifyBatch(ctx, cfg, notify.EventBatchCompleted,
		fmt.Sprintf("%d images processed", result.Processed), notify.SeverityInfo)
	cfg.Logger.Info("batch completed", "batchId", cfg.BatchID, "processed", result.Processed)
	return result, nil
}

// listImages returns the sorted valid image paths directly under dir.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if pathcheck.ValidateImagePath(path) != nil {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// woundDir maps an image path to its artifact directory under
// outputDir/wounds. Dots in the file name become underscores so the
// directory name stays unambiguous: "leg.png" -> "leg_png".
func woundDir(outputDir, imagePath string) string {
	name := strings.ReplaceAll(filepath.Base(imagePath), ".", "_")
	return filepath.Join(outputDir, "wounds", name)
}

func notifyBatch(ctx context.Context, cfg BatchConfig, eventType notify.EventType, message string, severity string) {
	if cfg.Notifier == nil {
		return
	}
	event := notify.Event{
		Type:      eventType,
		BatchID:   cfg.BatchID,
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now(),
	}
	if err := cfg.Notifier.Notify(ctx, event); err != nil {
		cfg.Logger.Warn("notify failed", "type", eventType, "error", err)
	}
}

func notifyImage(ctx context.Context, cfg BatchConfig, path string, cause error) {
	if cfg.Notifier == nil {
		return
	}
	event := notify.Event{
		Type:      notify.EventImageFailed,
		BatchID:   cfg.BatchID,
		ImagePath: path,
		Message:   cause.Error(),
		Severity:  notify.SeverityError,
		Timestamp: time.Now(),
	}
	if err := cfg.Notifier.Notify(ctx, event); err != nil {
		cfg.Logger.Warn("notify failed", "type", notify.EventImageFailed, "error", err)
	}
}
