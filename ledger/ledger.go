// Package ledger maintains the append-only CSV record of PWAT scores: one
// row per processed image, with a fixed header that is treated as
// load-bearing schema once the file exists.
//
// Appends are serialized with a process-local mutex plus an exclusive file
// lock held across the header check and the write, so concurrent pipeline
// instances targeting the same ledger cannot interleave or race the
// header validation.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/randalmurphal/woundflow/pathcheck"
)

// Header is the fixed column tuple. It must match byte-for-byte on every
// append to an existing ledger. The "predictional" spelling is part of
// the on-disk schema and must not be corrected.
var Header = []string{"image", "clinical_score", "predictional_score", "timestamp"}

// TimestampLayout is the ledger timestamp format.
const TimestampLayout = "2006-01-02_15-04-05"

// Row is one ledger entry.
type Row struct {
	// ImagePath is the source image the scores belong to.
	ImagePath string

	// Clinical is the externally supplied ground-truth score, 0 when absent.
	Clinical float64

	// Predicted is the model estimate.
	Predicted float64

	// Timestamp is when the row was recorded. Append fills it with the
	// current time when zero.
	Timestamp time.Time
}

// SchemaMismatchError reports an existing ledger whose header does not
// match the fixed schema. Nothing is written when this is returned.
type SchemaMismatchError struct {
	Path string
	Got  string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("ledger %s: header %q does not match %q", e.Path, e.Got, headerLine())
}

func headerLine() string { return strings.Join(Header, ",") }

// pathLocks serializes appends to the same ledger within this process.
// The file lock below covers other processes.
var (
	pathLocksMu sync.Mutex
	pathLocks   = make(map[string]*sync.Mutex)
)

func lockFor(path string) *sync.Mutex {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()
	mu, ok := pathLocks[abs]
	if !ok {
		mu = &sync.Mutex{}
		pathLocks[abs] = mu
	}
	return mu
}

// Append adds one row to the ledger at path, creating the file (and its
// parent directories) with the fixed header on first use. If the file
// exists but its first line differs from the header, Append fails with
// *SchemaMismatchError and writes nothing.
func Append(path string, row Row) error {
	if err := pathcheck.ValidateCSVPath(path); err != nil {
		return err
	}
	if row.Timestamp.IsZero() {
		row.Timestamp = time.Now()
	}

	mu := lockFor(path)
	mu.Lock()
	defer mu.Unlock()

	// Lock a sibling file, not the ledger itself: taking the flock would
	// create the ledger and defeat the first-write header logic.
	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("lock ledger %s: %w", path, err)
	}
	defer fl.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeHeader(path); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("stat ledger %s: %w", path, err)
	} else if err := checkHeader(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	record := []string{
		row.ImagePath,
		formatScore(row.Clinical),
		formatScore(row.Predicted),
		row.Timestamp.Format(TimestampLayout),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("append ledger %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append ledger %s: %w", path, err)
	}
	return f.Close()
}

func writeHeader(path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(headerLine()+"\n"), 0o644)
}

func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer f.Close()

	// Read only the first line; the rest of the file is not our business.
	buf := make([]byte, len(headerLine())+2)
	n, _ := f.Read(buf)
	first := string(buf[:n])
	if i := strings.IndexAny(first, "\r\n"); i >= 0 {
		first = first[:i]
	}
	if first != headerLine() {
		return &SchemaMismatchError{Path: path, Got: first}
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadRows parses the ledger at path, skipping the header. It exists for
// batch reporting and tests; the pipeline itself only appends.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(Header) {
			return nil, fmt.Errorf("ledger %s: row has %d columns, want %d", path, len(rec), len(Header))
		}
		clinical, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("ledger %s: clinical score %q: %w", path, rec[1], err)
		}
		predicted, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("ledger %s: predicted score %q: %w", path, rec[2], err)
		}
		ts, err := time.ParseInLocation(TimestampLayout, rec[3], time.Local)
		if err != nil {
			return nil, fmt.Errorf("ledger %s: timestamp %q: %w", path, rec[3], err)
		}
		rows = append(rows, Row{ImagePath: rec[0], Clinical: clinical, Predicted: predicted, Timestamp: ts})
	}
	return rows, nil
}
