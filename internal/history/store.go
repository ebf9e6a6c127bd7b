package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/nordgrid/sweload/internal/timeseries"
)

// row matches the parquet schema of the history file.
type row struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"`
	Zone      string  `parquet:"zone"`
	LoadMW    float64 `parquet:"load_mw"`
}

// MalformedTableError reports a history file that exists but cannot be read
// or decoded. It is fatal: halting beats silently discarding history.
type MalformedTableError struct {
	Path string
	Err  error
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed history table %s: %v", e.Path, e.Err)
}

func (e *MalformedTableError) Unwrap() error { return e.Err }

// Store reads and rewrites the whole history table at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store for the parquet file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the history file location.
func (s *Store) Path() string { return s.path }

// Load reads the full table. A missing file is not an error: it reports
// ok=false so the caller can treat the history as absent (first run).
func (s *Store) Load() ([]timeseries.Record, bool, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &MalformedTableError{Path: s.path, Err: err}
	}

	rows, err := parquet.ReadFile[row](s.path)
	if err != nil {
		return nil, false, &MalformedTableError{Path: s.path, Err: err}
	}

	records := make([]timeseries.Record, len(rows))
	for i, r := range rows {
		records[i] = timeseries.Record{
			Time: time.UnixMilli(r.Timestamp).UTC(),
			Zone: timeseries.Zone(r.Zone),
			MW:   r.LoadMW,
		}
	}
	return records, true, nil
}

// Save rewrites the table in full. The new contents go to a temp file in the
// same directory which is then renamed over the target, so a crash mid-write
// cannot truncate the previous table.
func (s *Store) Save(records []timeseries.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	rows := make([]row, len(records))
	for i, rec := range records {
		rows[i] = row{
			Timestamp: rec.Time.UTC().UnixMilli(),
			Zone:      string(rec.Zone),
			LoadMW:    rec.MW,
		}
	}

	tmp := s.path + ".tmp"
	if err := parquet.WriteFile(tmp, rows); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write history table: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace history table: %w", err)
	}
	return nil
}
