package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrBadRow is returned when a results row has the wrong number of fields.
var ErrBadRow = errors.New("malformed results row")

// Outcome reports whether a save succeeded. Save failures are never fatal.
type Outcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Save appends records to the CSV file at path, creating the file and its
// directory as needed. The header is written only when the file is new.
func Save(path string, records []Record) Outcome {
	if err := appendCSV(path, records); err != nil {
		slog.Warn("results save failed", "path", path, "error", err)
		return Outcome{Message: fmt.Sprintf("Save failed: %v", err)}
	}
	slog.Info("results saved", "path", path, "records", len(records))
	return Outcome{OK: true, Message: fmt.Sprintf("Results saved to %s", path)}
}

func appendCSV(path string, records []Record) error {
	_, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat results file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create results directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	return f.Close()
}

// Load reads every record from a results file written by Save.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	recs := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		r, err := ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, r)
	}
	return recs, nil
}
