package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofrs/flock"
)

// CSVHeader is the column layout of an exported row file.
var CSVHeader = []string{"timestamp", "unitId", "statusCode", "timeMs", "snippet", "error"}

// WriteCSV serializes rows oldest first. The rows argument is expected in
// snapshot order (newest first), matching Aggregator.Snapshot.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		status := ""
		if row.StatusCode != 0 {
			status = strconv.Itoa(row.StatusCode)
		}
		errField := "0"
		if row.Error {
			errField = "1"
		}
		record := []string{
			row.Timestamp.UTC().Format(time.RFC3339Nano),
			strconv.Itoa(row.UnitID),
			status,
			strconv.FormatInt(row.TimeMs, 10),
			row.Snippet,
			errField,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSVRecord converts one non-header CSV record back into a Row.
func ParseCSVRecord(record []string) (Row, error) {
	if len(record) != len(CSVHeader) {
		return Row{}, fmt.Errorf("expected %d fields, got %d", len(CSVHeader), len(record))
	}
	ts, err := time.Parse(time.RFC3339Nano, record[0])
	if err != nil {
		return Row{}, fmt.Errorf("timestamp: %w", err)
	}
	unitID, err := strconv.Atoi(record[1])
	if err != nil {
		return Row{}, fmt.Errorf("unitId: %w", err)
	}
	status := 0
	if record[2] != "" {
		status, err = strconv.Atoi(record[2])
		if err != nil {
			return Row{}, fmt.Errorf("statusCode: %w", err)
		}
	}
	timeMs, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("timeMs: %w", err)
	}
	return Row{
		Timestamp:  ts,
		UnitID:     unitID,
		StatusCode: status,
		TimeMs:     timeMs,
		Snippet:    record[4],
		Error:      record[5] == "1",
	}, nil
}

// ExportFile writes rows to path under an advisory lock, so two runs (or the
// TUI and a headless run) exporting to the same file cannot interleave.
func ExportFile(path string, rows []Row) error {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("export already in progress for %s", path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
