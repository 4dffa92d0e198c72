// JSONL snapshot support: the chart population can be dumped to and loaded
// from a line-delimited JSON file. Operators snapshot the store before a
// batch migration and can restore it wholesale if needed.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/chartshift/pkg/types"
)

// SnapshotFileName is the default JSONL snapshot file name.
const SnapshotFileName = "charts.jsonl"

// chartJSON is the JSONL record format for one chart.
type chartJSON struct {
	ChartID      string `json:"chart_id"`
	Name         string `json:"name"`
	VizType      string `json:"viz_type"`
	Params       string `json:"params"`
	QueryContext string `json:"query_context,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ExportJSONL writes every chart to path as JSONL, one record per line,
// using the atomic temp-file/fsync/rename pattern. Returns the number of
// records written.
func (s *Store) ExportJSONL(path string) (int, error) {
	charts, err := s.Fetch(types.ChartFilter{})
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(charts))
	for _, chart := range charts {
		rec := chartJSON{
			ChartID:      chart.ChartID,
			Name:         chart.Name,
			VizType:      chart.VizType,
			Params:       chart.Params,
			QueryContext: chart.QueryContext,
			CreatedAt:    chart.CreatedAt.Format(timeFormat),
			UpdatedAt:    chart.UpdatedAt.Format(timeFormat),
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("marshaling chart %s: %w", chart.ChartID, err)
		}
		records = append(records, data)
	}

	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportJSONL loads chart records from a JSONL file, replacing charts whose
// IDs already exist. Malformed lines and records without a chart_id are
// skipped. Loading is transactional: all records land or none do. Returns
// the number of records imported.
func (s *Store) ImportJSONL(path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return 0, err
	}

	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT OR REPLACE INTO charts (" + chartColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("preparing import insert: %w", err)
	}
	defer stmt.Close()

	imported := 0
	for _, raw := range records {
		var rec chartJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if rec.ChartID == "" {
			continue
		}
		_, err := stmt.Exec(
			rec.ChartID, rec.Name, rec.VizType, rec.Params, nullable(rec.QueryContext),
			rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("importing chart %s: %w", rec.ChartID, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return imported, nil
}

// readJSONL reads a JSONL file and returns each non-empty, valid-JSON line
// as a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
