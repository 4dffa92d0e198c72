// Chart row operations for the SQLite store: hydration between rows and
// *types.Chart, single-record CRUD, filtered selection, and the batched
// fetch/update pair the migration driver commits pages through.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/chartshift/pkg/types"
)

const chartColumns = "chart_id, name, viz_type, params, query_context, created_at, updated_at"

// timeFormat is the timestamp encoding for the created_at/updated_at columns
// and JSONL snapshots.
const timeFormat = time.RFC3339

// Get retrieves a chart by ID.
func (s *Store) Get(id string) (*types.Chart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := s.db.QueryRow(
		"SELECT "+chartColumns+" FROM charts WHERE chart_id = ?", id,
	)
	chart, err := hydrateChart(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting chart %s: %w", id, err)
	}
	return chart, nil
}

// Set persists a chart. If id is empty, generates a UUID v7 and creates the
// chart; otherwise updates the existing chart. Returns the actual ID used.
func (s *Store) Set(id string, chart *types.Chart) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return "", err
	}
	if chart.Name == "" {
		return "", types.ErrInvalidName
	}

	now := time.Now().UTC()

	if id == "" {
		newID, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		chart.ChartID = newID.String()
		chart.CreatedAt = now
		id = chart.ChartID
	} else {
		chart.ChartID = id
	}
	chart.UpdatedAt = now

	var exists bool
	err := s.db.QueryRow("SELECT 1 FROM charts WHERE chart_id = ?", id).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking chart existence: %w", err)
	}

	if exists {
		_, err = s.db.Exec(
			"UPDATE charts SET name = ?, viz_type = ?, params = ?, query_context = ?, updated_at = ? WHERE chart_id = ?",
			chart.Name, chart.VizType, chart.Params, nullable(chart.QueryContext),
			chart.UpdatedAt.Format(timeFormat), id,
		)
	} else {
		if chart.CreatedAt.IsZero() {
			chart.CreatedAt = now
		}
		_, err = s.db.Exec(
			"INSERT INTO charts ("+chartColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, chart.Name, chart.VizType, chart.Params, nullable(chart.QueryContext),
			chart.CreatedAt.Format(timeFormat), chart.UpdatedAt.Format(timeFormat),
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting chart: %w", err)
	}
	return id, nil
}

// Delete removes a chart by ID. Returns ErrNotFound for unknown IDs.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := s.db.Exec("DELETE FROM charts WHERE chart_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting chart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns all charts matching the filter, oldest first.
func (s *Store) Fetch(filter types.ChartFilter) ([]*types.Chart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT " + chartColumns + " FROM charts" + filterClause(filter)
	rows, err := s.db.Query(query, filterArgs(filter)...)
	if err != nil {
		return nil, fmt.Errorf("fetching charts: %w", err)
	}
	defer rows.Close()

	charts := []*types.Chart{}
	for rows.Next() {
		chart, err := hydrateChart(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating chart: %w", err)
		}
		charts = append(charts, chart)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating charts: %w", err)
	}
	return charts, nil
}

// FetchIDs returns the IDs of all charts matching the filter, in Fetch order.
func (s *Store) FetchIDs(filter types.ChartFilter) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT chart_id FROM charts" + filterClause(filter)
	rows, err := s.db.Query(query, filterArgs(filter)...)
	if err != nil {
		return nil, fmt.Errorf("fetching chart IDs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chart ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chart IDs: %w", err)
	}
	return ids, nil
}

// Count returns the number of charts matching the filter.
func (s *Store) Count(filter types.ChartFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return 0, err
	}

	// Limit/offset do not apply to counting.
	filter.Limit = 0
	filter.Offset = 0

	var n int
	query := "SELECT COUNT(*) FROM charts" + whereClause(filter)
	if err := s.db.QueryRow(query, filterArgs(filter)...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting charts: %w", err)
	}
	return n, nil
}

// GetBatch retrieves charts by ID, preserving input order. Missing IDs are
// skipped: a chart deleted between selection and processing is not an error.
func (s *Store) GetBatch(ids []string) ([]*types.Chart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*types.Chart{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := "SELECT " + chartColumns + " FROM charts WHERE chart_id IN (" +
		strings.Join(placeholders, ", ") + ")"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching chart batch: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*types.Chart, len(ids))
	for rows.Next() {
		chart, err := hydrateChart(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating chart: %w", err)
		}
		byID[chart.ChartID] = chart
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chart batch: %w", err)
	}

	charts := make([]*types.Chart, 0, len(byID))
	for _, id := range ids {
		if chart, ok := byID[id]; ok {
			charts = append(charts, chart)
		}
	}
	return charts, nil
}

// UpdateBatch persists mutations to the given charts in one transaction.
// Either every chart is updated or none is.
func (s *Store) UpdateBatch(charts []*types.Chart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	if len(charts) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"UPDATE charts SET name = ?, viz_type = ?, params = ?, query_context = ?, updated_at = ? WHERE chart_id = ?",
	)
	if err != nil {
		return fmt.Errorf("preparing batch update: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, chart := range charts {
		chart.UpdatedAt = now
		res, err := stmt.Exec(
			chart.Name, chart.VizType, chart.Params, nullable(chart.QueryContext),
			now.Format(timeFormat), chart.ChartID,
		)
		if err != nil {
			return fmt.Errorf("updating chart %s: %w", chart.ChartID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update result for %s: %w", chart.ChartID, err)
		}
		if n == 0 {
			return fmt.Errorf("updating chart %s: %w", chart.ChartID, types.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// whereClause builds the WHERE portion for a filter, without ordering.
func whereClause(filter types.ChartFilter) string {
	var conditions []string
	if filter.VizType != "" {
		conditions = append(conditions, "viz_type = ?")
	}
	if filter.ParamsContain != "" {
		conditions = append(conditions, "params LIKE ?")
	}
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// filterClause builds WHERE + ORDER BY + LIMIT/OFFSET for a filter.
func filterClause(filter types.ChartFilter) string {
	clause := whereClause(filter) + " ORDER BY created_at ASC, chart_id ASC"
	if filter.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}
	return clause
}

// filterArgs returns the bind arguments matching whereClause.
func filterArgs(filter types.ChartFilter) []any {
	var args []any
	if filter.VizType != "" {
		args = append(args, filter.VizType)
	}
	if filter.ParamsContain != "" {
		args = append(args, "%"+filter.ParamsContain+"%")
	}
	return args
}

// nullable maps an empty string to SQL NULL for the query_context column.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// hydrateChart converts one row into a *types.Chart. The scan argument
// works for both sql.Row and sql.Rows.
func hydrateChart(scan func(dest ...any) error) (*types.Chart, error) {
	var c types.Chart
	var queryContext sql.NullString
	var createdAt, updatedAt string
	if err := scan(&c.ChartID, &c.Name, &c.VizType, &c.Params, &queryContext, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.QueryContext = queryContext.String

	var err error
	c.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(timeFormat, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
