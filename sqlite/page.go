package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/docsum"
)

// Compile-time interface verification.
var (
	_ docsum.Exporter    = (*PageExporter)(nil)
	_ docsum.PageService = (*PageService)(nil)
)

// PageExporter mirrors the records of one run into the pages table.
type PageExporter struct {
	db    *DB
	runID string
}

// NewPageExporter creates a PageExporter writing rows for runID.
func NewPageExporter(db *DB, runID string) *PageExporter {
	return &PageExporter{db: db, runID: runID}
}

// Export replaces every row of the run with records inside one transaction,
// so readers see either the previous snapshot or the new one.
func (e *PageExporter) Export(ctx context.Context, records []docsum.PageRecord) error {
	if e.runID == "" {
		return docsum.Errorf(docsum.EINVALID, "run ID required")
	}
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE run_id = ?", e.runID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (run_id, url, title, summary, summary_degraded, content_hash, position, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, url) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			summary_degraded = excluded.summary_degraded,
			content_hash = excluded.content_hash,
			last_updated = excluded.last_updated
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, e.runID, r.URL, r.Title, r.Summary,
			r.SummaryDegraded, r.ContentHash, i, formatTime(r.LastUpdated)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// PageService implements docsum.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// FindPages retrieves page records matching the filter in export order.
func (s *PageService) FindPages(ctx context.Context, filter docsum.PageFilter) ([]*docsum.PageRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT url, title, summary, summary_degraded, content_hash, last_updated FROM pages WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Degraded != nil {
		query.WriteString(" AND summary_degraded = ?")
		args = append(args, *filter.Degraded)
	}

	query.WriteString(" ORDER BY run_id, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*docsum.PageRecord
	for rows.Next() {
		var page docsum.PageRecord
		var lastUpdated string

		if err := rows.Scan(&page.URL, &page.Title, &page.Summary, &page.SummaryDegraded,
			&page.ContentHash, &lastUpdated); err != nil {
			return nil, err
		}

		page.LastUpdated, err = parseTime(lastUpdated, "last_updated")
		if err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}
