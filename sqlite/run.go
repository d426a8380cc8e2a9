package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/docsum"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docsum.RunService = (*RunService)(nil)

// RunService implements docsum.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run.
func (s *RunService) CreateRun(ctx context.Context, run *docsum.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, start_url, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.StartURL, formatTime(run.StartedAt))

	return err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter docsum.RunFilter) ([]*docsum.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, started_at FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*docsum.Run
	for rows.Next() {
		var run docsum.Run
		var startedAt string

		if err := rows.Scan(&run.ID, &run.StartURL, &startedAt); err != nil {
			return nil, err
		}

		run.StartedAt, err = parseTime(startedAt, "started_at")
		if err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// LatestRun returns the most recently started run.
// Returns ENOTFOUND if the database holds no runs.
func (s *RunService) LatestRun(ctx context.Context) (*docsum.Run, error) {
	runs, err := s.FindRuns(ctx, docsum.RunFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, docsum.Errorf(docsum.ENOTFOUND, "no runs recorded")
	}
	return runs[0], nil
}
