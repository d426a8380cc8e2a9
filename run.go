package docsum

import (
	"context"
	"time"
)

// Run is one crawl of a documentation site, as recorded by a database
// mirror of the export.
type Run struct {
	ID        string    `json:"id"`
	StartURL  string    `json:"startUrl"`
	StartedAt time.Time `json:"startedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.StartURL == "" {
		return Errorf(EINVALID, "run start URL required")
	}
	return nil
}

// RunService records crawl runs.
type RunService interface {
	// CreateRun assigns the run an ID and start time and stores it.
	CreateRun(ctx context.Context, run *Run) error

	// FindRuns returns runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID       *string `json:"id"`
	StartURL *string `json:"startUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageService reads back page records stored for a run.
type PageService interface {
	// FindPages returns records matching the filter in export order.
	FindPages(ctx context.Context, filter PageFilter) ([]*PageRecord, error)
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	RunID    *string `json:"runId"`
	URL      *string `json:"url"`
	Degraded *bool   `json:"degraded"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
