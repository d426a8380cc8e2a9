package mock

import (
	"context"

	"github.com/fwojciec/docsum"
)

var _ docsum.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of docsum.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, records []docsum.PageRecord) error
}

func (e *Exporter) Export(ctx context.Context, records []docsum.PageRecord) error {
	return e.ExportFn(ctx, records)
}
