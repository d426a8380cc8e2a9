package mock

import (
	"context"

	"github.com/fwojciec/docsum"
)

var _ docsum.RunService = (*RunService)(nil)

// RunService is a mock implementation of docsum.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *docsum.Run) error
	FindRunsFn  func(ctx context.Context, filter docsum.RunFilter) ([]*docsum.Run, error)
}

func (m *RunService) CreateRun(ctx context.Context, run *docsum.Run) error {
	return m.CreateRunFn(ctx, run)
}

func (m *RunService) FindRuns(ctx context.Context, filter docsum.RunFilter) ([]*docsum.Run, error) {
	return m.FindRunsFn(ctx, filter)
}

var _ docsum.PageService = (*PageService)(nil)

// PageService is a mock implementation of docsum.PageService.
type PageService struct {
	FindPagesFn func(ctx context.Context, filter docsum.PageFilter) ([]*docsum.PageRecord, error)
}

func (m *PageService) FindPages(ctx context.Context, filter docsum.PageFilter) ([]*docsum.PageRecord, error) {
	return m.FindPagesFn(ctx, filter)
}
