package crawl_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/crawl"
	"github.com/stretchr/testify/assert"
)

func TestResultStore_Append_preserves_order(t *testing.T) {
	t.Parallel()

	s := crawl.NewResultStore()
	s.Append(docsum.PageRecord{URL: "/docs/"})
	s.Append(docsum.PageRecord{URL: "/docs/b"})
	s.Append(docsum.PageRecord{URL: "/docs/a"})

	snap := s.Snapshot()

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "/docs/", snap[0].URL)
	assert.Equal(t, "/docs/b", snap[1].URL)
	assert.Equal(t, "/docs/a", snap[2].URL)
}

func TestResultStore_Snapshot_is_a_copy(t *testing.T) {
	t.Parallel()

	s := crawl.NewResultStore()
	s.Append(docsum.PageRecord{URL: "/docs/", Title: "Docs", LastUpdated: time.Now()})

	snap := s.Snapshot()
	snap[0].Title = "mutated"
	s.Append(docsum.PageRecord{URL: "/docs/next"})

	assert.Len(t, snap, 1)
	assert.Equal(t, "Docs", s.Snapshot()[0].Title)
}

func TestResultStore_Snapshot_empty(t *testing.T) {
	t.Parallel()

	s := crawl.NewResultStore()

	assert.NotNil(t, s.Snapshot())
	assert.Empty(t, s.Snapshot())
}

func TestResultStore_concurrent_append_and_snapshot(t *testing.T) {
	t.Parallel()

	s := crawl.NewResultStore()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 500 {
			s.Append(docsum.PageRecord{URL: fmt.Sprintf("/docs/%d", i)})
		}
	}()
	go func() {
		defer wg.Done()
		for range 100 {
			snap := s.Snapshot()
			for i, r := range snap {
				assert.Equal(t, fmt.Sprintf("/docs/%d", i), r.URL)
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, 500, s.Len())
}
