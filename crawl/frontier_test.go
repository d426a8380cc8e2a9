package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_Seed(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Seed("http://localhost:3000/docs/")

	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 0, f.VisitedCount())

	entry, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, docsum.QueuedURL{URL: "http://localhost:3000/docs/", Depth: 0}, entry)
}

func TestFrontier_Seed_resets_state(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Seed("http://localhost:3000/docs/")
	f.MarkVisited("http://localhost:3000/docs/a")
	f.EnqueueIfNew([]string{"http://localhost:3000/docs/b"}, 1)

	f.Seed("http://localhost:3000/docs/")

	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 0, f.VisitedCount())
	assert.False(t, f.Visited("http://localhost:3000/docs/a"))
}

func TestFrontier_Next_is_FIFO(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Seed("http://localhost:3000/docs/")
	f.EnqueueIfNew([]string{"http://localhost:3000/docs/a", "http://localhost:3000/docs/b"}, 1)

	var got []string
	for {
		entry, ok := f.Next()
		if !ok {
			break
		}
		got = append(got, entry.URL)
	}

	assert.Equal(t, []string{
		"http://localhost:3000/docs/",
		"http://localhost:3000/docs/a",
		"http://localhost:3000/docs/b",
	}, got)
}

func TestFrontier_Next_returns_false_when_empty(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	_, ok := f.Next()
	assert.False(t, ok)
}

func TestFrontier_MarkVisited_is_idempotent(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	assert.True(t, f.MarkVisited("http://localhost:3000/docs/a"))
	assert.False(t, f.MarkVisited("http://localhost:3000/docs/a"))
	assert.False(t, f.MarkVisited("http://localhost:3000/docs/a#section"))
	assert.Equal(t, 1, f.VisitedCount())
}

func TestFrontier_EnqueueIfNew(t *testing.T) {
	t.Parallel()

	t.Run("skips visited URLs", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		f.MarkVisited("http://localhost:3000/docs/a")

		n := f.EnqueueIfNew([]string{"http://localhost:3000/docs/a", "http://localhost:3000/docs/b"}, 1)

		assert.Equal(t, 1, n)
		assert.Equal(t, 1, f.Len())
	})

	t.Run("tolerates duplicates already in queue", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		f.EnqueueIfNew([]string{"http://localhost:3000/docs/a"}, 1)
		n := f.EnqueueIfNew([]string{"http://localhost:3000/docs/a"}, 2)

		assert.Equal(t, 1, n)
		assert.Equal(t, 2, f.Len())
	})

	t.Run("strips fragments", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		f.EnqueueIfNew([]string{"http://localhost:3000/docs/a#intro"}, 3)

		entry, ok := f.Next()
		require.True(t, ok)
		assert.Equal(t, "http://localhost:3000/docs/a", entry.URL)
		assert.Equal(t, 3, entry.Depth)
	})
}

func TestFrontier_NextUnvisited(t *testing.T) {
	t.Parallel()

	t.Run("discards duplicates lazily and marks visited", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		f.Seed("http://localhost:3000/docs/a")
		f.EnqueueIfNew([]string{"http://localhost:3000/docs/a", "http://localhost:3000/docs/b", "http://localhost:3000/docs/a"}, 1)

		first, ok := f.NextUnvisited()
		require.True(t, ok)
		assert.Equal(t, "http://localhost:3000/docs/a", first.URL)
		assert.True(t, f.Visited("http://localhost:3000/docs/a"))

		second, ok := f.NextUnvisited()
		require.True(t, ok)
		assert.Equal(t, "http://localhost:3000/docs/b", second.URL)

		_, ok = f.NextUnvisited()
		assert.False(t, ok)
		assert.Equal(t, 0, f.Len())
		assert.Equal(t, 2, f.VisitedCount())
	})

	t.Run("drains long queues", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		urls := make([]string, 5000)
		for i := range urls {
			urls[i] = fmt.Sprintf("http://localhost:3000/docs/page-%d", i)
		}
		f.EnqueueIfNew(urls, 1)

		for i := range urls {
			entry, ok := f.NextUnvisited()
			require.True(t, ok)
			require.Equal(t, urls[i], entry.URL)
		}
		_, ok := f.NextUnvisited()
		assert.False(t, ok)
	})
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				url := fmt.Sprintf("http://localhost:3000/docs/%d/%d", i, j)
				f.EnqueueIfNew([]string{url}, 1)
				f.Visited(url)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, f.Len())

	var processed int
	for {
		if _, ok := f.NextUnvisited(); !ok {
			break
		}
		processed++
	}
	assert.Equal(t, 1000, processed)
}
