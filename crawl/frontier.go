package crawl

import (
	"sync"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/bloom"
)

// Compile-time interface verification.
var _ docsum.URLFrontier = (*Frontier)(nil)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate of the prefilter.
	frontierFalsePositiveRate = 0.01
)

// Frontier is an in-memory FIFO URL frontier with an exact visited set.
// A Bloom filter answers most "not visited" lookups before the map is
// consulted; the map alone decides positives, so a filter false positive
// never causes a page to be skipped.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu      sync.Mutex
	queue   []docsum.QueuedURL
	head    int
	visited map[string]struct{}
	seen    *bloom.Filter
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]struct{}),
		seen:    bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate),
	}
}

// Seed resets the frontier to a single URL at depth 0.
func (f *Frontier) Seed(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queue = []docsum.QueuedURL{{URL: docsum.NormalizeURL(url)}}
	f.head = 0
	f.visited = make(map[string]struct{})
	f.seen.Reset()
}

// Next pops the head of the queue without consulting the visited set.
func (f *Frontier) Next() (docsum.QueuedURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pop()
}

// NextUnvisited pops entries until an unvisited one is found, marks it
// visited and returns it.
func (f *Frontier) NextUnvisited() (docsum.QueuedURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		entry, ok := f.pop()
		if !ok {
			return docsum.QueuedURL{}, false
		}
		if f.markVisited(entry.URL) {
			return entry, true
		}
	}
}

// MarkVisited records url as visited. Returns false if it already was.
func (f *Frontier) MarkVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markVisited(docsum.NormalizeURL(url))
}

// Visited reports whether url has been visited.
// URL fragments are stripped before checking.
func (f *Frontier) Visited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isVisited(docsum.NormalizeURL(url))
}

// EnqueueIfNew appends every URL that has not been visited.
// URLs already waiting in the queue are appended again; the duplicate is
// discarded when it is dequeued.
func (f *Frontier) EnqueueIfNew(urls []string, depth int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int
	for _, u := range urls {
		u = docsum.NormalizeURL(u)
		if f.isVisited(u) {
			continue
		}
		f.queue = append(f.queue, docsum.QueuedURL{URL: u, Depth: depth})
		n++
	}
	return n
}

// Len returns the number of entries in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// VisitedCount returns the number of visited URLs.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// pop removes the head entry. Must be called with mu held.
func (f *Frontier) pop() (docsum.QueuedURL, bool) {
	if f.head >= len(f.queue) {
		return docsum.QueuedURL{}, false
	}
	entry := f.queue[f.head]
	f.queue[f.head] = docsum.QueuedURL{}
	f.head++

	// Reclaim the consumed prefix once it dominates the slice.
	if f.head > 1024 && f.head*2 >= len(f.queue) {
		f.queue = append([]docsum.QueuedURL(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return entry, true
}

// Must be called with mu held.
func (f *Frontier) isVisited(url string) bool {
	if !f.seen.MayContain(url) {
		return false
	}
	_, ok := f.visited[url]
	return ok
}

// Must be called with mu held.
func (f *Frontier) markVisited(url string) bool {
	if f.isVisited(url) {
		return false
	}
	f.visited[url] = struct{}{}
	f.seen.Add(url)
	return true
}
