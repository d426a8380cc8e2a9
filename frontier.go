package docsum

import "context"

// QueuedURL is a frontier entry.
type QueuedURL struct {
	URL string

	// Depth is the number of links followed from the seed (seed = 0).
	Depth int
}

// URLFrontier manages the crawl queue and the visited set.
// The queue may hold duplicates and already-visited URLs; the visited set
// is authoritative and is consulted when entries are dequeued.
type URLFrontier interface {
	// Seed resets the frontier to a single URL at depth 0.
	Seed(url string)

	// Next pops the head of the queue without consulting the visited set.
	// Returns false if the queue is empty.
	Next() (QueuedURL, bool)

	// NextUnvisited pops entries until it finds one that has not been
	// visited, marks it visited and returns it.
	// Returns false once the queue is exhausted.
	NextUnvisited() (QueuedURL, bool)

	// MarkVisited records url as visited.
	// Returns false if it was already visited.
	MarkVisited(url string) bool

	// Visited reports whether url has been visited.
	Visited(url string) bool

	// EnqueueIfNew appends every URL that has not been visited at the given depth.
	// Returns the number of URLs appended.
	EnqueueIfNew(urls []string, depth int) int

	// Len returns the number of entries in the queue.
	Len() int

	// VisitedCount returns the number of visited URLs.
	VisitedCount() int
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
