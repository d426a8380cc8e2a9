package crawl

import (
	"sync"

	"github.com/fwojciec/docsum"
)

// ResultStore is an append-only, insertion-ordered collection of page
// records. Readers receive copies so an export can never observe or
// corrupt later appends.
// It is safe for concurrent use by multiple goroutines.
type ResultStore struct {
	mu      sync.Mutex
	records []docsum.PageRecord
}

// NewResultStore creates an empty ResultStore.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Append adds a record at the end.
func (s *ResultStore) Append(record docsum.PageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// Snapshot returns a copy of all records in insertion order.
func (s *ResultStore) Snapshot() []docsum.PageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]docsum.PageRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
