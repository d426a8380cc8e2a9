// Package bloom is the frontier's visited-set prefilter: most links on a
// docs page point at pages already visited, and a definite "no" from the
// filter skips the exact map lookup.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "possibly visited" or "definitely not visited" for URLs.
// It is not safe for concurrent use.
type Filter struct {
	bits *bloom.BloomFilter
}

// NewFilter sizes the filter for n URLs at the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{bits: bloom.NewWithEstimates(n, fpRate)}
}

func (f *Filter) Add(url string) {
	f.bits.AddString(url)
}

// MayContain is false only for URLs never added.
func (f *Filter) MayContain(url string) bool {
	return f.bits.TestString(url)
}

// Reset forgets every URL without reallocating.
func (f *Filter) Reset() {
	f.bits.ClearAll()
}
