// Package bloom provides URL sets fronted by Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate sizes the filter in front of a URLSet.
const DefaultFalsePositiveRate = 0.01

// URLSet is an exact set of URLs. Lookups first consult a Bloom filter, so
// a URL that was never added is rejected without touching the map.
type URLSet struct {
	filter *bloom.BloomFilter
	urls   map[string]struct{}
}

// NewURLSet creates a set sized for about n URLs. It grows past n at the
// cost of a higher filter false-positive rate.
func NewURLSet(n uint) *URLSet {
	if n == 0 {
		n = 1
	}
	return &URLSet{
		filter: bloom.NewWithEstimates(n, DefaultFalsePositiveRate),
		urls:   make(map[string]struct{}, n),
	}
}

// Add inserts url and reports whether it was new.
func (s *URLSet) Add(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.AddString(url)
	s.urls[url] = struct{}{}
	return true
}

// Contains reports whether url was added.
func (s *URLSet) Contains(url string) bool {
	if !s.filter.TestString(url) {
		return false
	}
	_, ok := s.urls[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s *URLSet) Len() int {
	return len(s.urls)
}
