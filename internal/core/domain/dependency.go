package domain

import (
	"maps"
	"slices"
)

// DependencySet accumulates the scan-relative paths a compilation consulted.
// Insertion order does not matter; Sorted returns the canonical view.
type DependencySet struct {
	seen map[string]struct{}
}

// NewDependencySet creates a new empty DependencySet.
func NewDependencySet() *DependencySet {
	return &DependencySet{seen: make(map[string]struct{})}
}

// Add records a dependency path. Adding a path twice is a no-op.
func (s *DependencySet) Add(path string) {
	s.seen[path] = struct{}{}
}

// Has reports whether the path was recorded.
func (s *DependencySet) Has(path string) bool {
	_, ok := s.seen[path]
	return ok
}

// Len returns the number of distinct paths recorded.
func (s *DependencySet) Len() int {
	return len(s.seen)
}

// Sorted returns the recorded paths in lexicographic order.
func (s *DependencySet) Sorted() []string {
	return slices.Sorted(maps.Keys(s.seen))
}
