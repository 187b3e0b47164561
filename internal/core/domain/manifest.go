package domain

import (
	"iter"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// Manifest is the canonical collection of assets produced by one build.
// Iteration order is always lexicographic by asset path, independent of
// insertion order, so identical inputs yield identical artifacts.
type Manifest struct {
	algorithm string
	assets    map[string]*Asset
}

// NewManifest creates a new empty Manifest for the given hash algorithm.
func NewManifest(algorithm string) *Manifest {
	return &Manifest{
		algorithm: algorithm,
		assets:    make(map[string]*Asset),
	}
}

// Algorithm returns the name of the content hash algorithm used by the build.
func (m *Manifest) Algorithm() string {
	return m.algorithm
}

// Add adds an asset to the manifest.
// It returns an error if an asset with the same path already exists,
// naming both originating source files.
func (m *Manifest) Add(a *Asset) error {
	if existing, exists := m.assets[a.Path]; exists {
		err := zerr.Wrap(ErrDuplicateAsset, "conflicting output path")
		err = zerr.With(err, "path", a.Path)
		err = zerr.With(err, "source_a", existing.Source)
		return zerr.With(err, "source_b", a.Source)
	}
	m.assets[a.Path] = a
	return nil
}

// Get retrieves the asset stored under the given path.
func (m *Manifest) Get(path string) (*Asset, bool) {
	a, ok := m.assets[path]
	return a, ok
}

// Len returns the number of assets in the manifest.
func (m *Manifest) Len() int {
	return len(m.assets)
}

// Paths returns all asset paths in lexicographic order.
func (m *Manifest) Paths() []string {
	return slices.Sorted(maps.Keys(m.assets))
}

// Assets returns an iterator that yields assets in lexicographic path order.
func (m *Manifest) Assets() iter.Seq[*Asset] {
	return func(yield func(*Asset) bool) {
		for _, path := range m.Paths() {
			if !yield(m.assets[path]) {
				return
			}
		}
	}
}
