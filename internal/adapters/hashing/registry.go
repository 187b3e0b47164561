package hashing

import (
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
)

// New returns the hasher registered under the given algorithm name.
func New(name string) (ports.Hasher, error) {
	switch name {
	case asset.AlgorithmXXHash64:
		return NewXXHash(), nil
	case asset.AlgorithmBlake3:
		return NewBlake3(), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown hash algorithm"), "hash", name)
	}
}

// Algorithms returns the names of all registered algorithms.
func Algorithms() []string {
	return []string{asset.AlgorithmXXHash64, asset.AlgorithmBlake3}
}
