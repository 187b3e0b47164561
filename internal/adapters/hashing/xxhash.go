// Package hashing provides the content hash implementations of ports.Hasher.
package hashing

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/ports"
)

var _ ports.Hasher = (*XXHash)(nil)

// XXHash computes 64-bit xxHash digests rendered as 16 hex characters.
// It is the default algorithm: fast, stable across platforms, and short
// enough to embed in cache-busting file names.
type XXHash struct{}

// NewXXHash creates a new XXHash hasher.
func NewXXHash() *XXHash {
	return &XXHash{}
}

// Name returns the algorithm name.
func (h *XXHash) Name() string {
	return asset.AlgorithmXXHash64
}

// Hash returns the hex digest of data.
func (h *XXHash) Hash(data []byte) string {
	return asset.MustSum(asset.AlgorithmXXHash64, data)
}

// HashInputs returns the digest over parts, each framed by its length.
func (h *XXHash) HashInputs(parts ...[]byte) string {
	hasher := xxhash.New()
	for _, part := range parts {
		_ = binary.Write(hasher, binary.LittleEndian, uint64(len(part)))
		_, _ = hasher.Write(part)
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
