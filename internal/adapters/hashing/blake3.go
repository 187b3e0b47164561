package hashing

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/ports"
)

var _ ports.Hasher = (*Blake3)(nil)

// Blake3 computes 256-bit BLAKE3 digests rendered as 64 hex characters.
// Use it when the fingerprint doubles as an integrity check and collision
// resistance matters more than digest length.
type Blake3 struct{}

// NewBlake3 creates a new Blake3 hasher.
func NewBlake3() *Blake3 {
	return &Blake3{}
}

// Name returns the algorithm name.
func (h *Blake3) Name() string {
	return asset.AlgorithmBlake3
}

// Hash returns the hex digest of data.
func (h *Blake3) Hash(data []byte) string {
	return asset.MustSum(asset.AlgorithmBlake3, data)
}

// HashInputs returns the digest over parts, each framed by its length.
func (h *Blake3) HashInputs(parts ...[]byte) string {
	hasher := blake3.New()
	var frame [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(frame[:], uint64(len(part)))
		_, _ = hasher.Write(frame[:])
		_, _ = hasher.Write(part)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
