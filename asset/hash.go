package asset

import (
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"go.trai.ch/zerr"
)

// Content hash algorithms understood by generated tables.
const (
	// AlgorithmXXHash64 is the default: a 64-bit xxHash digest as 16 hex characters.
	AlgorithmXXHash64 = "xxhash64"

	// AlgorithmBlake3 is a 256-bit BLAKE3 digest as 64 hex characters.
	AlgorithmBlake3 = "blake3"
)

// shortHashLen is the number of hex characters embedded in a hashed path.
const shortHashLen = 8

// Sum returns the hex digest of data under the named algorithm.
// Digests depend only on the bytes, never on platform or process state.
func Sum(algorithm string, data []byte) (string, error) {
	switch algorithm {
	case AlgorithmXXHash64:
		return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
	case AlgorithmBlake3:
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", zerr.With(zerr.New("unknown hash algorithm"), "algorithm", algorithm)
	}
}

// MustSum is like Sum but panics on an unknown algorithm.
func MustSum(algorithm string, data []byte) string {
	digest, err := Sum(algorithm, data)
	if err != nil {
		panic(fmt.Sprintf("asset: %v", err))
	}
	return digest
}

// HashedPathFor returns the cache-busting alias for a path: the first
// shortHashLen characters of hash are inserted before the extension,
// so "css/style.css" becomes "css/style-4f9d12ab.css". Files without an
// extension get the hash appended to the name.
func HashedPathFor(p, hash string) string {
	short := hash
	if len(short) > shortHashLen {
		short = short[:shortHashLen]
	}
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext) + "-" + short + ext
}
