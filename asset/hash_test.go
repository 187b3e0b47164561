package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/baler/asset"
)

// Known digests for empty input. If one of these changes, every
// previously generated table stops loading, so treat a failure here as a
// breaking change, not a test to update.
const (
	emptyXXHash64 = "ef46db3751d8e999"
	emptyBlake3   = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
)

func TestSum_GoldenEmpty(t *testing.T) {
	got, err := asset.Sum(asset.AlgorithmXXHash64, nil)
	require.NoError(t, err)
	assert.Equal(t, emptyXXHash64, got)

	got, err = asset.Sum(asset.AlgorithmBlake3, nil)
	require.NoError(t, err)
	assert.Equal(t, emptyBlake3, got)
}

func TestSum_Deterministic(t *testing.T) {
	data := []byte("body { color: red }\n")
	for _, algorithm := range []string{asset.AlgorithmXXHash64, asset.AlgorithmBlake3} {
		a, err := asset.Sum(algorithm, data)
		require.NoError(t, err)
		b, err := asset.Sum(algorithm, data)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestSum_UnknownAlgorithm(t *testing.T) {
	_, err := asset.Sum("sha1", []byte("x"))
	assert.Error(t, err)
	assert.Panics(t, func() { asset.MustSum("sha1", []byte("x")) })
}

func TestHashedPathFor(t *testing.T) {
	tests := []struct {
		path string
		hash string
		want string
	}{
		{"css/style.css", "4f9d12ab00000000", "css/style-4f9d12ab.css"},
		{"index.html", "0123456789abcdef", "index-01234567.html"},
		{"LICENSE", "0123456789abcdef", "LICENSE-01234567"},
		{"a.b.c.txt", "deadbeefdeadbeef", "a.b.c-deadbeef.txt"},
		{"short", "abcd", "short-abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, asset.HashedPathFor(tt.path, tt.hash))
		})
	}
}
