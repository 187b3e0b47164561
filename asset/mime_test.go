package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/baler/asset"
)

func TestTypeByPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"index.html", "text/html; charset=utf-8"},
		{"css/style.css", "text/css; charset=utf-8"},
		{"app.js", "text/javascript; charset=utf-8"},
		{"img/logo.SVG", "image/svg+xml"},
		{"fonts/inter.woff2", "font/woff2"},
		{"app.wasm", "application/wasm"},
		{"data.bin", asset.DefaultType},
		{"LICENSE", asset.DefaultType},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, asset.TypeByPath(tt.path))
		})
	}
}

func TestEncodingExt(t *testing.T) {
	ext, ok := asset.EncodingExt(asset.EncodingGzip)
	assert.True(t, ok)
	assert.Equal(t, ".gz", ext)

	ext, ok = asset.EncodingExt(asset.EncodingZstd)
	assert.True(t, ok)
	assert.Equal(t, ".zst", ext)

	_, ok = asset.EncodingExt("br")
	assert.False(t, ok)
}
