package asset_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/baler/asset"
)

func handlerTable(t *testing.T) *asset.Table {
	t.Helper()
	css := []byte("body{color:#333}")
	table, err := asset.NewTable([]*asset.File{
		newFile(t, "index.html", "<html>home</html>"),
		asset.NewFile("css/style.css", css, asset.FileMeta{
			Hash:     asset.MustSum(asset.AlgorithmXXHash64, css),
			ModTime:  condModTime,
			Variants: map[string][]byte{asset.EncodingGzip: []byte("gz")},
		}),
	})
	require.NoError(t, err)
	return table
}

func get(t *testing.T, h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Get(t *testing.T) {
	h := asset.Handler(handlerTable(t))

	rec := get(t, h, http.MethodGet, "/css/style.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "16", rec.Header().Get("Content-Length"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.NotEmpty(t, rec.Header().Get("Last-Modified"))
	assert.Equal(t, "body{color:#333}", rec.Body.String())
}

func TestHandler_ConditionalRoundTrip(t *testing.T) {
	h := asset.Handler(handlerTable(t))

	first := get(t, h, http.MethodGet, "/index.html", nil)
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := get(t, h, http.MethodGet, "/index.html", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
	assert.Equal(t, etag, second.Header().Get("ETag"))
}

func TestHandler_Head(t *testing.T) {
	h := asset.Handler(handlerTable(t))

	rec := get(t, h, http.MethodHead, "/index.html", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := asset.Handler(handlerTable(t))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := get(t, h, method, "/index.html", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := asset.Handler(handlerTable(t))

	assert.Equal(t, http.StatusNotFound, get(t, h, http.MethodGet, "/missing.css", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, http.MethodGet, "/../etc/passwd", nil).Code)
}

func TestHandler_NotFoundFallback(t *testing.T) {
	fallback := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := asset.Handler(handlerTable(t), asset.WithNotFound(fallback))

	assert.Equal(t, http.StatusTeapot, get(t, h, http.MethodGet, "/missing.css", nil).Code)
}

func TestHandler_HashedAliasImmutable(t *testing.T) {
	table := handlerTable(t)
	h := asset.Handler(table)

	f, ok := table.Lookup("css/style.css")
	require.True(t, ok)

	rec := get(t, h, http.MethodGet, "/"+f.HashedPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
}

func TestHandler_PrecompressedVariant(t *testing.T) {
	h := asset.Handler(handlerTable(t))

	rec := get(t, h, http.MethodGet, "/css/style.css", map[string]string{"Accept-Encoding": "gzip"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "gz", rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get("Content-Length"))
}

func TestHandler_CustomCacheControl(t *testing.T) {
	h := asset.Handler(handlerTable(t), asset.WithCacheControl("public, max-age=60"))

	rec := get(t, h, http.MethodGet, "/index.html", nil)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}
