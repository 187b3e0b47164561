package devserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/adapters/devserver"
	"go.trai.ch/baler/internal/adapters/logger"
	"go.trai.ch/baler/internal/core/domain"
)

func manifestWith(t *testing.T, assets ...*domain.Asset) *domain.Manifest {
	t.Helper()
	m := domain.NewManifest("xxhash64")
	for _, a := range assets {
		require.NoError(t, m.Add(a))
	}
	return m
}

func textAsset(path, content string) *domain.Asset {
	data := []byte(content)
	return &domain.Asset{
		Path:    path,
		Source:  path,
		MIME:    asset.TypeByPath(path),
		Hash:    asset.MustSum("xxhash64", data),
		Size:    int64(len(data)),
		ModTime: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Data:    data,
	}
}

func TestTableFromManifest(t *testing.T) {
	m := manifestWith(t,
		textAsset("index.html", "<!doctype html>"),
		textAsset("css/style.css", "body { margin: 0; }"),
	)

	table, err := devserver.TableFromManifest(m, "index.html")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	f, ok := table.Lookup("/css/style.css")
	require.True(t, ok)
	assert.Equal(t, "text/css; charset=utf-8", f.MIME)
	assert.Equal(t, []byte("body { margin: 0; }"), f.Bytes())

	// The directory index resolves the bare root path.
	f, ok = table.Lookup("/")
	require.True(t, ok)
	assert.Equal(t, "index.html", f.Path)
}

func TestTableFromManifest_CarriesVariants(t *testing.T) {
	a := textAsset("big.txt", "aaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	a.Encodings = map[string][]byte{asset.EncodingGzip: []byte("gz")}
	m := manifestWith(t, a)

	table, err := devserver.TableFromManifest(m, "index.html")
	require.NoError(t, err)

	f, ok := table.Lookup("big.txt")
	require.True(t, ok)
	variant, ok := f.Variant(asset.EncodingGzip)
	require.True(t, ok)
	assert.Equal(t, []byte("gz"), variant)
}

func TestServer_ServesAndSwaps(t *testing.T) {
	first, err := devserver.TableFromManifest(
		manifestWith(t, textAsset("index.html", "first")), "index.html")
	require.NoError(t, err)

	s := devserver.New(":0", first, logger.New())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/index.html")
	require.NoError(t, err)
	body := readBody(t, res)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "first", body)
	assert.NotEmpty(t, res.Header.Get("ETag"))

	second, err := devserver.TableFromManifest(
		manifestWith(t, textAsset("index.html", "second")), "index.html")
	require.NoError(t, err)
	s.Swap(second)

	res, err = http.Get(ts.URL + "/index.html")
	require.NoError(t, err)
	assert.Equal(t, "second", readBody(t, res))
}

func TestServer_NotFound(t *testing.T) {
	table, err := devserver.TableFromManifest(manifestWith(t), "index.html")
	require.NoError(t, err)

	s := devserver.New(":0", table, logger.New())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/missing.css")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_ListenAndServe_StopsOnCancel(t *testing.T) {
	table, err := devserver.TableFromManifest(manifestWith(t), "index.html")
	require.NoError(t, err)

	s := devserver.New("127.0.0.1:0", table, logger.New())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var (
		mu      sync.Mutex
		batches [][]string
	)
	d := devserver.NewDebouncer(50*time.Millisecond, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, paths)
	})

	d.Add("a.scss")
	d.Add("b.scss")
	d.Add("a.scss")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, batches[0], 2)
	assert.ElementsMatch(t, []string{"a.scss", "b.scss"}, batches[0])
}

func TestDebouncer_FlushDeliversPending(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	d := devserver.NewDebouncer(time.Hour, func(batch []string) {
		mu.Lock()
		defer mu.Unlock()
		paths = batch
	})

	d.Add("x.css")
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"x.css"}, paths)
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "style.scss"), []byte("a"), 0o644))

	var (
		mu   sync.Mutex
		seen []string
	)
	w, err := devserver.NewWatcher(func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, paths...)
	}, logger.New())
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "style.scss"), []byte("b"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, p := range seen {
			if filepath.Base(p) == "style.scss" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}
