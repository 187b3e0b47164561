package codegen_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/adapters/codegen"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/zerr"
)

func testConfig(dir string) *domain.Config {
	return &domain.Config{
		Dir:           dir,
		Root:          "assets",
		Out:           "out",
		Package:       "site",
		Index:         "index.html",
		Hash:          asset.AlgorithmXXHash64,
		RequireAssets: true,
	}
}

func fixedManifest(t *testing.T) *domain.Manifest {
	t.Helper()
	m := domain.NewManifest(asset.AlgorithmXXHash64)
	require.NoError(t, m.Add(&domain.Asset{
		Path:    "index.html",
		Source:  "index.html",
		MIME:    "text/html; charset=utf-8",
		Hash:    "0011223344556677",
		Size:    12,
		ModTime: time.Unix(1700000000, 0).UTC(),
		Data:    []byte("<html></html>"),
	}))
	require.NoError(t, m.Add(&domain.Asset{
		Path:      "css/style.css",
		Source:    "css/style.scss",
		MIME:      "text/css; charset=utf-8",
		Hash:      "4f9d12ab4f9d12ab",
		Size:      24,
		ModTime:   time.Unix(1700000000, 0).UTC(),
		Data:      []byte("body {\n  margin: 0;\n}\n"),
		Deps:      []string{"css/_vars.scss"},
		Encodings: map[string][]byte{"gzip": []byte("gzipped")},
	}))
	return m
}

func TestGenerator_GoldenSource(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	require.NoError(t, codegen.NewGenerator().Generate(cfg, fixedManifest(t)))

	source, err := os.ReadFile(filepath.Join(dir, "out", domain.GeneratedFileName))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "assets_gen", source)
}

func TestGenerator_WritesAssetTree(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	require.NoError(t, codegen.NewGenerator().Generate(cfg, fixedManifest(t)))

	filesDir := filepath.Join(dir, "out", domain.FilesDirName)

	html, err := os.ReadFile(filepath.Join(filesDir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(html))

	css, err := os.ReadFile(filepath.Join(filesDir, "css", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body {\n  margin: 0;\n}\n", string(css))

	gz, err := os.ReadFile(filepath.Join(filesDir, "css", "style.css.gz"))
	require.NoError(t, err)
	assert.Equal(t, "gzipped", string(gz))
}

func TestGenerator_Deterministic(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	gen := codegen.NewGenerator()

	require.NoError(t, gen.Generate(cfg, fixedManifest(t)))
	genPath := filepath.Join(dir, "out", domain.GeneratedFileName)
	first, err := os.ReadFile(genPath)
	require.NoError(t, err)
	info1, err := os.Stat(genPath)
	require.NoError(t, err)

	require.NoError(t, gen.Generate(cfg, fixedManifest(t)))
	second, err := os.ReadFile(genPath)
	require.NoError(t, err)
	info2, err := os.Stat(genPath)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical manifests must generate identical bytes")
	assert.Equal(t, info1.ModTime(), info2.ModTime(), "unchanged artifacts must not be rewritten")
}

func TestGenerator_PrunesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	gen := codegen.NewGenerator()

	require.NoError(t, gen.Generate(cfg, fixedManifest(t)))

	// Second build without the css asset.
	m := domain.NewManifest(asset.AlgorithmXXHash64)
	require.NoError(t, m.Add(&domain.Asset{
		Path:    "index.html",
		Source:  "index.html",
		Hash:    "0011223344556677",
		Size:    12,
		ModTime: time.Unix(1700000000, 0).UTC(),
		Data:    []byte("<html></html>"),
	}))
	require.NoError(t, gen.Generate(cfg, m))

	filesDir := filepath.Join(dir, "out", domain.FilesDirName)
	_, err := os.Stat(filepath.Join(filesDir, "css", "style.css"))
	assert.True(t, os.IsNotExist(err), "stale asset must be pruned")
	_, err = os.Stat(filepath.Join(filesDir, "css"))
	assert.True(t, os.IsNotExist(err), "emptied directory must be pruned")
	_, err = os.Stat(filepath.Join(filesDir, "index.html"))
	assert.NoError(t, err)
}

func TestGenerator_EmptyManifest(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	m := domain.NewManifest(asset.AlgorithmXXHash64)

	err := codegen.NewGenerator().Generate(cfg, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGenerate))

	_, statErr := os.Stat(filepath.Join(dir, "out", domain.GeneratedFileName))
	assert.True(t, os.IsNotExist(statErr), "no artifact may be written on failure")

	cfg.RequireAssets = false
	require.NoError(t, codegen.NewGenerator().Generate(cfg, m))
	source, err := os.ReadFile(filepath.Join(dir, "out", domain.GeneratedFileName))
	require.NoError(t, err)
	assert.Contains(t, string(source), "Meta:      nil,")
}

func TestGenerator_IdentifierCollision(t *testing.T) {
	dir := t.TempDir()
	m := domain.NewManifest(asset.AlgorithmXXHash64)
	require.NoError(t, m.Add(&domain.Asset{Path: "a-b.css", Source: "a-b.css", Hash: "00", Data: []byte("x")}))
	require.NoError(t, m.Add(&domain.Asset{Path: "a_b.css", Source: "a_b.css", Hash: "11", Data: []byte("y")}))

	err := codegen.NewGenerator().Generate(testConfig(dir), m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGenerate))

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	meta := zErr.Metadata()
	assert.Equal(t, "a-b.css", meta["path_a"])
	assert.Equal(t, "a_b.css", meta["path_b"])

	_, statErr := os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(statErr), "no artifact may be written on failure")
}

func TestGenerator_RoundTripLoads(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	data := []byte("<html>round trip</html>")
	m := domain.NewManifest(asset.AlgorithmXXHash64)
	require.NoError(t, m.Add(&domain.Asset{
		Path:    "index.html",
		Source:  "index.html",
		Hash:    asset.MustSum(asset.AlgorithmXXHash64, data),
		Size:    int64(len(data)),
		ModTime: time.Unix(1700000000, 0).UTC(),
		Data:    data,
	}))
	require.NoError(t, codegen.NewGenerator().Generate(cfg, m))

	// The generated table construction is exercised directly against the
	// written tree, standing in for the go:embed FS.
	table := asset.MustLoad(os.DirFS(filepath.Join(dir, "out")), domain.FilesDirName, asset.Config{
		Algorithm: asset.AlgorithmXXHash64,
		Index:     "index.html",
		Meta: []asset.Meta{{
			Path:    "index.html",
			Hash:    asset.MustSum(asset.AlgorithmXXHash64, data),
			Size:    int64(len(data)),
			ModTime: 1700000000,
		}},
	})

	f, ok := table.Lookup("/")
	require.True(t, ok)
	assert.Equal(t, data, f.Bytes())
}
