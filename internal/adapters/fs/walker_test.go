package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/baler/internal/adapters/fs"
	"go.trai.ch/baler/internal/core/domain"
)

func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func scanAll(t *testing.T, root string, rules domain.ScanRules) ([]domain.Entry, error) {
	t.Helper()
	var entries []domain.Entry
	for entry, err := range fs.NewWalker().Scan(root, rules) {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func scssRules() domain.ScanRules {
	return domain.ScanRules{
		Preprocess: map[string]string{".scss": "scss"},
		Ignore:     []string{"*.tmp"},
	}
}

func TestWalker_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "<html></html>")
	writeFile(t, root, "css/style.scss", "body{}")
	writeFile(t, root, "css/_vars.scss", "$x: 1;")
	writeFile(t, root, "img/logo.png", "png")
	writeFile(t, root, ".git/config", "git")
	writeFile(t, root, ".hidden", "secret")
	writeFile(t, root, "draft.tmp", "wip")

	entries, err := scanAll(t, root, scssRules())
	require.NoError(t, err)

	var rels []string
	kinds := map[string]domain.Kind{}
	for _, e := range entries {
		rels = append(rels, e.Rel)
		kinds[e.Rel] = e.Kind
	}

	// WalkDir is lexical, so the order is stable across runs.
	assert.Equal(t, []string{"css/_vars.scss", "css/style.scss", "img/logo.png", "index.html"}, rels)
	assert.Equal(t, domain.KindPartial, kinds["css/_vars.scss"])
	assert.Equal(t, domain.KindSource, kinds["css/style.scss"])
	assert.Equal(t, domain.KindAsset, kinds["img/logo.png"])
}

func TestWalker_Scan_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", "b")
	writeFile(t, root, "a/z.txt", "z")
	writeFile(t, root, "a/a.txt", "a")
	writeFile(t, root, "c.txt", "c")

	first, err := scanAll(t, root, domain.ScanRules{})
	require.NoError(t, err)
	second, err := scanAll(t, root, domain.ScanRules{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWalker_Scan_MissingRoot(t *testing.T) {
	_, err := scanAll(t, filepath.Join(t.TempDir(), "nope"), domain.ScanRules{})
	assert.ErrorIs(t, err, domain.ErrScan)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWalker_Scan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", "x")

	_, err := scanAll(t, filepath.Join(root, "file.txt"), domain.ScanRules{})
	assert.ErrorIs(t, err, domain.ErrScan)
}

func TestWalker_Scan_IgnoredDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep/a.txt", "a")
	writeFile(t, root, "node_modules/pkg/index.js", "js")

	entries, err := scanAll(t, root, domain.ScanRules{Ignore: []string{"node_modules"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep/a.txt", entries[0].Rel)
}

func TestWalker_Scan_EarlyStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "b.txt", "b")

	var seen int
	for _, err := range fs.NewWalker().Scan(root, domain.ScanRules{}) {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestWalker_Symlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, root, "real.txt", "real")
	writeFile(t, outside, "secret.txt", "secret")

	require.NoError(t, os.Symlink(
		filepath.Join(root, "real.txt"),
		filepath.Join(root, "link.txt"),
	))

	t.Run("reject policy", func(t *testing.T) {
		_, err := scanAll(t, root, domain.ScanRules{Symlinks: domain.SymlinkReject})
		assert.ErrorIs(t, err, domain.ErrSymlink)
	})

	t.Run("follow policy keeps in-root link", func(t *testing.T) {
		entries, err := scanAll(t, root, domain.ScanRules{Symlinks: domain.SymlinkFollow})
		require.NoError(t, err)

		var rels []string
		for _, e := range entries {
			rels = append(rels, e.Rel)
		}
		assert.Equal(t, []string{"link.txt", "real.txt"}, rels)
	})

	t.Run("follow policy rejects escaping link", func(t *testing.T) {
		escaping := t.TempDir()
		writeFile(t, escaping, "ok.txt", "ok")
		require.NoError(t, os.Symlink(
			filepath.Join(outside, "secret.txt"),
			filepath.Join(escaping, "sneaky.txt"),
		))

		_, err := scanAll(t, escaping, domain.ScanRules{Symlinks: domain.SymlinkFollow})
		assert.ErrorIs(t, err, domain.ErrSymlink)
	})

	t.Run("follow policy rejects broken link", func(t *testing.T) {
		broken := t.TempDir()
		require.NoError(t, os.Symlink(
			filepath.Join(broken, "gone.txt"),
			filepath.Join(broken, "dangling.txt"),
		))

		_, err := scanAll(t, broken, domain.ScanRules{Symlinks: domain.SymlinkFollow})
		assert.Error(t, err)
	})
}
