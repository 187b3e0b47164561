package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
}

func TestRun_Build(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "index.html"), []byte("<!doctype html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "baler.yaml"), []byte("version: \"1\"\nroot: assets\n"), 0o600))

	chdir(t, dir)

	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()
	os.Args = []string{"baler", "build"}

	exitCode := run()
	assert.Equal(t, 0, exitCode)

	assert.FileExists(t, filepath.Join(dir, "internal", "site", "assets_gen.go"))
	assert.FileExists(t, filepath.Join(dir, "internal", "site", "files", "index.html"))
}

func TestRun_MissingConfig(t *testing.T) {
	chdir(t, t.TempDir())

	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()
	os.Args = []string{"baler", "build"}

	exitCode := run()
	assert.Equal(t, 1, exitCode)
}
