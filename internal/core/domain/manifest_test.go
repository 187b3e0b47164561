package domain_test

import (
	"errors"
	"slices"
	"testing"

	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestManifest_Add(t *testing.T) {
	m := domain.NewManifest("xxhash64")
	a := domain.Asset{Path: "css/style.css", Source: "css/style.scss"}

	if err := m.Add(&a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := domain.Asset{Path: "css/style.css", Source: "css/style.css"}
	if err := m.Add(&dup); err == nil {
		t.Error("expected error when adding duplicate path, got nil")
	} else {
		if !errors.Is(err, domain.ErrDuplicateAsset) {
			t.Errorf("expected ErrDuplicateAsset in chain, got %v", err)
		}
		var zErr *zerr.Error
		ok := errors.As(err, &zErr)
		if !ok {
			t.Errorf("expected *zerr.Error, got %T", err)
		}
		meta := zErr.Metadata()
		if path, ok := meta["path"].(string); !ok || path != "css/style.css" {
			t.Errorf("expected metadata path=css/style.css, got %v", meta["path"])
		}
		if src, ok := meta["source_a"].(string); !ok || src != "css/style.scss" {
			t.Errorf("expected metadata source_a=css/style.scss, got %v", meta["source_a"])
		}
		if src, ok := meta["source_b"].(string); !ok || src != "css/style.css" {
			t.Errorf("expected metadata source_b=css/style.css, got %v", meta["source_b"])
		}
	}

	if m.Len() != 1 {
		t.Errorf("expected manifest to keep the first asset only, got len %d", m.Len())
	}
}

func TestManifest_IterationOrder(t *testing.T) {
	m := domain.NewManifest("xxhash64")
	for _, path := range []string{"z.txt", "a/b.css", "img/logo.svg", "a.txt", "a/a.css"} {
		if err := m.Add(&domain.Asset{Path: path, Source: path}); err != nil {
			t.Fatalf("failed to add %s: %v", path, err)
		}
	}

	want := []string{"a.txt", "a/a.css", "a/b.css", "img/logo.svg", "z.txt"}
	if got := m.Paths(); !slices.Equal(got, want) {
		t.Errorf("expected paths %v, got %v", want, got)
	}

	var iterated []string
	for a := range m.Assets() {
		iterated = append(iterated, a.Path)
	}
	if !slices.Equal(iterated, want) {
		t.Errorf("expected iteration order %v, got %v", want, iterated)
	}
}

func TestManifest_Get(t *testing.T) {
	m := domain.NewManifest("blake3")
	if err := m.Add(&domain.Asset{Path: "index.html", Source: "index.html"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a, ok := m.Get("index.html"); !ok || a.Path != "index.html" {
		t.Errorf("expected to find index.html, got %v, %v", a, ok)
	}
	if _, ok := m.Get("missing.html"); ok {
		t.Error("expected missing path to report not found")
	}
	if m.Algorithm() != "blake3" {
		t.Errorf("expected algorithm blake3, got %s", m.Algorithm())
	}
}
