package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.trai.ch/baler/internal/adapters/cache"
	"go.trai.ch/baler/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	store, err := cache.NewStore(filepath.Join(t.TempDir(), ".baler"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	info := domain.CompileInfo{
		Source:     "css/style.scss",
		InputHash:  "abc",
		OutputHash: "def",
		Deps:       []string{"css/_vars.scss"},
		Timestamp:  time.Now(),
	}

	if err := store.Put(info); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("css/style.scss")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.InputHash != "abc" || got.OutputHash != "def" {
		t.Errorf("unexpected compile info: %+v", got)
	}
	if len(got.Deps) != 1 || got.Deps[0] != "css/_vars.scss" {
		t.Errorf("expected recorded deps to round-trip, got %v", got.Deps)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store, err := cache.NewStore(filepath.Join(t.TempDir(), ".baler"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	got, err := store.Get("nope.scss")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing source, got %+v", got)
	}
}

func TestStore_Persistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".baler")

	store1, err := cache.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore 1 failed: %v", err)
	}
	if err := store1.Put(domain.CompileInfo{Source: "a.scss", InputHash: "xyz"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	store2, err := cache.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore 2 failed: %v", err)
	}
	got, err := store2.Get("a.scss")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.InputHash != "xyz" {
		t.Errorf("expected persisted compile info, got %+v", got)
	}
}

func TestStore_Objects(t *testing.T) {
	store, err := cache.NewStore(filepath.Join(t.TempDir(), ".baler"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	missing, err := store.Object("deadbeef")
	if err != nil {
		t.Fatalf("Object failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing object, got %q", missing)
	}

	if err := store.PutObject("deadbeef", []byte("body{}")); err != nil {
		t.Fatalf("PutObject failed: %v", err)
	}

	got, err := store.Object("deadbeef")
	if err != nil {
		t.Fatalf("Object failed: %v", err)
	}
	if string(got) != "body{}" {
		t.Errorf("expected stored bytes back, got %q", got)
	}

	// Writing the same object again is a no-op, not an error.
	if err := store.PutObject("deadbeef", []byte("body{}")); err != nil {
		t.Fatalf("PutObject rewrite failed: %v", err)
	}
}

func TestStore_CorruptManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".baler")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, domain.CacheFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.NewStore(dir); err == nil {
		t.Error("expected error for corrupt cache manifest, got nil")
	}
}
