package snapshot_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/photodesk/photodesk/internal/collection"
	"github.com/photodesk/photodesk/internal/snapshot"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCache(t *testing.T, maxAge string) *snapshot.Cache {
	t.Helper()

	cfg := &snapshot.Config{
		Path:   filepath.Join(t.TempDir(), "snapshots.db"),
		MaxAge: maxAge,
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	cache, err := snapshot.New(cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func testSnapshot(savedAt time.Time) collection.Snapshot {
	return collection.Snapshot{
		Images: []collection.Image{
			{ID: "img-1", Name: "front.jpg"},
			{ID: "img-2", Name: "kitchen.jpg"},
		},
		Tags:    []string{"exterior", "interior"},
		Page:    collection.PageState{Page: 1, PageSize: 20, Total: 2, Pages: 1},
		SavedAt: savedAt,
	}
}

func TestCache_SaveLoad(t *testing.T) {
	cache := testCache(t, "168h")
	ctx := context.Background()

	snap := testSnapshot(time.Now().UTC())
	if err := cache.Save(ctx, "filter-a", snap); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	loaded, err := cache.Load(ctx, "filter-a")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil, want snapshot")
	}
	if len(loaded.Images) != 2 || loaded.Images[0].ID != "img-1" {
		t.Errorf("loaded images = %+v", loaded.Images)
	}
	if loaded.Page.Total != 2 {
		t.Errorf("loaded page total = %d, want 2", loaded.Page.Total)
	}
	if len(loaded.Tags) != 2 {
		t.Errorf("loaded tags = %v", loaded.Tags)
	}
}

func TestCache_LoadMissing(t *testing.T) {
	cache := testCache(t, "168h")

	loaded, err := cache.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if loaded != nil {
		t.Errorf("Load() = %+v, want nil for missing key", loaded)
	}
}

func TestCache_SaveReplaces(t *testing.T) {
	cache := testCache(t, "168h")
	ctx := context.Background()

	first := testSnapshot(time.Now().UTC())
	if err := cache.Save(ctx, "filter-a", first); err != nil {
		t.Fatal(err)
	}

	second := testSnapshot(time.Now().UTC())
	second.Images = second.Images[:1]
	if err := cache.Save(ctx, "filter-a", second); err != nil {
		t.Fatal(err)
	}

	loaded, err := cache.Load(ctx, "filter-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Images) != 1 {
		t.Errorf("loaded images = %d, want 1 (latest save wins)", len(loaded.Images))
	}
}

func TestCache_ExpiredSnapshotIgnored(t *testing.T) {
	cache := testCache(t, "1h")
	ctx := context.Background()

	stale := testSnapshot(time.Now().UTC().Add(-2 * time.Hour))
	if err := cache.Save(ctx, "filter-a", stale); err != nil {
		t.Fatal(err)
	}

	loaded, err := cache.Load(ctx, "filter-a")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if loaded != nil {
		t.Error("Load() returned an expired snapshot, want nil")
	}
}

func TestCache_Sweep(t *testing.T) {
	cache := testCache(t, "1h")
	ctx := context.Background()

	if err := cache.Save(ctx, "fresh", testSnapshot(time.Now().UTC())); err != nil {
		t.Fatal(err)
	}
	if err := cache.Save(ctx, "stale", testSnapshot(time.Now().UTC().Add(-2*time.Hour))); err != nil {
		t.Fatal(err)
	}

	removed, err := cache.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep() error = %v, want nil", err)
	}
	if removed != 1 {
		t.Errorf("Sweep() removed = %d, want 1", removed)
	}

	fresh, err := cache.Load(ctx, "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if fresh == nil {
		t.Error("fresh snapshot removed by sweep")
	}
}

func TestConfig_Finalize(t *testing.T) {
	cfg := &snapshot.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v, want nil", err)
	}
	if cfg.Path != ".data/photodesk.db" {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.MaxAgeDuration() != 168*time.Hour {
		t.Errorf("MaxAgeDuration() = %v, want 168h", cfg.MaxAgeDuration())
	}

	bad := &snapshot.Config{MaxAge: "soon"}
	if err := bad.Finalize(); err == nil {
		t.Error("Finalize() error = nil for invalid max_age, want error")
	}
}
