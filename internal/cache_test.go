package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/cursor-workspace/testutil"
)

func TestCacheSaveLoadRoundTrip(t *testing.T) {
	cacheDir := t.TempDir()
	storageRoot := t.TempDir()
	cm := NewCacheManager(cacheDir)

	entries := []WorkspaceIndexEntry{
		{ID: "aaa111", Path: "/home/dev/one", ChatCount: 3, LastModified: "2026-01-02T03:04:05Z"},
		{ID: "bbb222", Path: "/srv/app", Remote: "ssh:box"},
	}
	if err := cm.SaveIndex(storageRoot, entries); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	index, err := cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if index == nil {
		t.Fatal("LoadIndex returned nil after save")
	}
	if len(index.Workspaces) != 2 {
		t.Fatalf("got %d entries, want 2", len(index.Workspaces))
	}
	if index.Workspaces[0] != entries[0] || index.Workspaces[1] != entries[1] {
		t.Errorf("entries did not round trip: %+v", index.Workspaces)
	}
	if index.Metadata.StorageRoot != storageRoot {
		t.Errorf("metadata storage root = %q", index.Metadata.StorageRoot)
	}
	if index.Metadata.CacheVersion != cacheVersion {
		t.Errorf("metadata cache version = %q", index.Metadata.CacheVersion)
	}
}

func TestCacheValidity(t *testing.T) {
	cacheDir := t.TempDir()
	storageRoot := t.TempDir()
	cm := NewCacheManager(cacheDir)

	valid, err := cm.IsCacheValid(storageRoot)
	if err != nil || valid {
		t.Errorf("empty cache reported valid (%v, %v)", valid, err)
	}

	if err := cm.SaveIndex(storageRoot, nil); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}
	valid, err = cm.IsCacheValid(storageRoot)
	if err != nil {
		t.Fatalf("IsCacheValid: %v", err)
	}
	if !valid {
		t.Error("fresh cache should be valid")
	}

	// Different root invalidates.
	valid, _ = cm.IsCacheValid(t.TempDir())
	if valid {
		t.Error("cache for another root should be invalid")
	}

	// Touching the storage root invalidates. Some filesystems have
	// coarse mtime granularity, so push the mtime explicitly.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(storageRoot, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	valid, _ = cm.IsCacheValid(storageRoot)
	if valid {
		t.Error("cache should be invalid after storage root changed")
	}
}

func TestClearCache(t *testing.T) {
	cacheDir := t.TempDir()
	cm := NewCacheManager(cacheDir)

	if err := cm.ClearCache(); err != nil {
		t.Fatalf("ClearCache on empty cache: %v", err)
	}

	testutil.WriteFile(t, cm.IndexPath(), []byte("workspaces: []\n"))
	if err := cm.ClearCache(); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, err := os.Stat(cm.IndexPath()); !os.IsNotExist(err) {
		t.Error("index file should be gone")
	}
}

func TestLoadIndexCorrupt(t *testing.T) {
	cm := NewCacheManager(t.TempDir())
	testutil.WriteFile(t, cm.IndexPath(), []byte("{not yaml: ["))
	if _, err := cm.LoadIndex(); err == nil {
		t.Error("expected error for corrupt index")
	}
}

func TestIndexPath(t *testing.T) {
	cm := NewCacheManager("/tmp/cache-root")
	if got := cm.IndexPath(); got != filepath.Join("/tmp/cache-root", "workspaces.yaml") {
		t.Errorf("IndexPath = %q", got)
	}
}
