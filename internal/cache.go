package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const cacheVersion = "1"

// CacheManager persists the workspace scan index so repeated list
// invocations skip re-reading every record's workspace.json and
// metadata store.
type CacheManager struct {
	cacheDir string
}

// CacheMetadata records what storage state the index was built from
type CacheMetadata struct {
	StorageRoot    string    `yaml:"storage_root"`
	StorageModTime time.Time `yaml:"storage_mod_time"`
	CacheVersion   string    `yaml:"cache_version"`
	CreatedAt      time.Time `yaml:"created_at"`
}

// WorkspaceIndexEntry is one scanned record in the index
type WorkspaceIndexEntry struct {
	ID           string `yaml:"id"`
	Path         string `yaml:"path,omitempty"`
	Remote       string `yaml:"remote,omitempty"` // "scheme:host" or empty for local
	ChatCount    int    `yaml:"chat_count"`
	LastModified string `yaml:"last_modified,omitempty"` // RFC 3339
}

// WorkspaceIndex is the cached result of one full storage scan
type WorkspaceIndex struct {
	Workspaces []WorkspaceIndexEntry `yaml:"workspaces"`
	Metadata   CacheMetadata         `yaml:"metadata"`
}

// NewCacheManager creates a cache manager rooted at cacheDir
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{cacheDir: cacheDir}
}

// IndexPath returns where the index YAML lives
func (cm *CacheManager) IndexPath() string {
	return filepath.Join(cm.cacheDir, "workspaces.yaml")
}

// IsCacheValid reports whether a cached index exists and still matches
// the storage root's modification time. Any change under the root (a
// record added, removed, or touched by the host) bumps the directory
// mtime and invalidates the cache.
func (cm *CacheManager) IsCacheValid(storageRoot string) (bool, error) {
	index, err := cm.LoadIndex()
	if err != nil || index == nil {
		return false, err
	}
	if index.Metadata.CacheVersion != cacheVersion || index.Metadata.StorageRoot != storageRoot {
		return false, nil
	}
	info, err := os.Stat(storageRoot)
	if err != nil {
		return false, nil
	}
	return info.ModTime().Equal(index.Metadata.StorageModTime), nil
}

// LoadIndex reads the cached index, or nil when none exists
func (cm *CacheManager) LoadIndex() (*WorkspaceIndex, error) {
	data, err := os.ReadFile(cm.IndexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var index WorkspaceIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse cache index: %w", err)
	}
	return &index, nil
}

// SaveIndex writes a fresh index for the given storage root
func (cm *CacheManager) SaveIndex(storageRoot string, entries []WorkspaceIndexEntry) error {
	if err := os.MkdirAll(cm.cacheDir, 0755); err != nil {
		return err
	}

	var modTime time.Time
	if info, err := os.Stat(storageRoot); err == nil {
		modTime = info.ModTime()
	}

	index := WorkspaceIndex{
		Workspaces: entries,
		Metadata: CacheMetadata{
			StorageRoot:    storageRoot,
			StorageModTime: modTime,
			CacheVersion:   cacheVersion,
			CreatedAt:      time.Now(),
		},
	}
	data, err := yaml.Marshal(&index)
	if err != nil {
		return err
	}
	return os.WriteFile(cm.IndexPath(), data, 0644)
}

// ClearCache removes the cached index
func (cm *CacheManager) ClearCache() error {
	err := os.Remove(cm.IndexPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
