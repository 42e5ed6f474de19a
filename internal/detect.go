package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// StoragePaths holds the resolved locations of the host application's
// on-disk state for one machine.
type StoragePaths struct {
	WorkspaceStorage string // workspaceStorage directory (one record per identity)
	GlobalStorage    string // globalStorage directory
	ProjectsDir      string // ~/.cursor/projects (folder-id keyed data)
	BasePath         string // base Cursor User directory
}

// GetStoragePaths resolves the storage layout, honoring an optional
// override. The override may point at the User directory itself or at a
// workspaceStorage directory.
func GetStoragePaths(override string) (StoragePaths, error) {
	if override != "" {
		base := override
		if filepath.Base(base) == "workspaceStorage" {
			base = filepath.Dir(base)
		}
		return pathsFromBase(base, filepath.Join(base, "projects")), nil
	}
	return DetectStoragePaths()
}

// DetectStoragePaths locates the host storage for the current OS
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var basePath string
	switch runtime.GOOS {
	case "darwin":
		basePath = filepath.Join(home, "Library/Application Support/Cursor/User")
	case "linux":
		basePath = filepath.Join(home, ".config/Cursor/User")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		basePath = filepath.Join(appData, "Cursor", "User")
	default:
		return StoragePaths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return pathsFromBase(basePath, filepath.Join(home, ".cursor", "projects")), nil
}

func pathsFromBase(basePath, projectsDir string) StoragePaths {
	return StoragePaths{
		WorkspaceStorage: filepath.Join(basePath, "workspaceStorage"),
		GlobalStorage:    filepath.Join(basePath, "globalStorage"),
		ProjectsDir:      projectsDir,
		BasePath:         basePath,
	}
}

// GlobalStorageDBPath returns the global state.vscdb location
func (sp StoragePaths) GlobalStorageDBPath() string {
	return filepath.Join(sp.GlobalStorage, "state.vscdb")
}

// StorageJSONPath returns the global storage.json location
func (sp StoragePaths) StorageJSONPath() string {
	return filepath.Join(sp.GlobalStorage, "storage.json")
}

// WorkspaceStorageExists reports whether the storage root is present
func (sp StoragePaths) WorkspaceStorageExists() bool {
	info, err := os.Stat(sp.WorkspaceStorage)
	return err == nil && info.IsDir()
}

// GlobalStorageExists reports whether the global database is present
func (sp StoragePaths) GlobalStorageExists() bool {
	_, err := os.Stat(sp.GlobalStorageDBPath())
	return err == nil
}
