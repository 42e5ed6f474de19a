package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// CreateStorageLayout creates a Cursor User-directory layout
// (workspaceStorage plus globalStorage) and returns the base path,
// which works as a --storage override.
func CreateStorageLayout(t *testing.T) string {
	t.Helper()
	base := CreateTempDir(t)
	for _, sub := range []string{"workspaceStorage", "globalStorage"} {
		if err := os.MkdirAll(filepath.Join(base, sub), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", sub, err)
		}
	}
	return base
}

// CreateRecordFixture creates a workspace record directory with a
// workspace.json claiming folderURI. An empty folderURI leaves the
// record opaque (no workspace.json at all).
func CreateRecordFixture(t *testing.T, workspaceStorage, id, folderURI string) string {
	t.Helper()
	dir := filepath.Join(workspaceStorage, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create record directory: %v", err)
	}
	if folderURI != "" {
		meta := fmt.Sprintf("{\n\t\"folder\": %q\n}", folderURI)
		WriteFile(t, filepath.Join(dir, "workspace.json"), []byte(meta))
	}
	return dir
}

// CreateProjectDir creates a fake project folder so the record it backs
// classifies as live.
func CreateProjectDir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create project dir: %v", err)
	}
	WriteFile(t, filepath.Join(path, "README.md"), []byte("fixture project\n"))
}
