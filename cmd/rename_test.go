package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/cursor-workspace/internal"
	"github.com/iksnae/cursor-workspace/testutil"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"move", "Move"},
		{"copy", "Copy"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.input); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenameCommand(t *testing.T) {
	base := testutil.CreateStorageLayout(t)
	ws := filepath.Join(base, "workspaceStorage")

	project := filepath.Join(t.TempDir(), "old-name")
	testutil.CreateProjectDir(t, project)
	testutil.CreateRecordFixture(t, ws, "src111", "file://"+filepath.ToSlash(project))

	newPath := filepath.Join(filepath.Dir(project), "new-name")
	testutil.CreateProjectDir(t, newPath)

	rootCmd.SetArgs([]string{"rename", project, newPath, "--yes", "--storage", base})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rename command failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(ws, "src111")); !os.IsNotExist(err) {
		t.Error("old record should be gone after rename")
	}

	paths, err := internal.GetStoragePaths(base)
	if err != nil {
		t.Fatalf("GetStoragePaths: %v", err)
	}
	rec, err := internal.NewLocator(paths).ResolveOne(internal.Canonicalize(newPath))
	if err != nil {
		t.Fatalf("ResolveOne: %v", err)
	}
	if rec == nil {
		t.Fatal("no record claims the new path after rename")
	}
}

func TestRenameCommandMissingSource(t *testing.T) {
	base := testutil.CreateStorageLayout(t)

	rootCmd.SetArgs([]string{"rename", "/no/such/project", "/elsewhere", "--yes", "--dry-run", "--storage", base})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("rename of unknown project should fail")
	}
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2 for a validation failure", exitCode(err))
	}
}
