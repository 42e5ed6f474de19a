package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/cursor-workspace/testutil"
)

func setupReaper(t *testing.T) (*Reaper, StoragePaths) {
	t.Helper()
	base := testutil.CreateStorageLayout(t)
	paths, err := GetStoragePaths(base)
	if err != nil {
		t.Fatalf("GetStoragePaths: %v", err)
	}
	return NewReaper(paths), paths
}

func TestClassifyAll(t *testing.T) {
	reaper, paths := setupReaper(t)

	live := filepath.Join(t.TempDir(), "live-proj")
	testutil.CreateProjectDir(t, live)
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "live111", "file://"+filepath.ToSlash(live))
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "gone222", "file:///no/such/project-anywhere")
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "remote333", "vscode-remote://ssh-remote%2Bbox/srv/app")
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "opaque444", "")

	all, err := reaper.ClassifyAll()
	if err != nil {
		t.Fatalf("ClassifyAll: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d classifications, want 4", len(all))
	}

	byID := map[string]RecordStatus{}
	for _, c := range all {
		byID[c.Record.ID] = c.Status
	}
	if byID["live111"] != StatusLive {
		t.Error("record with existing project should be live")
	}
	if byID["gone222"] != StatusOrphaned {
		t.Error("record with missing project should be orphaned")
	}
	if byID["remote333"] != StatusLive {
		t.Error("remote record must never be classified orphaned")
	}
	if byID["opaque444"] != StatusLive {
		t.Error("record with no claimed path must never be classified orphaned")
	}

	// Orphans sort before live records.
	if all[0].Record.ID != "gone222" {
		t.Errorf("first classification = %s, want the orphan", all[0].Record.ID)
	}
}

func TestClassificationFlipsWithFilesystem(t *testing.T) {
	reaper, paths := setupReaper(t)

	project := filepath.Join(t.TempDir(), "volatile")
	testutil.CreateProjectDir(t, project)
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "rec111", "file://"+filepath.ToSlash(project))

	status := func() RecordStatus {
		all, err := reaper.ClassifyAll()
		if err != nil {
			t.Fatalf("ClassifyAll: %v", err)
		}
		return all[0].Status
	}

	if status() != StatusLive {
		t.Fatal("project exists, record should be live")
	}
	if err := os.RemoveAll(project); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if status() != StatusOrphaned {
		t.Fatal("project deleted, record should be orphaned")
	}
	testutil.CreateProjectDir(t, project)
	if status() != StatusLive {
		t.Fatal("project recreated, record should be live again")
	}
}

func TestReapRequiresConfirmation(t *testing.T) {
	reaper, paths := setupReaper(t)
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "gone222", "file:///no/such/project-anywhere")

	all, err := reaper.ClassifyAll()
	if err != nil {
		t.Fatalf("ClassifyAll: %v", err)
	}

	n, err := reaper.Reap(Orphans(all), false)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if n != 0 {
		t.Errorf("unconfirmed reap deleted %d records", n)
	}
	if _, err := os.Stat(filepath.Join(paths.WorkspaceStorage, "gone222")); err != nil {
		t.Error("unconfirmed reap must not delete anything")
	}
}

func TestReapDeletesOnlyOrphans(t *testing.T) {
	reaper, paths := setupReaper(t)

	live := filepath.Join(t.TempDir(), "live-proj")
	testutil.CreateProjectDir(t, live)
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "live111", "file://"+filepath.ToSlash(live))
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "gone222", "file:///no/such/project-anywhere")

	all, err := reaper.ClassifyAll()
	if err != nil {
		t.Fatalf("ClassifyAll: %v", err)
	}

	// Feed the full classification in; live entries must be skipped.
	n, err := reaper.Reap(all, true)
	if err != nil {
		t.Fatalf("Reap: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d records, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(paths.WorkspaceStorage, "gone222")); !os.IsNotExist(err) {
		t.Error("orphan should be deleted")
	}
	if _, err := os.Stat(filepath.Join(paths.WorkspaceStorage, "live111")); err != nil {
		t.Error("live record must survive the sweep")
	}
}
