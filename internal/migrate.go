package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MigrationMode selects what happens to the source record after a
// successful commit.
type MigrationMode int

const (
	ModeMove MigrationMode = iota
	ModeCopy
)

func (m MigrationMode) String() string {
	if m == ModeCopy {
		return "copy"
	}
	return "move"
}

// MigrationPlan describes one relocate operation. Plans are ephemeral:
// they exist for a single invocation and are never persisted.
type MigrationPlan struct {
	Source *WorkspaceRecord
	Dest   ProjectPath
	Mode   MigrationMode
	DryRun bool
}

// OperationResult is the structured outcome the CLI turns into output
// and an exit code.
type OperationResult struct {
	Kind     string // "move", "copy", "clone", "restore", "noop"
	SourceID string
	DestID   string
	Success  bool
	Reason   string
}

// Migrator executes relocations over the storage root. The root is a
// shared resource: the host application may have the same storage open
// and honors no lock file, so the only atomicity the engine gets is the
// final directory rename. The source record is never mutated before
// that rename succeeds; a crash or interrupt mid-operation leaves at
// worst an orphaned staging directory and an intact source.
type Migrator struct {
	Paths   StoragePaths
	Hasher  IdentityHasher
	locator *Locator
}

// NewMigrator creates a migrator over the given storage layout
func NewMigrator(paths StoragePaths) *Migrator {
	loc := NewLocator(paths)
	return &Migrator{Paths: paths, Hasher: loc.Hasher, locator: loc}
}

const stagingPrefix = ".staging-"

func isStagingDir(name string) bool {
	return strings.HasPrefix(name, stagingPrefix)
}

// Validate checks a plan without touching disk. A plan is invalid when
// the source record is gone or the destination already resolves to a
// different live record (migrating into it would silently merge two
// projects' histories).
func (m *Migrator) Validate(plan MigrationPlan) error {
	if plan.Source == nil {
		return &ValidationError{Op: "relocate", Reason: "no source record"}
	}
	if _, err := os.Stat(plan.Source.Dir); err != nil {
		return &ValidationError{Op: "relocate", Reason: fmt.Sprintf("source record missing: %s", plan.Source.Dir)}
	}

	// Same canonical path is a no-op, not a collision.
	if plan.Source.HasClaimedPath() && plan.Source.Claimed.Equal(plan.Dest) {
		return nil
	}

	existing, err := m.locator.FindByPath(plan.Dest)
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if rec.ID != plan.Source.ID {
			return &ValidationError{
				Op:     "relocate",
				Reason: fmt.Sprintf("destination %s already belongs to record %s", plan.Dest, rec.ID),
			}
		}
	}
	return nil
}

// Relocate executes a validated plan: stage a copy of the source record
// beside the destination, rewrite the staged claimed path, commit with
// one atomic rename, and only then (move mode) delete the source.
// Failure after staging removes the staged directory and leaves both
// the source and any pre-existing destination untouched.
func (m *Migrator) Relocate(plan MigrationPlan) (*OperationResult, error) {
	if err := m.Validate(plan); err != nil {
		return &OperationResult{
			Kind:     plan.Mode.String(),
			SourceID: sourceID(plan),
			Success:  false,
			Reason:   err.Error(),
		}, err
	}

	// Source and destination naming the same project: report success
	// without writing anything.
	if plan.Source.HasClaimedPath() && plan.Source.Claimed.Equal(plan.Dest) {
		return &OperationResult{
			Kind:     "noop",
			SourceID: plan.Source.ID,
			DestID:   plan.Source.ID,
			Success:  true,
			Reason:   "source and destination are the same project",
		}, nil
	}

	destIdentity := m.Hasher.Compute(plan.Dest)
	destID := destIdentity.Hash
	if destID == plan.Source.ID {
		// Hash collision with ourselves (copy onto a path hashing to
		// the source id); suffix keeps the record addressable.
		destID = destID + "-1"
	}

	if plan.DryRun {
		return &OperationResult{
			Kind:     plan.Mode.String(),
			SourceID: plan.Source.ID,
			DestID:   destID,
			Success:  true,
			Reason:   fmt.Sprintf("dry-run: would %s record %s to %s", plan.Mode, plan.Source.ID, destID),
		}, nil
	}

	stagingDir := filepath.Join(m.Paths.WorkspaceStorage, stagingPrefix+destID)
	finalDir := filepath.Join(m.Paths.WorkspaceStorage, destID)

	// Stage: copy, never move, so the source stays intact until commit.
	if err := os.RemoveAll(stagingDir); err != nil {
		return failResult(plan, destID, err)
	}
	if err := copyDir(plan.Source.Dir, stagingDir); err != nil {
		_ = os.RemoveAll(stagingDir)
		return failResult(plan, destID, err)
	}

	// Rewrite the staged record's self-description to the destination.
	if err := writeWorkspaceMeta(stagingDir, plan.Dest); err != nil {
		_ = os.RemoveAll(stagingDir)
		return failResult(plan, destID, err)
	}

	// Commit: one atomic rename within the storage root.
	if err := commitRename(stagingDir, finalDir); err != nil {
		_ = os.RemoveAll(stagingDir)
		return failResult(plan, destID, err)
	}

	// Post-commit bookkeeping. Failures past this point are warnings:
	// the destination record is live and consistent.
	oldURI := plan.Source.ClaimedURI
	if plan.Mode == ModeMove {
		if err := os.RemoveAll(plan.Source.Dir); err != nil {
			LogWarn("committed but failed to remove source record %s: %v", plan.Source.Dir, err)
		}
		m.migrateProjectsData(plan.Source, plan.Dest, true)
		if oldURI != "" {
			m.updateGlobalReferences(oldURI, plan.Dest.FolderURI())
		}
	} else {
		m.migrateProjectsData(plan.Source, plan.Dest, false)
	}

	return &OperationResult{
		Kind:     plan.Mode.String(),
		SourceID: plan.Source.ID,
		DestID:   destID,
		Success:  true,
		Reason:   fmt.Sprintf("record %s %sd to %s", plan.Source.ID, plan.Mode, destID),
	}, nil
}

// commitRename is the atomic commit primitive. Split out so tests can
// inject a deterministic failure.
var commitRename = func(staging, final string) error {
	if err := os.Rename(staging, final); err != nil {
		return &StorageError{Path: final, Op: "commit", Err: err}
	}
	return nil
}

// migrateProjectsData carries the ~/.cursor/projects folder-id entry
// along with the record. Best effort: absence is normal and failure
// never rolls back a committed migration.
func (m *Migrator) migrateProjectsData(source *WorkspaceRecord, dest ProjectPath, move bool) {
	if !source.HasClaimedPath() || source.Claimed.IsRemote() || dest.IsRemote() {
		return
	}
	oldDir := filepath.Join(m.Paths.ProjectsDir, PathToFolderID(source.Claimed.Path))
	newDir := filepath.Join(m.Paths.ProjectsDir, PathToFolderID(dest.Path))
	if oldDir == newDir {
		return
	}
	if _, err := os.Stat(oldDir); err != nil {
		return
	}
	if _, err := os.Stat(newDir); err == nil {
		LogWarn("projects data already exists at %s, leaving %s in place", newDir, oldDir)
		return
	}

	var err error
	if move {
		if err = os.Rename(oldDir, newDir); err != nil {
			err = copyDir(oldDir, newDir)
			if err == nil {
				err = os.RemoveAll(oldDir)
			}
		}
	} else {
		err = copyDir(oldDir, newDir)
	}
	if err != nil {
		LogWarn("failed to migrate projects data %s: %v", oldDir, err)
	}
}

// updateGlobalReferences rewrites storage.json backup/profile entries
// that still point at the old URI. Best effort.
func (m *Migrator) updateGlobalReferences(oldURI, newURI string) {
	modified, err := UpdateStorageJSON(m.Paths.StorageJSONPath(), oldURI, newURI, false)
	if err != nil {
		LogWarn("failed to update storage.json: %v", err)
		return
	}
	if modified {
		LogDebug("updated storage.json references %s -> %s", oldURI, newURI)
	}
}

func sourceID(plan MigrationPlan) string {
	if plan.Source != nil {
		return plan.Source.ID
	}
	return ""
}

func failResult(plan MigrationPlan, destID string, err error) (*OperationResult, error) {
	return &OperationResult{
		Kind:     plan.Mode.String(),
		SourceID: plan.Source.ID,
		DestID:   destID,
		Success:  false,
		Reason:   err.Error(),
	}, err
}

// MoveProjectFolder relocates the actual project directory on disk
// before its storage record is migrated. Used by rename --with-folder;
// separate from Relocate because the project folder is the user's data,
// not the host's.
func MoveProjectFolder(src, dst ProjectPath, copyMode bool) error {
	if src.IsRemote() || dst.IsRemote() {
		return &ValidationError{Op: "relocate", Reason: "cannot move a remote project folder"}
	}
	if _, err := os.Stat(src.Path); err != nil {
		return &StorageError{Path: src.Path, Op: "open", Err: err}
	}
	if _, err := os.Stat(dst.Path); err == nil {
		return &ValidationError{Op: "relocate", Reason: fmt.Sprintf("destination already exists: %s", dst.Path)}
	}
	if copyMode {
		return copyDir(src.Path, dst.Path)
	}
	if err := os.Rename(src.Path, dst.Path); err != nil {
		// Cross-device moves degrade to copy+delete.
		if err := copyDir(src.Path, dst.Path); err != nil {
			return err
		}
		if err := os.RemoveAll(src.Path); err != nil {
			return &StorageError{Path: src.Path, Op: "delete", Err: err}
		}
	}
	return nil
}
