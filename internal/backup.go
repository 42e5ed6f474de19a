package internal

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// backupFormatVersion guards against restoring archives written by an
// incompatible future layout.
const backupFormatVersion = 1

const manifestName = "manifest.json"

// BackupManifest describes what a backup archive contains. The record
// payload itself is opaque at rest; only the manifest is interpreted.
type BackupManifest struct {
	Version     int            `json:"version"`
	ProjectPath string         `json:"project_path"`
	Identity    string         `json:"workspace_id"`
	FolderID    string         `json:"folder_id"`
	CreatedAt   int64          `json:"created_at"`
	Includes    BackupContents `json:"includes"`
}

// BackupContents lists which storage areas the archive holds
type BackupContents struct {
	WorkspaceStorage bool `json:"workspace_storage"`
	ProjectsData     bool `json:"projects_data"`
}

// CreateBackup archives a workspace record (and its projects-dir entry,
// when present) into a tar.gz file with no rewriting. Returns the final
// archive path, which gains a .tar.gz suffix if missing.
func CreateBackup(paths StoragePaths, rec *WorkspaceRecord, outPath string) (string, error) {
	if outPath == "" {
		outPath = rec.ID
	}
	if !strings.HasSuffix(outPath, ".tar.gz") {
		outPath += ".tar.gz"
	}

	var projectsDir string
	var folderID string
	if rec.HasClaimedPath() && !rec.Claimed.IsRemote() {
		folderID = PathToFolderID(rec.Claimed.Path)
		candidate := filepath.Join(paths.ProjectsDir, folderID)
		if _, err := os.Stat(candidate); err == nil {
			projectsDir = candidate
		}
	}

	manifest := BackupManifest{
		Version:     backupFormatVersion,
		ProjectPath: rec.Claimed.Path,
		Identity:    rec.ID,
		FolderID:    folderID,
		CreatedAt:   time.Now().Unix(),
		Includes: BackupContents{
			WorkspaceStorage: true,
			ProjectsData:     projectsDir != "",
		},
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", &ArchiveError{Path: outPath, Op: "create", Err: err}
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	if err := writeTarFile(tw, manifestName, manifestJSON); err != nil {
		return "", &ArchiveError{Path: outPath, Op: "create", Err: err}
	}

	if err := writeTarDir(tw, rec.Dir, "workspaceStorage"); err != nil {
		return "", &ArchiveError{Path: outPath, Op: "create", Err: err}
	}
	if projectsDir != "" {
		if err := writeTarDir(tw, projectsDir, "projects"); err != nil {
			return "", &ArchiveError{Path: outPath, Op: "create", Err: err}
		}
	}

	if err := tw.Close(); err != nil {
		return "", &ArchiveError{Path: outPath, Op: "create", Err: err}
	}
	if err := gz.Close(); err != nil {
		return "", &ArchiveError{Path: outPath, Op: "create", Err: err}
	}
	return outPath, nil
}

// ReadManifest extracts just the manifest from a backup archive
func ReadManifest(archivePath string) (*BackupManifest, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, &ArchiveError{Path: archivePath, Op: "manifest", Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, &ArchiveError{Path: archivePath, Op: "manifest", Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ArchiveError{Path: archivePath, Op: "manifest", Err: err}
		}
		if filepath.Clean(hdr.Name) != manifestName {
			continue
		}
		var manifest BackupManifest
		if err := json.NewDecoder(tr).Decode(&manifest); err != nil {
			return nil, &ParseError{Source: manifestName, Key: archivePath, Err: err}
		}
		return &manifest, nil
	}
	return nil, &ArchiveError{Path: archivePath, Op: "manifest", Err: fmt.Errorf("archive has no %s", manifestName)}
}

// RestoreBackup extracts an archived record and re-binds it to the
// given target path via the normal relocate pipeline, so the restored
// record claims wherever it lands, not where it was backed up from.
func (m *Migrator) RestoreBackup(archivePath string, target ProjectPath, dryRun bool) (*OperationResult, error) {
	manifest, err := ReadManifest(archivePath)
	if err != nil {
		return &OperationResult{Kind: "restore", Success: false, Reason: err.Error()}, err
	}
	if manifest.Version != backupFormatVersion {
		err := &ValidationError{Op: "restore", Reason: fmt.Sprintf("unsupported backup version %d", manifest.Version)}
		return &OperationResult{Kind: "restore", SourceID: manifest.Identity, Success: false, Reason: err.Error()}, err
	}

	tmpDir, err := os.MkdirTemp("", "cursor-workspace-restore-*")
	if err != nil {
		return &OperationResult{Kind: "restore", SourceID: manifest.Identity, Success: false, Reason: err.Error()}, err
	}
	defer os.RemoveAll(tmpDir)

	if err := extractArchive(archivePath, tmpDir); err != nil {
		return &OperationResult{Kind: "restore", SourceID: manifest.Identity, Success: false, Reason: err.Error()}, err
	}

	extracted := filepath.Join(tmpDir, "workspaceStorage")
	if _, err := os.Stat(extracted); err != nil {
		aerr := &ArchiveError{Path: archivePath, Op: "extract", Err: fmt.Errorf("archive has no workspaceStorage payload")}
		return &OperationResult{Kind: "restore", SourceID: manifest.Identity, Success: false, Reason: aerr.Error()}, aerr
	}

	// A record already claiming the target path means the backup would
	// land on top of live history. Relocate's own collision check
	// exempts same-ID records and cannot catch this case because the
	// restored record reuses the archived identity.
	existing, err := m.locator.FindByPath(target)
	if err != nil {
		return &OperationResult{Kind: "restore", SourceID: manifest.Identity, Success: false, Reason: err.Error()}, err
	}
	if len(existing) > 0 {
		verr := &ValidationError{Op: "restore", Reason: fmt.Sprintf("target %s already belongs to record %s", target, existing[0].ID)}
		return &OperationResult{Kind: "restore", SourceID: manifest.Identity, Success: false, Reason: verr.Error()}, verr
	}

	// Synthesize a source record from the extracted payload. The
	// claimed path is deliberately left blank: restoring back to the
	// original location must still install the record, not short-cut
	// as a same-path no-op.
	source := &WorkspaceRecord{ID: manifest.Identity, Dir: extracted}

	result, err := m.Relocate(MigrationPlan{Source: source, Dest: target, Mode: ModeCopy, DryRun: dryRun})
	if result != nil {
		result.Kind = "restore"
	}
	if err != nil || dryRun {
		return result, err
	}

	// Projects data rides along under the target's folder id.
	extractedProjects := filepath.Join(tmpDir, "projects")
	if manifest.Includes.ProjectsData && !target.IsRemote() {
		if _, err := os.Stat(extractedProjects); err == nil {
			newDir := filepath.Join(m.Paths.ProjectsDir, PathToFolderID(target.Path))
			if _, err := os.Stat(newDir); err == nil {
				LogWarn("projects data already exists at %s, skipping", newDir)
			} else if err := copyDir(extractedProjects, newDir); err != nil {
				LogWarn("failed to restore projects data: %v", err)
			}
		}
	}
	return result, nil
}

func writeTarFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    int64(len(content)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(content)
	return err
}

func writeTarDir(tw *tar.Writer, source, prefix string) error {
	return filepath.WalkDir(source, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, p)
		if err != nil {
			return err
		}
		name := prefix
		if rel != "." {
			name = prefix + "/" + filepath.ToSlash(rel)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = name
		if d.IsDir() {
			hdr.Name += "/"
			return tw.WriteHeader(hdr)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
}

func extractArchive(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return &ArchiveError{Path: archivePath, Op: "extract", Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return &ArchiveError{Path: archivePath, Op: "extract", Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ArchiveError{Path: archivePath, Op: "extract", Err: err}
		}

		name := filepath.Clean(hdr.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			continue
		}
		target := filepath.Join(destDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return &ArchiveError{Path: target, Op: "extract", Err: err}
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return &ArchiveError{Path: target, Op: "extract", Err: err}
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode)&0777)
			if err != nil {
				return &ArchiveError{Path: target, Op: "extract", Err: err}
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return &ArchiveError{Path: target, Op: "extract", Err: err}
			}
			out.Close()
		}
	}
}
