package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// workspaceMetaFile is the single file inside a record the engine ever
// rewrites; everything else in the record is opaque payload.
const workspaceMetaFile = "workspace.json"

// workspaceDBFile is the record's embedded metadata database
const workspaceDBFile = "state.vscdb"

// WorkspaceRecord is one on-disk workspace bundle under the storage
// root, keyed by the identity token in its directory name.
type WorkspaceRecord struct {
	ID         string      // directory name (the host's identity hash)
	Dir        string      // absolute path of the record directory
	ClaimedURI string      // folder URI recorded in workspace.json ("" if absent)
	Claimed    ProjectPath // canonicalized claimed path
}

// HasClaimedPath reports whether the record self-describes a project
// location. Multi-root workspaces and partially written records may not.
func (r *WorkspaceRecord) HasClaimedPath() bool {
	return r.ClaimedURI != ""
}

// DBPath returns the record's state.vscdb location
func (r *WorkspaceRecord) DBPath() string {
	return filepath.Join(r.Dir, workspaceDBFile)
}

// Size returns the record's total on-disk size in bytes
func (r *WorkspaceRecord) Size() int64 {
	return dirSize(r.Dir)
}

// LoadRecord reads one workspace record from the storage root. A record
// without a readable workspace.json is still returned (opaque payload,
// no claimed path); only a missing directory is an error.
func LoadRecord(storageRoot, id string) (*WorkspaceRecord, error) {
	dir := filepath.Join(storageRoot, id)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &StorageError{Path: dir, Op: "open", Err: err}
	}
	if !info.IsDir() {
		return nil, &StorageError{Path: dir, Op: "open", Err: fmt.Errorf("not a directory")}
	}

	rec := &WorkspaceRecord{ID: id, Dir: dir}
	if uri, err := readWorkspaceMeta(dir); err == nil && uri != "" {
		rec.ClaimedURI = uri
		rec.Claimed = Canonicalize(uri)
	}
	return rec, nil
}

// readWorkspaceMeta extracts the folder URI from a record's
// workspace.json. Records for multi-root workspaces carry a "workspace"
// key instead and are reported as having no claimed folder.
func readWorkspaceMeta(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, workspaceMetaFile))
	if err != nil {
		return "", err
	}
	var meta struct {
		Folder string `json:"folder"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", &ParseError{Source: workspaceMetaFile, Key: dir, Err: err}
	}
	return meta.Folder, nil
}

// writeWorkspaceMeta rewrites a record's claimed path. This is the only
// mutation the engine performs inside a record.
func writeWorkspaceMeta(dir string, p ProjectPath) error {
	meta := struct {
		Folder string `json:"folder"`
	}{Folder: p.FolderURI()}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	target := filepath.Join(dir, workspaceMetaFile)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return &StorageError{Path: target, Op: "write", Err: err}
	}
	return nil
}

// PathToFolderID converts an absolute path to the slug the host uses
// for ~/.cursor/projects entries: / and . become -, runs of - collapse,
// leading and trailing - are trimmed.
func PathToFolderID(p string) string {
	slug := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '-'
		}
		return r
	}, p)

	var b strings.Builder
	prevDash := false
	for _, r := range slug {
		if r == '-' {
			if !prevDash && b.Len() > 0 {
				b.WriteRune('-')
			}
			prevDash = true
			continue
		}
		b.WriteRune(r)
		prevDash = false
	}
	return strings.TrimRight(b.String(), "-")
}

// copyDir copies a directory tree of regular files and subdirectories,
// which is all the host ever writes under workspaceStorage.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return &StorageError{Path: src, Op: "copy", Err: err}
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return &StorageError{Path: dst, Op: "copy", Err: err}
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return &StorageError{Path: src, Op: "copy", Err: err}
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &StorageError{Path: src, Op: "copy", Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &StorageError{Path: src, Op: "copy", Err: err}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &StorageError{Path: dst, Op: "copy", Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &StorageError{Path: dst, Op: "copy", Err: err}
	}
	return out.Close()
}

// dirSize returns the total size of a directory tree, ignoring entries
// it cannot stat.
func dirSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if info, err := d.Info(); err == nil && !d.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}

// FormatSize renders bytes as a human-readable size
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
