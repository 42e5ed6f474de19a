package internal

import (
	"os"
	"sort"
	"time"
)

// Locator resolves project paths and identity tokens to on-disk
// workspace records.
type Locator struct {
	Paths  StoragePaths
	Hasher IdentityHasher
}

// NewLocator creates a locator over the given storage layout
func NewLocator(paths StoragePaths) *Locator {
	return &Locator{Paths: paths, Hasher: NewHasher()}
}

// All loads every workspace record under the storage root, sorted by
// identity for stable output. Records that cannot be loaded are skipped
// with a warning; a missing storage root yields an empty slice.
func (l *Locator) All() ([]*WorkspaceRecord, error) {
	entries, err := os.ReadDir(l.Paths.WorkspaceStorage)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Path: l.Paths.WorkspaceStorage, Op: "read", Err: err}
	}

	var records []*WorkspaceRecord
	for _, entry := range entries {
		if !entry.IsDir() || isStagingDir(entry.Name()) {
			continue
		}
		rec, err := LoadRecord(l.Paths.WorkspaceStorage, entry.Name())
		if err != nil {
			LogWarn("skipping unreadable record %s: %v", entry.Name(), err)
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// FindByID looks up a record by its exact identity token. Returns nil
// without error when no such record exists.
func (l *Locator) FindByID(id string) (*WorkspaceRecord, error) {
	if _, err := os.Stat(l.Paths.WorkspaceStorage); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Path: l.Paths.WorkspaceStorage, Op: "open", Err: err}
	}
	rec, err := LoadRecord(l.Paths.WorkspaceStorage, id)
	if err != nil {
		if se, ok := err.(*StorageError); ok && os.IsNotExist(se.Err) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// FindByPath resolves a project path to its workspace records. The
// computed identity is tried first; hash mismatches are expected
// (cross-platform, approximate, host-version drift), so a miss always
// falls through to the claimed-path scan, which is the authoritative
// answer for "does a record exist for this path". Every match is
// returned; disambiguation belongs to the caller.
func (l *Locator) FindByPath(p ProjectPath) ([]*WorkspaceRecord, error) {
	identity := l.Hasher.Compute(p)
	if rec, err := l.FindByID(identity.Hash); err != nil {
		return nil, err
	} else if rec != nil {
		return []*WorkspaceRecord{rec}, nil
	}

	if identity.Approximate {
		LogDebug("approximate identity %s missed, scanning claimed paths", identity.Hash)
	}

	records, err := l.All()
	if err != nil {
		return nil, err
	}

	var matches []*WorkspaceRecord
	for _, rec := range records {
		if rec.HasClaimedPath() && rec.Claimed.Equal(p) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// ResolveOne resolves a path to exactly one record. Zero matches return
// (nil, nil); multiple matches are an AmbiguousTargetError.
func (l *Locator) ResolveOne(p ProjectPath) (*WorkspaceRecord, error) {
	matches, err := l.FindByPath(p)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, &AmbiguousTargetError{Path: p.String(), Matches: ids}
	}
}

// BuildIndex scans every record into display-ready index entries:
// claimed path, remote tag, chat count, last-modified. Chat counting
// failures degrade to zero rather than dropping the record.
func (l *Locator) BuildIndex() ([]WorkspaceIndexEntry, error) {
	records, err := l.All()
	if err != nil {
		return nil, err
	}

	entries := make([]WorkspaceIndexEntry, 0, len(records))
	for _, rec := range records {
		entry := WorkspaceIndexEntry{ID: rec.ID}
		if rec.HasClaimedPath() {
			entry.Path = rec.Claimed.Path
			if rec.Claimed.IsRemote() {
				entry.Remote = rec.Claimed.RemoteLabel()
			}
		}
		if count, err := CountChatSessions(rec.DBPath()); err == nil {
			entry.ChatCount = count
		} else {
			LogDebug("chat count failed for %s: %v", rec.ID, err)
		}
		if info, err := os.Stat(rec.Dir); err == nil {
			entry.LastModified = info.ModTime().Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ResolveTarget accepts either a project path or a literal identity
// token (as printed by list --with-id) and resolves it to one record.
func (l *Locator) ResolveTarget(target string) (*WorkspaceRecord, error) {
	if rec, err := l.FindByID(target); err == nil && rec != nil {
		return rec, nil
	}
	return l.ResolveOne(Canonicalize(target))
}
