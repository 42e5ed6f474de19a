package internal

import (
	"os"
	"sort"
)

// RecordStatus classifies a workspace record against the filesystem
type RecordStatus int

const (
	StatusLive RecordStatus = iota
	StatusOrphaned
)

func (s RecordStatus) String() string {
	if s == StatusOrphaned {
		return "orphaned"
	}
	return "live"
}

// Classification pairs a record with its live/orphaned status and size
type Classification struct {
	Record *WorkspaceRecord
	Status RecordStatus
	Size   int64
}

// Reaper finds and removes workspace records whose projects are gone
type Reaper struct {
	locator *Locator
}

// NewReaper creates a reaper over the given storage layout
func NewReaper(paths StoragePaths) *Reaper {
	return &Reaper{locator: NewLocator(paths)}
}

// ClassifyAll inspects every record under the storage root. A record is
// orphaned when its claimed local path no longer exists; remote records
// are always live because reachability is never probed. Records with no
// claimed path at all (multi-root or partially written) are kept live:
// deleting what we cannot attribute is not the engine's call.
func (r *Reaper) ClassifyAll() ([]Classification, error) {
	records, err := r.locator.All()
	if err != nil {
		return nil, err
	}

	var result []Classification
	for _, rec := range records {
		status := StatusLive
		if rec.HasClaimedPath() && !rec.Claimed.IsRemote() {
			if _, err := os.Stat(rec.Claimed.Path); os.IsNotExist(err) {
				status = StatusOrphaned
			}
		}
		c := Classification{Record: rec, Status: status}
		if status == StatusOrphaned {
			c.Size = rec.Size()
		}
		result = append(result, c)
	}

	// Orphans largest-first so the listing leads with what is worth
	// reclaiming.
	sort.SliceStable(result, func(i, j int) bool {
		if (result[i].Status == StatusOrphaned) != (result[j].Status == StatusOrphaned) {
			return result[i].Status == StatusOrphaned
		}
		return result[i].Size > result[j].Size
	})
	return result, nil
}

// Orphans filters a classification down to the orphaned records
func Orphans(all []Classification) []Classification {
	var orphans []Classification
	for _, c := range all {
		if c.Status == StatusOrphaned {
			orphans = append(orphans, c)
		}
	}
	return orphans
}

// Reap deletes the given orphaned records. Deletion is irreversible, so
// it refuses to run without confirmation. Live records in the input are
// skipped, never deleted. Returns the count actually removed; per-record
// failures are logged and do not stop the sweep.
func (r *Reaper) Reap(records []Classification, confirmed bool) (int, error) {
	if !confirmed {
		return 0, &ValidationError{Op: "reap", Reason: "deletion requires confirmation"}
	}

	deleted := 0
	for _, c := range records {
		if c.Status != StatusOrphaned {
			continue
		}
		if err := os.RemoveAll(c.Record.Dir); err != nil {
			LogError("failed to delete %s: %v", c.Record.Dir, err)
			continue
		}
		LogInfo("deleted %s (%s)", c.Record.ID, FormatSize(c.Size))
		deleted++
	}
	return deleted, nil
}
