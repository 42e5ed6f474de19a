package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Clone copies a workspace record to a new project path and then remaps
// the chat-session UUIDs inside the cloned metadata store, so the clone
// and the original accumulate history independently from that point on.
// An empty dest yields a synthetic sibling path next to the source.
func (m *Migrator) Clone(source *WorkspaceRecord, dest ProjectPath, dryRun bool) (*OperationResult, error) {
	if dest.Path == "" {
		if source == nil || !source.HasClaimedPath() {
			err := &ValidationError{Op: "relocate", Reason: "no destination and source has no claimed path"}
			return &OperationResult{Kind: "clone", SourceID: sourceID(MigrationPlan{Source: source}), Success: false, Reason: err.Error()}, err
		}
		dest = CloneDestination(source.Claimed)
	}

	result, err := m.Relocate(MigrationPlan{Source: source, Dest: dest, Mode: ModeCopy, DryRun: dryRun})
	if err != nil || dryRun || result.Kind == "noop" {
		if result != nil {
			result.Kind = "clone"
		}
		return result, err
	}
	result.Kind = "clone"

	cloned, err := LoadRecord(m.Paths.WorkspaceStorage, result.DestID)
	if err != nil {
		return result, err
	}
	remapped, err := RemapChatUUIDs(cloned.DBPath())
	if err != nil {
		// The clone itself is committed and usable; shared session ids
		// are a data-integrity warning, not a failure.
		LogWarn("clone committed but UUID remap failed: %v", err)
		return result, nil
	}
	if remapped > 0 {
		LogInfo("remapped %d chat session UUID(s)", remapped)
	}
	return result, nil
}

// CloneDestination derives the synthetic sibling path used when a clone
// target is not specified.
func CloneDestination(src ProjectPath) ProjectPath {
	return Canonicalize(src.Path + "-copy")
}

// RemapChatUUIDs rewrites the workbench.panel.aichat.* keys in a
// record's state.vscdb with fresh UUIDs. Returns the number of sessions
// remapped; a record without a metadata store remaps nothing.
func RemapChatUUIDs(dbPath string) (int, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return 0, nil
	}

	db, err := OpenDatabaseRW(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	pairs, err := QueryItemTable(db, "workbench.panel.aichat.%")
	if err != nil {
		return 0, err
	}

	uuidMap := make(map[string]string)
	for _, pair := range pairs {
		rest := strings.TrimPrefix(pair.Key, "workbench.panel.aichat.")
		old := rest
		if i := strings.Index(rest, "."); i >= 0 {
			old = rest[:i]
		}
		if old == "" {
			continue
		}
		if _, seen := uuidMap[old]; !seen {
			uuidMap[old] = uuid.NewString()
		}
	}

	for old, fresh := range uuidMap {
		oldPrefix := fmt.Sprintf("workbench.panel.aichat.%s.", old)
		newPrefix := fmt.Sprintf("workbench.panel.aichat.%s.", fresh)
		_, err := db.Exec(
			"UPDATE ItemTable SET key = REPLACE(key, ?, ?) WHERE key LIKE ?",
			oldPrefix, newPrefix, oldPrefix+"%",
		)
		if err != nil {
			return 0, fmt.Errorf("failed to remap session %s: %w", old, err)
		}
	}
	return len(uuidMap), nil
}

// CountChatSessions counts the distinct chat session UUIDs recorded in
// a workspace's metadata store.
func CountChatSessions(dbPath string) (int, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return 0, nil
	}

	db, err := OpenDatabase(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	pairs, err := QueryItemTable(db, "workbench.panel.aichat.%")
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{})
	for _, pair := range pairs {
		rest := strings.TrimPrefix(pair.Key, "workbench.panel.aichat.")
		id := rest
		if i := strings.Index(rest, "."); i >= 0 {
			id = rest[:i]
		}
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	return len(seen), nil
}
