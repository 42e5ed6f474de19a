package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ChatReader extracts conversation data from workspace records. It is
// strictly read-only and restartable: every call re-derives its results
// from storage, holding no cursor state between invocations.
type ChatReader struct {
	Paths StoragePaths
}

// NewChatReader creates a reader over the given storage layout
func NewChatReader(paths StoragePaths) *ChatReader {
	return &ChatReader{Paths: paths}
}

// ReadSessions returns the record's chat sessions in creation order,
// turns in conversation order. Session metadata lives in the record's
// own metadata store; message content lives in the global store. A
// corrupt or partially written session is skipped with a warning so one
// bad entry never blocks the rest.
func (cr *ChatReader) ReadSessions(rec *WorkspaceRecord, includeArchived bool) ([]*ChatSession, error) {
	dbPath := rec.DBPath()
	if _, err := os.Stat(dbPath); err != nil {
		return nil, nil
	}

	db, err := OpenDatabase(dbPath)
	if err != nil {
		return nil, &StorageError{Path: dbPath, Op: "open", Err: err}
	}
	defer db.Close()

	value, ok, err := QueryItemTableKey(db, "composer.composerData")
	if err != nil {
		return nil, &StorageError{Path: dbPath, Op: "read", Err: err}
	}
	if !ok {
		return nil, nil
	}

	entries, err := parseComposerIndex(value, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt < entries[j].CreatedAt
	})

	globalDB := cr.openGlobal()
	if globalDB != nil {
		defer globalDB.Close()
	}

	var sessions []*ChatSession
	for _, entry := range entries {
		session := &ChatSession{
			ID:        entry.ComposerID,
			Title:     entry.Name,
			CreatedAt: entry.CreatedAt / 1000,
			UpdatedAt: entry.LastUpdatedAt / 1000,
			Archived:  entry.IsArchived,
		}
		if globalDB != nil {
			turns, err := cr.readTurns(globalDB, entry.ComposerID)
			if err != nil {
				LogWarn("skipping corrupt session %s: %v", entry.ComposerID, err)
				continue
			}
			session.Turns = turns
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// openGlobal opens the global metadata store, or returns nil when it is
// absent or unreadable. Sessions still list without it; they just have
// no message content.
func (cr *ChatReader) openGlobal() *sql.DB {
	path := cr.Paths.GlobalStorageDBPath()
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	db, err := OpenDatabase(path)
	if err != nil {
		LogWarn("global storage unreadable, sessions will have no content: %v", err)
		return nil
	}
	return db
}

// readTurns walks a session's conversation headers and loads each
// bubble. A malformed header list fails the whole session (the caller
// skips it); a single bad bubble is dropped with a warning.
func (cr *ChatReader) readTurns(db *sql.DB, composerID string) ([]ChatTurn, error) {
	value, ok, err := QueryCursorDiskKVKey(db, "composerData:"+composerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil // session exists but has no recorded content
	}

	headers, err := parseConversationHeaders(value)
	if err != nil {
		return nil, err
	}

	var turns []ChatTurn
	for _, hdr := range headers {
		if hdr.BubbleID == "" {
			continue
		}
		key := fmt.Sprintf("bubbleId:%s:%s", composerID, hdr.BubbleID)
		bubbleValue, ok, err := QueryCursorDiskKVKey(db, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		turn, err := parseBubbleTurn(hdr.Type, bubbleValue)
		if err != nil {
			LogWarn("skipping malformed bubble %s: %v", key, err)
			continue
		}
		if turn.HasContent() {
			turns = append(turns, turn)
		}
	}
	return turns, nil
}

func parseConversationHeaders(value string) ([]conversationHeader, error) {
	var data struct {
		FullConversationHeadersOnly []conversationHeader `json:"fullConversationHeadersOnly"`
	}
	if err := json.Unmarshal([]byte(value), &data); err != nil {
		return nil, &ParseError{Source: "composerData", Key: "fullConversationHeadersOnly", Err: err}
	}
	return data.FullConversationHeadersOnly, nil
}
