package internal

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/iksnae/cursor-workspace/testutil"
)

// seedChatStorage builds a workspace record with three sessions. The
// second session's global content record is corrupt JSON.
func seedChatStorage(t *testing.T, paths StoragePaths) *WorkspaceRecord {
	t.Helper()

	project := filepath.Join(t.TempDir(), "proj")
	testutil.CreateProjectDir(t, project)
	dir := testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "rec111", "file://"+filepath.ToSlash(project))

	wsDB := testutil.OpenStateDB(t, filepath.Join(dir, "state.vscdb"))
	testutil.InsertItem(t, wsDB, "composer.composerData", `{
		"allComposers": [
			{"composerId": "c1", "name": "First", "createdAt": 1000000, "lastUpdatedAt": 2000000},
			{"composerId": "c2", "name": "Broken", "createdAt": 3000000},
			{"composerId": "c3", "name": "Third", "createdAt": 5000000, "isArchived": true}
		]
	}`)
	if err := wsDB.Close(); err != nil {
		t.Fatalf("close workspace db: %v", err)
	}

	globalDB := testutil.OpenStateDB(t, paths.GlobalStorageDBPath())
	testutil.InsertDiskKV(t, globalDB, "composerData:c1",
		`{"fullConversationHeadersOnly": [{"bubbleId": "b1", "type": 1}, {"bubbleId": "b2", "type": 2}]}`)
	testutil.InsertDiskKV(t, globalDB, "bubbleId:c1:b1",
		`{"text": "hello", "createdAt": "2026-02-01T10:00:00Z"}`)
	testutil.InsertDiskKV(t, globalDB, "bubbleId:c1:b2",
		`{"text": "hi back", "thinking": {"text": "pondering"}, "thinkingDurationMs": 1500,
		  "modelInfo": {"modelName": "gpt-test"}, "tokenCount": {"inputTokens": 10, "outputTokens": 20}}`)
	testutil.InsertDiskKV(t, globalDB, "composerData:c2", `{"fullConversationHeadersOnly": not-json`)
	testutil.InsertDiskKV(t, globalDB, "composerData:c3",
		`{"fullConversationHeadersOnly": [{"bubbleId": "b9", "type": 1}]}`)
	testutil.InsertDiskKV(t, globalDB, "bubbleId:c3:b9", `{"text": "archived words"}`)
	if err := globalDB.Close(); err != nil {
		t.Fatalf("close global db: %v", err)
	}

	rec, err := LoadRecord(paths.WorkspaceStorage, "rec111")
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	return rec
}

func TestReadSessionsSkipsCorrupt(t *testing.T) {
	base := testutil.CreateStorageLayout(t)
	paths, err := GetStoragePaths(base)
	if err != nil {
		t.Fatalf("GetStoragePaths: %v", err)
	}
	rec := seedChatStorage(t, paths)

	sessions, err := NewChatReader(paths).ReadSessions(rec, true)
	if err != nil {
		t.Fatalf("ReadSessions: %v", err)
	}

	// c2 is corrupt and skipped; c1 and c3 survive in creation order.
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "c1" || sessions[1].ID != "c3" {
		t.Errorf("session order = %s, %s; want c1, c3", sessions[0].ID, sessions[1].ID)
	}
}

func TestReadSessionsTurns(t *testing.T) {
	base := testutil.CreateStorageLayout(t)
	paths, err := GetStoragePaths(base)
	if err != nil {
		t.Fatalf("GetStoragePaths: %v", err)
	}
	rec := seedChatStorage(t, paths)

	sessions, err := NewChatReader(paths).ReadSessions(rec, false)
	if err != nil {
		t.Fatalf("ReadSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions without archived, want 1", len(sessions))
	}

	s := sessions[0]
	if s.Title != "First" || s.CreatedAt != 1000 || s.UpdatedAt != 2000 {
		t.Errorf("session metadata = %+v", s)
	}
	if len(s.Turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(s.Turns))
	}

	user := s.Turns[0]
	if user.Role != "user" || user.Text != "hello" {
		t.Errorf("user turn = %+v", user)
	}
	if user.Timestamp == 0 {
		t.Error("user turn lost its timestamp")
	}
	if user.Thinking != nil || user.Tokens != nil {
		t.Error("user turn carries fields the bubble never had")
	}

	assistant := s.Turns[1]
	if assistant.Role != "assistant" || assistant.Text != "hi back" {
		t.Errorf("assistant turn = %+v", assistant)
	}
	if assistant.Thinking == nil || assistant.Thinking.Text != "pondering" || assistant.Thinking.DurationMs != 1500 {
		t.Errorf("thinking = %+v", assistant.Thinking)
	}
	if assistant.Model != "gpt-test" {
		t.Errorf("model = %q", assistant.Model)
	}
	if assistant.Tokens == nil || assistant.Tokens.Input != 10 || assistant.Tokens.Output != 20 {
		t.Errorf("tokens = %+v", assistant.Tokens)
	}
}

func TestReadSessionsArchivedFilter(t *testing.T) {
	base := testutil.CreateStorageLayout(t)
	paths, err := GetStoragePaths(base)
	if err != nil {
		t.Fatalf("GetStoragePaths: %v", err)
	}
	rec := seedChatStorage(t, paths)
	reader := NewChatReader(paths)

	withArchived, err := reader.ReadSessions(rec, true)
	if err != nil {
		t.Fatalf("ReadSessions(archived): %v", err)
	}
	withoutArchived, err := reader.ReadSessions(rec, false)
	if err != nil {
		t.Fatalf("ReadSessions: %v", err)
	}
	if len(withArchived) != len(withoutArchived)+1 {
		t.Errorf("archived filter: %d vs %d sessions", len(withArchived), len(withoutArchived))
	}
}

func TestReadSessionsNoDB(t *testing.T) {
	base := testutil.CreateStorageLayout(t)
	paths, err := GetStoragePaths(base)
	if err != nil {
		t.Fatalf("GetStoragePaths: %v", err)
	}
	testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "bare111", "file:///home/dev/bare")
	rec, err := LoadRecord(paths.WorkspaceStorage, "bare111")
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	sessions, err := NewChatReader(paths).ReadSessions(rec, false)
	if err != nil {
		t.Fatalf("record without db should not error: %v", err)
	}
	if sessions != nil {
		t.Errorf("got %d sessions, want none", len(sessions))
	}
}

func TestReadSessionsNoGlobalStorage(t *testing.T) {
	base := testutil.CreateStorageLayout(t)
	paths, err := GetStoragePaths(base)
	if err != nil {
		t.Fatalf("GetStoragePaths: %v", err)
	}

	dir := testutil.CreateRecordFixture(t, paths.WorkspaceStorage, "rec111", "file:///home/dev/app")
	wsDB := testutil.OpenStateDB(t, filepath.Join(dir, "state.vscdb"))
	testutil.InsertItem(t, wsDB, "composer.composerData", fmt.Sprintf(
		`{"allComposers": [{"composerId": "c1", "name": "Solo", "createdAt": %d}]}`, int64(1000000)))
	if err := wsDB.Close(); err != nil {
		t.Fatalf("close workspace db: %v", err)
	}

	rec, err := LoadRecord(paths.WorkspaceStorage, "rec111")
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	// No global state.vscdb at all: sessions list with empty turns.
	sessions, err := NewChatReader(paths).ReadSessions(rec, false)
	if err != nil {
		t.Fatalf("ReadSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if len(sessions[0].Turns) != 0 {
		t.Errorf("turns without global storage = %d, want 0", len(sessions[0].Turns))
	}
}
