package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/cursor-workspace/testutil"
)

func TestQueryItemTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	seed := testutil.OpenStateDB(t, dbPath)
	testutil.InsertItem(t, seed, "prefix.one", "1")
	testutil.InsertItem(t, seed, "prefix.two", "2")
	testutil.InsertItem(t, seed, "other.key", "3")
	if err := seed.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	defer db.Close()

	pairs, err := QueryItemTable(db, "prefix.%")
	if err != nil {
		t.Fatalf("QueryItemTable: %v", err)
	}
	if len(pairs) != 2 {
		t.Errorf("got %d pairs, want 2", len(pairs))
	}
}

func TestQueryItemTableKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	seed := testutil.OpenStateDB(t, dbPath)
	testutil.InsertItem(t, seed, "the.key", "the value")
	if err := seed.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	defer db.Close()

	value, ok, err := QueryItemTableKey(db, "the.key")
	if err != nil || !ok || value != "the value" {
		t.Errorf("present key: %q, %v, %v", value, ok, err)
	}

	value, ok, err = QueryItemTableKey(db, "absent.key")
	if err != nil {
		t.Errorf("absent key should not error: %v", err)
	}
	if ok || value != "" {
		t.Errorf("absent key: %q, %v", value, ok)
	}
}

func TestQueryCursorDiskKVKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	seed := testutil.OpenStateDB(t, dbPath)
	testutil.InsertDiskKV(t, seed, "composerData:c1", `{"x": 1}`)
	if err := seed.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	defer db.Close()

	value, ok, err := QueryCursorDiskKVKey(db, "composerData:c1")
	if err != nil || !ok || value != `{"x": 1}` {
		t.Errorf("present key: %q, %v, %v", value, ok, err)
	}
	_, ok, err = QueryCursorDiskKVKey(db, "composerData:nope")
	if err != nil || ok {
		t.Errorf("absent key: %v, %v", ok, err)
	}
}
