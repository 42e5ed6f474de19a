package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS ItemTable (
	key TEXT PRIMARY KEY,
	value TEXT
);
CREATE TABLE IF NOT EXISTS cursorDiskKV (
	key TEXT PRIMARY KEY,
	value TEXT
);`

// CreateStateDB creates a state.vscdb at path with Cursor's two
// key-value tables and closes it again.
func CreateStateDB(t *testing.T, path string) {
	t.Helper()
	db := OpenStateDB(t, path)
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}
}

// OpenStateDB opens (creating if needed) a state.vscdb with Cursor's
// two key-value tables. The caller closes it.
func OpenStateDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database %s: %v", path, err)
	}
	if _, err := db.Exec(createTablesSQL); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to create tables: %v", err)
	}
	return db
}

// InsertItem inserts a row into ItemTable
func InsertItem(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT OR REPLACE INTO ItemTable (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert ItemTable row %s: %v", key, err)
	}
}

// InsertDiskKV inserts a row into cursorDiskKV
func InsertDiskKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT OR REPLACE INTO cursorDiskKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert cursorDiskKV row %s: %v", key, err)
	}
}
