package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// OpenDatabaseRW opens a SQLite database for writing. Only the clone
// UUID remap uses this; every other access path is read-only.
func OpenDatabaseRW(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// KeyValuePair is one row from an ItemTable or cursorDiskKV query
type KeyValuePair struct {
	Key   string
	Value string
}

// QueryItemTable reads rows from the per-workspace ItemTable matching a
// LIKE pattern.
func QueryItemTable(db *sql.DB, pattern string) ([]KeyValuePair, error) {
	return queryKV(db, "SELECT key, value FROM ItemTable WHERE key LIKE ? AND value IS NOT NULL", pattern)
}

// QueryItemTableKey reads a single ItemTable value by exact key.
// Returns ("", false, nil) when the key is absent.
func QueryItemTableKey(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM ItemTable WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	return value.String, value.Valid, nil
}

// QueryCursorDiskKV reads rows from the global cursorDiskKV table
// matching a LIKE pattern.
func QueryCursorDiskKV(db *sql.DB, pattern string) ([]KeyValuePair, error) {
	return queryKV(db, "SELECT key, value FROM cursorDiskKV WHERE key LIKE ? AND value IS NOT NULL", pattern)
}

// QueryCursorDiskKVKey reads a single cursorDiskKV value by exact key
func QueryCursorDiskKVKey(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM cursorDiskKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	return value.String, value.Valid, nil
}

func queryKV(db *sql.DB, query, pattern string) ([]KeyValuePair, error) {
	rows, err := db.Query(query, pattern)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return pairs, nil
}
