package internal

import "fmt"

// ValidationError reports a request the engine refused before touching
// the filesystem: ambiguous targets, destination collisions, missing
// confirmation. The CLI maps these to a distinct exit code.
type ValidationError struct {
	Op     string // "relocate", "reap", "restore"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Op, e.Reason)
}

// StorageError represents errors accessing storage files
type StorageError struct {
	Path string
	Op   string // "open", "read", "copy", "commit", "delete"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding host-written data
type ParseError struct {
	Source string // "workspace.json", "storage.json", "composerData"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ArchiveError represents errors reading or writing backup archives
type ArchiveError struct {
	Path string
	Op   string // "create", "extract", "manifest"
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive error [%s] %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// AmbiguousTargetError is returned when a path resolves to more than
// one workspace record. Resolution is a caller decision, never the
// engine's.
type AmbiguousTargetError struct {
	Path    string
	Matches []string // record identities
}

func (e *AmbiguousTargetError) Error() string {
	return fmt.Sprintf("path %s matches %d workspace records: %v", e.Path, len(e.Matches), e.Matches)
}
