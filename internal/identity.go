package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// WorkspaceIdentity is the directory-name token the host application
// derives from a project path. Approximate identities were computed
// without reliable birth-time metadata and are not guaranteed to match
// the host's own value; callers must fall back to a claimed-path scan
// when an approximate identity misses (see Locator.FindByPath).
type WorkspaceIdentity struct {
	Hash        string
	Approximate bool
}

// IdentityHasher computes a WorkspaceIdentity from a canonical path.
// The host's scheme is an external, versioned black box; keeping it
// behind this interface lets future scheme revisions slot in without
// touching the locator or migrator.
type IdentityHasher interface {
	Compute(p ProjectPath) WorkspaceIdentity
}

// BirthtimeHasher reproduces the host's published scheme:
// MD5(absolutePath + round(birthtimeMs)). It never fails; when the
// filesystem cannot supply a dependable birth time the result degrades
// to a path-only hash flagged Approximate.
type BirthtimeHasher struct{}

// NewHasher returns the default identity hasher
func NewHasher() IdentityHasher {
	return BirthtimeHasher{}
}

// Compute derives the workspace identity for a path. Remote paths have
// no local metadata and are always approximate.
func (BirthtimeHasher) Compute(p ProjectPath) WorkspaceIdentity {
	hashInput := hashPath(p)

	if p.Kind == KindRemote {
		return WorkspaceIdentity{Hash: md5Hex(hashInput), Approximate: true}
	}

	ms, exact, ok := birthtimeMillis(p.Path)
	if !ok {
		return WorkspaceIdentity{Hash: md5Hex(hashInput), Approximate: true}
	}

	return WorkspaceIdentity{
		Hash:        md5Hex(hashInput + strconv.FormatInt(ms, 10)),
		Approximate: !exact,
	}
}

// hashPath returns the path string the host feeds into the hash. On
// Windows the host lowercases the drive letter (c: not C:).
func hashPath(p ProjectPath) string {
	s := p.Path
	if len(s) >= 2 && s[1] == ':' && s[0] >= 'A' && s[0] <= 'Z' {
		s = string(s[0]+('a'-'A')) + s[1:]
	}
	return s
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
