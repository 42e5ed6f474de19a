package internal

import (
	"net/url"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// PathKind distinguishes local folders from remote sessions
type PathKind int

const (
	KindLocal PathKind = iota
	KindRemote
)

// RemoteScheme identifies the remote session transport
type RemoteScheme string

const (
	SchemeSSH          RemoteScheme = "ssh"
	SchemeWSL          RemoteScheme = "wsl"
	SchemeDevContainer RemoteScheme = "devcontainer"
	SchemeTunnel       RemoteScheme = "tunnel"
)

// caseInsensitiveFS reports whether the platform's default filesystem
// compares paths case-insensitively. Variable so tests can exercise the
// folding behavior on any platform.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// ProjectPath is the canonical representation of a project location.
// Path holds the cleaned absolute path with original casing (used for
// filesystem access and URI generation); Normalized is the comparison
// form (case-folded on case-insensitive platforms). Raw preserves the
// user's input for diagnostics.
type ProjectPath struct {
	Kind       PathKind
	Scheme     RemoteScheme
	Host       string
	Path       string
	Normalized string
	Raw        string
}

// Canonicalize converts arbitrary user input into a ProjectPath. It never
// fails: anything that is not a recognized URI is treated as a local path
// relative to the current directory.
func Canonicalize(input string) ProjectPath {
	if strings.HasPrefix(input, "vscode-remote://") {
		if p, ok := parseRemoteURI(input); ok {
			return p
		}
	}
	if strings.HasPrefix(input, "file://") {
		if local, ok := fileURIToPath(input); ok {
			return canonicalizeLocal(local, input)
		}
	}
	return canonicalizeLocal(input, input)
}

func canonicalizeLocal(p, raw string) ProjectPath {
	p = stripExtendedPrefix(p)

	abs, err := filepath.Abs(p)
	if err != nil {
		// Abs only fails when the working directory is gone; fall back
		// to a lexical clean of the input.
		abs = filepath.Clean(p)
	}
	abs = trimTrailingSeparator(abs)

	return ProjectPath{
		Kind:       KindLocal,
		Path:       abs,
		Normalized: foldPathCase(abs),
		Raw:        raw,
	}
}

// parseRemoteURI handles the host application's vscode-remote:// form:
//
//	vscode-remote://ssh-remote+host/path
//	vscode-remote://wsl+Distro/path
//	vscode-remote://tunnel+name/path
//	vscode-remote://dev-container+{cfg}@ssh-remote+host/path
//
// The + is frequently stored percent-encoded as %2B.
func parseRemoteURI(input string) (ProjectPath, bool) {
	u, err := url.Parse(input)
	if err != nil || u.Scheme != "vscode-remote" {
		return ProjectPath{}, false
	}

	username := decodeComponent(u.User.Username())
	authority := decodeComponent(u.Host)

	var scheme RemoteScheme
	var host string
	switch {
	case strings.HasPrefix(username, "dev-container+"):
		// Container riding on another remote: the underlying host name
		// follows the + in the authority.
		scheme = SchemeDevContainer
		if i := strings.Index(authority, "+"); i >= 0 {
			host = authority[i+1:]
		} else {
			host = "container"
		}
	default:
		i := strings.Index(authority, "+")
		if i < 0 {
			return ProjectPath{}, false
		}
		host = authority[i+1:]
		switch authority[:i] {
		case "ssh-remote":
			scheme = SchemeSSH
		case "wsl":
			scheme = SchemeWSL
		case "tunnel":
			scheme = SchemeTunnel
		case "dev-container":
			scheme = SchemeDevContainer
		default:
			scheme = RemoteScheme(authority[:i])
		}
	}

	tail := path.Clean(u.Path)
	if tail == "." {
		tail = "/"
	}
	if tail != "/" {
		tail = strings.TrimSuffix(tail, "/")
	}

	return ProjectPath{
		Kind:       KindRemote,
		Scheme:     scheme,
		Host:       host,
		Path:       tail,
		Normalized: tail,
		Raw:        input,
	}, true
}

// Equal reports whether two ProjectPaths refer to the same project.
// Remote paths additionally require scheme and host to match; hosts
// compare case-insensitively.
func (p ProjectPath) Equal(other ProjectPath) bool {
	if p.Kind != other.Kind || p.Normalized != other.Normalized {
		return false
	}
	if p.Kind == KindRemote {
		return p.Scheme == other.Scheme && strings.EqualFold(p.Host, other.Host)
	}
	return true
}

// IsRemote reports whether this is a remote-session path
func (p ProjectPath) IsRemote() bool {
	return p.Kind == KindRemote
}

// Base returns the final path element (the project name)
func (p ProjectPath) Base() string {
	if p.Kind == KindRemote {
		return path.Base(p.Path)
	}
	return filepath.Base(p.Path)
}

// FolderURI renders the path in the form the host stores in
// workspace.json: file:// for local folders, vscode-remote:// with a
// %2B-encoded authority for remote sessions.
func (p ProjectPath) FolderURI() string {
	if p.Kind == KindRemote {
		u := url.URL{Path: p.Path}
		return "vscode-remote://" + strings.ReplaceAll(p.authority(), "+", "%2B") + u.EscapedPath()
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p.Path)}
	return u.String()
}

func (p ProjectPath) authority() string {
	switch p.Scheme {
	case SchemeSSH:
		return "ssh-remote+" + p.Host
	case SchemeDevContainer:
		return "dev-container+" + p.Host
	default:
		return string(p.Scheme) + "+" + p.Host
	}
}

// String returns the human-readable project path
func (p ProjectPath) String() string {
	return p.Path
}

// RemoteLabel returns a short "scheme:host" tag for display, or "-" for
// local paths.
func (p ProjectPath) RemoteLabel() string {
	if p.Kind != KindRemote {
		return "-"
	}
	return string(p.Scheme) + ":" + p.Host
}

// fileURIToPath converts a file:// URI into a local filesystem path
func fileURIToPath(input string) (string, bool) {
	u, err := url.Parse(input)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	p := u.Path
	if p == "" {
		return "", false
	}
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

// stripExtendedPrefix removes Windows extended-length path decorations
// (\\?\C:\... and \\?\UNC\server\share).
func stripExtendedPrefix(p string) string {
	if strings.HasPrefix(p, `\\?\UNC\`) {
		return `\\` + p[len(`\\?\UNC\`):]
	}
	if strings.HasPrefix(p, `\\?\`) {
		return p[len(`\\?\`):]
	}
	return p
}

func trimTrailingSeparator(p string) string {
	for len(p) > 1 && (p[len(p)-1] == '/' || p[len(p)-1] == filepath.Separator) {
		// Keep "C:\" intact on Windows
		if len(p) == 3 && p[1] == ':' {
			break
		}
		p = p[:len(p)-1]
	}
	return p
}

func foldPathCase(p string) string {
	if caseInsensitiveFS {
		return strings.ToLower(p)
	}
	return p
}

func decodeComponent(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}
