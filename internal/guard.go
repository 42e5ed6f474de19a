package internal

import (
	"os/exec"
	"runtime"
	"strings"
)

// HostRunning reports whether the Cursor application appears to be
// running. Migrations refuse to proceed while it is, since the host may
// rewrite storage at any moment and honors no lock file.
func HostRunning() bool {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("pgrep", "-x", "Cursor").Run() == nil
	case "linux":
		return exec.Command("pgrep", "-x", "cursor").Run() == nil
	case "windows":
		out, err := exec.Command("tasklist", "/FI", "IMAGENAME eq Cursor.exe").Output()
		return err == nil && strings.Contains(string(out), "Cursor.exe")
	default:
		return false
	}
}
