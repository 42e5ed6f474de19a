//go:build linux

package internal

import (
	"math"

	"golang.org/x/sys/unix"
)

// birthtimeMillis returns the creation time of path in milliseconds,
// rounded the way JavaScript's Math.round would (the host computes the
// hash in Node). Linux only exposes a true birth time through statx and
// only on filesystems that record one; when it is missing we fall back
// to the inode change time, which drifts on metadata updates, so the
// result is reported as inexact.
func birthtimeMillis(path string) (ms int64, exact bool, ok bool) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_CTIME, &stx)
	if err != nil {
		return 0, false, false
	}

	if stx.Mask&unix.STATX_BTIME != 0 && (stx.Btime.Sec != 0 || stx.Btime.Nsec != 0) {
		return roundMillis(stx.Btime.Sec, int64(stx.Btime.Nsec)), true, true
	}
	if stx.Mask&unix.STATX_CTIME != 0 {
		return roundMillis(stx.Ctime.Sec, int64(stx.Ctime.Nsec)), false, true
	}
	return 0, false, false
}

func roundMillis(sec, nsec int64) int64 {
	return int64(math.Round(float64(sec)*1000.0 + float64(nsec)/1e6))
}
