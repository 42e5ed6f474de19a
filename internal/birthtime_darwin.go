//go:build darwin

package internal

import (
	"math"

	"golang.org/x/sys/unix"
)

// birthtimeMillis returns the creation time of path in milliseconds,
// rounded the way JavaScript's Math.round would (the host computes the
// hash in Node). APFS and HFS+ always record a birth time, so the
// result is exact whenever the stat succeeds.
func birthtimeMillis(path string) (ms int64, exact bool, ok bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, false, false
	}
	sec, nsec := st.Birthtimespec.Unix()
	return int64(math.Round(float64(sec)*1000.0 + float64(nsec)/1e6)), true, true
}
