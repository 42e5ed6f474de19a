//go:build !linux && !darwin

package internal

import (
	"math"
	"os"
)

// birthtimeMillis falls back to the file modification time on platforms
// without a birth-time probe. The result is always inexact; the locator's
// claimed-path scan covers the inevitable hash mismatches.
func birthtimeMillis(path string) (ms int64, exact bool, ok bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false, false
	}
	return int64(math.Round(float64(info.ModTime().UnixNano()) / 1e6)), false, true
}
