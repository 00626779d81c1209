//go:build linux

package workpool

import (
	"runtime"

	"golang.org/x/sys/unix"
)

const fallbackThreadCount = 4

// RecommendedThreadCount returns the number of CPUs this process may run on.
func RecommendedThreadCount() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return fallbackThreadCount
}
