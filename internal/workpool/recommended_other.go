//go:build !linux

package workpool

import "runtime"

const fallbackThreadCount = 4

// RecommendedThreadCount returns the number of logical CPUs.
func RecommendedThreadCount() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return fallbackThreadCount
}
