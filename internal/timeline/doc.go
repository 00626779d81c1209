// Package timeline holds the time algebra every processing stage shares.
//
// Centiseconds is the fixed-point coordinate (1/100 s) used throughout the
// tool. TimeRange is a validated half-open interval over it, and Timed pairs a
// value with a range. ContinuousTimeline partitions a fixed range into
// consecutive segments with no gaps, filling untouched time with a default
// value; JoiningTimeline additionally merges neighbours that carry equal
// values, so a held mouth shape is always a single segment.
//
// Timelines are not safe for concurrent mutation. Jobs that run in parallel
// should each build their own timeline and merge the results on the calling
// goroutine.
package timeline
