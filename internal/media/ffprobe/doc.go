// Package ffprobe reads audio metadata through the ffprobe binary.
//
// Inspect runs ffprobe against a recording and decodes its JSON report.
// Result exposes the first audio stream and the clip duration in
// centiseconds, which becomes the range every timeline of a run covers.
package ffprobe
