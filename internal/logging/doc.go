// Package logging assembles the structured slog loggers used across lipsync.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so recognition jobs tag their
// lines with the run ID, stage and utterance index. Console output goes to
// stderr because stdout carries export data. A run can additionally tee every
// record at debug level into a JSON log file.
//
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
