// Package phonecache stores recognized phones per utterance in SQLite so a
// repeated run over the same audio skips the recognizer.
//
// Entries are keyed by the audio fingerprint, the utterance range, the
// recognizer name and the dialog fingerprint. Open takes a shared file lock
// next to the database for the lifetime of the cache; Purge takes the same
// lock exclusively, so a purge never removes a database another run is
// using.
package phonecache
