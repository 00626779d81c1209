// Package services defines shared utilities consumed by the animation pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and utterance
//     labels for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (invalid argument vs external tool vs configuration).
//   - MessageChain, which renders a wrapped error as one line per cause so the
//     CLI can show where a failure started and what it interrupted.
//
// Subpackages hold the thin adapters around external tools (the phone
// recognizer) so they can be swapped or stubbed in tests.
package services
