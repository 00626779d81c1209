// Package recognition turns an audio clip into a phone timeline.
//
// The clip is split into utterances of bounded length. Each utterance is a
// job on a workpool.Pool: it consults the phone cache, falls back to the
// configured recognizer and keeps its phones in a slot owned by that job.
// Per-utterance progress is merged by duration into one progress sink. Once
// every job has finished the calling goroutine assembles the slots into a
// ContinuousTimeline whose gaps are silence.
package recognition
