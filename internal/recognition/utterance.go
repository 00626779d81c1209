package recognition

import (
	"lipsync/internal/timeline"
)

// Utterance is one independently recognized span of the clip.
type Utterance struct {
	Index int
	Range timeline.TimeRange
}

// SplitUtterances divides clip into the smallest number of consecutive
// utterances no longer than maxLength, spreading the length evenly. A
// non-positive maxLength yields the whole clip as one utterance and an empty
// clip yields none.
func SplitUtterances(clip timeline.TimeRange, maxLength timeline.Centiseconds) []Utterance {
	if clip.Empty() {
		return nil
	}
	total := int64(clip.Duration())
	count := int64(1)
	if maxLength > 0 {
		count = (total + int64(maxLength) - 1) / int64(maxLength)
	}

	utterances := make([]Utterance, 0, count)
	start := clip.Start()
	for i := range count {
		end := clip.Start() + timeline.Centiseconds(total*(i+1)/count)
		utterances = append(utterances, Utterance{
			Index: int(i),
			Range: timeline.MustTimeRange(start, end),
		})
		start = end
	}
	return utterances
}
