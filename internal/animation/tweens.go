package animation

import (
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

const (
	minTweenDuration timeline.Centiseconds = 4
	maxTweenDuration timeline.Centiseconds = 8
)

// insertTweens adds an in-between shape at transitions that would otherwise
// look abrupt. Tweens that would be shorter than minTweenDuration are
// skipped.
func insertTweens(animation *timeline.JoiningTimeline[speech.Shape]) *timeline.JoiningTimeline[speech.Shape] {
	result := animation.Clone()
	segments := animation.Segments()
	for i := 0; i+1 < len(segments); i++ {
		first, second := segments[i], segments[i+1]
		shape, timing, ok := Tween(first.Value, second.Value)
		if !ok {
			continue
		}

		var start, duration timeline.Centiseconds
		switch timing {
		case TweenEarly:
			duration = min(first.Duration()/3, maxTweenDuration)
			start = first.End() - duration
		case TweenCentered:
			duration = min(first.Duration()/4, second.Duration()/4, maxTweenDuration)
			start = first.End() - duration/2
		case TweenLate:
			duration = min(second.Duration()/3, maxTweenDuration)
			start = second.Start()
		}
		if duration < minTweenDuration {
			continue
		}
		result.Set(timeline.MustTimeRange(start, start+duration), shape)
	}
	return result
}
