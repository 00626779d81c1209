package animation

import (
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

const maxAnticipation timeline.Centiseconds = 20

// animateRough walks the rules forwards, picking from each set the shape
// closest to a slightly relaxed version of the previous one. Vowels with a
// single possible shape are anticipated: the walk backtracks up to
// maxAnticipation and spreads the vowel's shape into the rules before it
// while the chosen shapes still resemble it.
func animateRough(rules *timeline.ContinuousTimeline[ShapeRule]) *timeline.JoiningTimeline[speech.Shape] {
	shapes := timeline.NewJoiningTimeline(rules.Range(), shX)
	segments := rules.Segments()

	reference := shX
	lastAnticipatedStart := timeline.Centiseconds(-1)
	for i, segment := range segments {
		rule := segment.Value
		shape := ClosestShape(reference, rule.Shapes)
		shapes.Set(segment.Range, shape)

		if !rule.Phone.IsVowel() || rule.Shapes.Len() != 1 {
			reference = Relax(shape)
			continue
		}

		anticipatedStart := segment.Start()
		reference = shape
		for j := i - 1; j >= 0; j-- {
			earlier := segments[j]
			if earlier.Start() == lastAnticipatedStart || anticipatedStart-earlier.Start() > maxAnticipation {
				break
			}
			anticipating := ClosestShape(reference, earlier.Value.Shapes)
			shapes.Set(earlier.Range, anticipating)
			if BasicShape(anticipating) != BasicShape(shape) {
				break
			}
			reference = anticipating
		}
		lastAnticipatedStart = anticipatedStart
		reference = shape
	}
	return shapes
}
