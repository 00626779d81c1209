// Package animation turns a phone timeline into a mouth shape timeline.
//
// Every phone yields one or more timed shape sets (ShapeRules). A forward
// pass picks concrete shapes from those sets, anticipating vowels; later
// passes fix flickering timing, bridge short pauses, insert tweens and
// restrict the result to the target shape set. Animations that hold one
// shape over several syllables are retried with alternative vowel shapes.
package animation

import (
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
	"lipsync/internal/workpool"
)

// ConvertToTargetShapeSet replaces shape with its basic shape when targets
// lacks it. Basic shapes are always available.
func ConvertToTargetShapeSet(shape speech.Shape, targets speech.ShapeSet) speech.Shape {
	if targets.Contains(shape) {
		return shape
	}
	return BasicShape(shape)
}

func convertAnimation(animation *timeline.JoiningTimeline[speech.Shape], targets speech.ShapeSet) *timeline.JoiningTimeline[speech.Shape] {
	result := timeline.NewJoiningTimeline(animation.Range(), ConvertToTargetShapeSet(shX, targets))
	for segment := range animation.All() {
		result.Set(segment.Range, ConvertToTargetShapeSet(segment.Value, targets))
	}
	return result
}

// Animate produces the mouth animation for phones using only shapes in
// targets. The result covers the same range as phones. Alternative
// animations tried against static stretches run on pool when it is not nil;
// pool must not be running other jobs.
func Animate(phones *timeline.ContinuousTimeline[speech.Phone], targets speech.ShapeSet, pool *workpool.Pool) *timeline.JoiningTimeline[speech.Shape] {
	// X stays available until the last pass because pauses are built on it.
	rules := convertRules(ShapeRules(phones), targets.With(shX))

	animate := func(rules *timeline.ContinuousTimeline[ShapeRule]) *timeline.JoiningTimeline[speech.Shape] {
		animation := animateRough(rules)
		animation = optimizeTiming(animation)
		animation = animatePauses(animation)
		animation = insertTweens(animation)
		return convertAnimation(animation, targets)
	}
	return avoidStaticSegments(rules, animate, pool)
}
