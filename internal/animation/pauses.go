package animation

import (
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

const (
	// Pauses shorter than this hold the previous shape.
	maxHeldPause timeline.Centiseconds = 12
	// Pauses up to this long relax the mouth instead of closing it.
	maxRelaxedPause timeline.Centiseconds = 35
)

// animatePauses replaces idle shapes between two spoken shapes. Only pauses
// longer than maxRelaxedPause close the mouth.
func animatePauses(animation *timeline.JoiningTimeline[speech.Shape]) *timeline.JoiningTimeline[speech.Shape] {
	result := animation.Clone()
	segments := animation.Segments()
	for i := 1; i+1 < len(segments); i++ {
		pause := segments[i]
		if pause.Value != shX {
			continue
		}
		result.Set(pause.Range, pauseShape(segments[i-1].Value, segments[i+1].Value, pause.Duration()))
	}
	return result
}

func pauseShape(previous, next speech.Shape, duration timeline.Centiseconds) speech.Shape {
	if duration < maxHeldPause {
		return previous
	}
	if duration <= maxRelaxedPause {
		// A pause shape equal to the next shape would look like a hold.
		for current := previous; ; {
			relaxed := Relax(current)
			if relaxed != next {
				return relaxed
			}
			if relaxed == current {
				break
			}
			current = relaxed
		}
	}
	return shX
}
