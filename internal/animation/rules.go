package animation

import (
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

// ShapeRule lists the shapes allowed over a span together with the phone
// that produced it. Silence has PhoneNone and a zero PhoneRange.
type ShapeRule struct {
	Shapes     speech.ShapeSet
	Phone      speech.Phone
	PhoneRange timeline.TimeRange
}

var silenceRule = ShapeRule{Shapes: speech.ShapesOf(shX)}

const (
	minOcclusion timeline.Centiseconds = 4
	maxOcclusion timeline.Centiseconds = 12
)

var (
	anyShape = speech.ShapesOf(shA, shB, shC, shD, shE, shF, shG, shH, shX)
	anyOpen  = speech.ShapesOf(shB, shC, shD, shE, shF, shG, shH)
)

func shapesOf(shapes ...speech.Shape) speech.ShapeSet {
	return speech.ShapesOf(shapes...)
}

// ShapeSets returns the shape sets animating phone, timed relative to the
// phone's start. Plosives reach back before zero to close the mouth ahead
// of the release; previous is the duration of the preceding segment.
func ShapeSets(phone speech.Phone, duration, previous timeline.Centiseconds) []timeline.Timed[speech.ShapeSet] {
	single := func(set speech.ShapeSet) []timeline.Timed[speech.ShapeSet] {
		return []timeline.Timed[speech.ShapeSet]{timeline.At(0, duration, set)}
	}
	diphthong := func(first, second speech.ShapeSet) []timeline.Timed[speech.ShapeSet] {
		split := duration * 6 / 10
		return []timeline.Timed[speech.ShapeSet]{
			timeline.At(0, split, first),
			timeline.At(split, duration, second),
		}
	}
	plosive := func(occlusion, release speech.ShapeSet) []timeline.Timed[speech.ShapeSet] {
		hold := min(max(previous/2, minOcclusion), maxOcclusion)
		return []timeline.Timed[speech.ShapeSet]{
			timeline.At(-hold, 0, occlusion),
			timeline.At(0, duration, release),
		}
	}

	switch phone {
	case speech.PhoneNone:
		return single(shapesOf(shX))

	case speech.PhoneAO:
		return single(shapesOf(shE))
	case speech.PhoneAA:
		return single(shapesOf(shD))
	case speech.PhoneIY:
		return single(shapesOf(shB))
	case speech.PhoneUW:
		return single(shapesOf(shF))
	case speech.PhoneEH:
		return single(shapesOf(shC))
	case speech.PhoneIH:
		return single(shapesOf(shB))
	case speech.PhoneUH:
		return single(shapesOf(shF))
	case speech.PhoneAH:
		if duration < 20 {
			return single(shapesOf(shC))
		}
		return single(shapesOf(shD))
	case speech.PhoneSchwa:
		return single(shapesOf(shB, shC))
	case speech.PhoneAE:
		return single(shapesOf(shC))
	case speech.PhoneEY:
		return diphthong(shapesOf(shC), shapesOf(shB))
	case speech.PhoneAY:
		if duration < 20 {
			return diphthong(shapesOf(shC), shapesOf(shB))
		}
		return diphthong(shapesOf(shD), shapesOf(shB))
	case speech.PhoneOW:
		return single(shapesOf(shF))
	case speech.PhoneAW:
		if duration < 30 {
			return diphthong(shapesOf(shC), shapesOf(shE))
		}
		return diphthong(shapesOf(shD), shapesOf(shE))
	case speech.PhoneOY:
		return diphthong(shapesOf(shE), shapesOf(shB))
	case speech.PhoneER:
		if duration < 7 {
			return ShapeSets(speech.PhoneSchwa, duration, previous)
		}
		return single(shapesOf(shE))

	case speech.PhoneP, speech.PhoneB:
		return plosive(shapesOf(shA), anyShape)
	case speech.PhoneT, speech.PhoneD:
		return plosive(shapesOf(shB, shF), anyOpen)
	case speech.PhoneK, speech.PhoneG:
		return plosive(shapesOf(shB, shC, shE, shF, shH), anyOpen)
	case speech.PhoneCH, speech.PhoneJH:
		return single(shapesOf(shB, shF))
	case speech.PhoneF, speech.PhoneV:
		return single(shapesOf(shG))
	case speech.PhoneTH, speech.PhoneDH, speech.PhoneS, speech.PhoneZ, speech.PhoneSH, speech.PhoneZH:
		return single(shapesOf(shB, shF))
	case speech.PhoneHH:
		// m-hm
		return single(anyShape)
	case speech.PhoneM:
		return single(shapesOf(shA))
	case speech.PhoneN:
		return single(shapesOf(shB, shC, shF, shH))
	case speech.PhoneNG:
		return single(shapesOf(shB, shC, shE, shF))
	case speech.PhoneL:
		if duration < 20 {
			return single(shapesOf(shB, shE, shF, shH))
		}
		return single(shapesOf(shH))
	case speech.PhoneR:
		return single(shapesOf(shB, shE, shF))
	case speech.PhoneY:
		return single(shapesOf(shB, shC, shF))
	case speech.PhoneW:
		return single(shapesOf(shF))

	case speech.PhoneBreath, speech.PhoneCough, speech.PhoneSmack:
		return single(shapesOf(shC))
	default:
		return single(shapesOf(shB))
	}
}

// ShapeRules lays the shape sets of every phone over the phone timeline.
// Silence keeps the X rule. Where a plosive reaches back into the previous
// phone, the later rule wins.
func ShapeRules(phones *timeline.ContinuousTimeline[speech.Phone]) *timeline.ContinuousTimeline[ShapeRule] {
	rules := timeline.NewContinuousTimeline(phones.Range(), silenceRule)
	var previous timeline.Centiseconds
	for segment := range phones.All() {
		duration := segment.Duration()
		if segment.Value != speech.PhoneNone {
			for _, set := range ShapeSets(segment.Value, duration, previous) {
				rules.Set(set.Range.Shifted(segment.Start()), ShapeRule{
					Shapes:     set.Value,
					Phone:      segment.Value,
					PhoneRange: segment.Range,
				})
			}
		}
		previous = duration
	}
	return rules
}

func convertRules(rules *timeline.ContinuousTimeline[ShapeRule], targets speech.ShapeSet) *timeline.ContinuousTimeline[ShapeRule] {
	result := rules.Clone()
	for segment := range rules.All() {
		rule := segment.Value
		var converted speech.ShapeSet
		for _, shape := range rule.Shapes.Shapes() {
			converted = converted.With(ConvertToTargetShapeSet(shape, targets))
		}
		rule.Shapes = converted
		result.Set(segment.Range, rule)
	}
	return result
}
