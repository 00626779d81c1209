package animation

import (
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

type mouthState uint8

const (
	mouthIdle mouthState = iota
	mouthClosed
	mouthOpen
)

func mouthStateOf(shape speech.Shape) mouthState {
	switch shape {
	case shX:
		return mouthIdle
	case shA:
		return mouthClosed
	default:
		return mouthOpen
	}
}

const (
	// Open or closed stretches shorter than this do not register visually.
	minSegmentDuration timeline.Centiseconds = 8
	// How far a short stretch may be pulled forward into its predecessor.
	maxExtension timeline.Centiseconds = 6
	// Below this shapes flicker.
	minShapeDuration timeline.Centiseconds = 7
)

// optimizeTiming stretches open and closed mouth segments that are too short
// to see and retimes the shapes inside every segment so none of them
// flickers. It fills the result right to left.
func optimizeTiming(animation *timeline.JoiningTimeline[speech.Shape]) *timeline.JoiningTimeline[speech.Shape] {
	states := timeline.NewJoiningTimeline(animation.Range(), mouthIdle)
	for segment := range animation.All() {
		states.Set(segment.Range, mouthStateOf(segment.Value))
	}
	segments := states.Segments()
	source := animation.Segments()

	result := timeline.NewJoiningTimeline(animation.Range(), shX)
	resultStart := animation.Range().End()
	for i := len(segments) - 1; i >= 0; i-- {
		segment := segments[i]
		if segment.Value == mouthIdle {
			continue
		}

		resultStart = min(segment.End(), resultStart)
		if resultStart-segment.Start() >= minSegmentDuration {
			target := timeline.MustTimeRange(segment.Start(), resultStart)
			paste(result, retime(source, segment.Range, target))
			resultStart = target.Start()
			continue
		}

		// Collect the run of short segments ending here and share out the
		// time they can borrow from the segment before the run.
		end := i - 1
		for end >= 0 && segments[end].Value != mouthIdle && segments[end].Duration() < minSegmentDuration {
			end--
		}
		leftmost := segments[end+1]
		desired := minSegmentDuration*timeline.Centiseconds(i-end) - (segment.End() - leftmost.Start())
		var available timeline.Centiseconds
		if end >= 0 {
			available = segments[end].Duration() - 1
		}
		targetStart := leftmost.Start() - min(desired, available, maxExtension)
		for k := i; k > end; k-- {
			span := max((resultStart-targetStart)/timeline.Centiseconds(k-end), 0)
			target := timeline.MustTimeRange(resultStart-span, resultStart)
			paste(result, retime(source, segments[k].Range, target))
			resultStart = target.Start()
		}
		i = end + 1
	}
	return result
}

func paste(dst, src *timeline.JoiningTimeline[speech.Shape]) {
	for segment := range src.All() {
		dst.SetTimed(segment)
	}
}

// retime fits the shapes animation holds over sourceRange into target,
// walking backwards and dropping shapes too short to keep.
func retime(animation []timeline.Timed[speech.Shape], sourceRange, target timeline.TimeRange) *timeline.JoiningTimeline[speech.Shape] {
	result := timeline.NewJoiningTimeline(target, shX)
	source := timeline.NewJoiningTimeline(sourceRange, shX, animation...).Segments()
	if len(source) == 0 {
		return result
	}

	write := target.End()
	for write > target.Start() {
		candidates := candidateRange(source, sourceRange, target, write)
		shape, span := representativeShape(source, candidates)
		if span.Start() <= sourceRange.Start() {
			// The left-most source shape is used up; fill what remains.
			span.SetStartIfEarlier(target.Start())
		}
		if span.Start() >= write {
			break
		}
		span = timeline.MustTimeRange(span.Start(), min(span.End(), write))
		result.Set(span, shape)
		write = span.Start()
	}
	return result
}

// candidateRange returns the non-empty range of source shapes to reduce to
// the next shape written before write.
func candidateRange(source []timeline.Timed[speech.Shape], sourceRange, target timeline.TimeRange, write timeline.Centiseconds) timeline.TimeRange {
	remaining := write - target.Start()
	duration := minShapeDuration
	if remaining > minShapeDuration && remaining < 2*minShapeDuration {
		duration = remaining / 2
	}

	start, end := write-duration, write
	if write == target.End() {
		// First step: everything after the target belongs to the last shape.
		end = max(end, sourceRange.End())
	}
	if start >= sourceRange.End() {
		start = source[len(source)-1].Start()
	}
	if end <= sourceRange.Start() {
		end = source[0].End()
	}
	return timeline.MustTimeRange(start, end)
}

// representativeShape returns the shape with the most time inside
// candidates, preferring the earlier shape on ties and D over a winning C,
// along with the span the clipped source shapes cover.
func representativeShape(source []timeline.Timed[speech.Shape], candidates timeline.TimeRange) (speech.Shape, timeline.TimeRange) {
	weights := make(map[speech.Shape]timeline.Centiseconds)
	var span timeline.TimeRange
	found := false
	for _, segment := range source {
		clipped, ok := segment.Range.Intersect(candidates)
		if !ok {
			continue
		}
		weights[segment.Value] += clipped.Duration()
		if !found {
			span, found = clipped, true
		} else {
			span.SetEndIfLater(clipped.End())
		}
	}
	if !found {
		return shX, candidates
	}

	best := shX
	var bestWeight timeline.Centiseconds
	for _, shape := range anyShape.Shapes() {
		if weights[shape] > bestWeight {
			best, bestWeight = shape, weights[shape]
		}
	}
	if best == shC && weights[shD] > 0 {
		best = shD
	}
	return best, span
}
