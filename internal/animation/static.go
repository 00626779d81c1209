package animation

import (
	"sort"

	"lipsync/internal/speech"
	"lipsync/internal/timeline"
	"lipsync/internal/workpool"
)

// A shape held this long across this many syllables looks frozen.
const (
	minStaticSyllables                       = 3
	minStaticDuration  timeline.Centiseconds = 75
	// Candidate fixes grow combinatorially with this.
	maxRuleChanges = 3
)

type animateFunc func(*timeline.ContinuousTimeline[ShapeRule]) *timeline.JoiningTimeline[speech.Shape]

// avoidStaticSegments animates rules and, where the result holds one shape
// too long, retries with some single-shape vowel rules swapped for a similar
// shape. Candidate rule changes are animated on pool when one is given.
func avoidStaticSegments(rules *timeline.ContinuousTimeline[ShapeRule], animate animateFunc, pool *workpool.Pool) *timeline.JoiningTimeline[speech.Shape] {
	animation := animate(rules)
	original := rules.Segments()
	static := staticSegments(original, animation)
	if len(static) == 0 {
		return animation
	}

	fixed := rules.Clone()
	for _, segment := range static {
		// Widen to rules with a single shape so the neighbours that shape
		// the segment take part in the retry.
		extended := extendToFixedRules(segment, original)
		section := timeline.NewContinuousTimeline(extended, ShapeRule{}, fixed.Segments()...)
		for rule := range fixStaticSegment(section, animate, pool).All() {
			fixed.SetTimed(rule)
		}
	}
	return animate(fixed)
}

func staticSegments(rules []timeline.Timed[ShapeRule], animation *timeline.JoiningTimeline[speech.Shape]) []timeline.TimeRange {
	var result []timeline.TimeRange
	for segment := range animation.All() {
		if segment.Duration() >= minStaticDuration && syllableCount(rules, segment.Range) >= minStaticSyllables {
			result = append(result, segment.Range)
		}
	}
	return result
}

// syllableCount counts vowel rules overlapping r whose phone is centred
// inside r.
func syllableCount(rules []timeline.Timed[ShapeRule], r timeline.TimeRange) int {
	count := 0
	for _, segment := range rules {
		if _, ok := segment.Range.Intersect(r); !ok {
			continue
		}
		rule := segment.Value
		if !rule.Phone.IsVowel() {
			continue
		}
		if middle := rule.PhoneRange.Midpoint(); r.Contains(middle) {
			count++
		}
	}
	return count
}

func canChange(rule ShapeRule) bool {
	return rule.Phone.IsVowel() && rule.Shapes.Len() == 1
}

func changedRule(rule ShapeRule) ShapeRule {
	// B is the only shape seen to freeze so far.
	if rule.Shapes == shapesOf(shB) {
		rule.Shapes = shapesOf(shC)
	}
	return rule
}

func isFlexible(rule ShapeRule) bool {
	return rule.Shapes.Len() > 1
}

func extendToFixedRules(r timeline.TimeRange, rules []timeline.Timed[ShapeRule]) timeline.TimeRange {
	first := segmentIndex(rules, r.Start())
	for first > 0 && isFlexible(rules[first].Value) {
		first--
	}
	last := segmentIndex(rules, r.End()-1)
	for last+1 < len(rules) && isFlexible(rules[last].Value) {
		last++
	}
	return timeline.MustTimeRange(rules[first].Start(), rules[last].End())
}

func segmentIndex(rules []timeline.Timed[ShapeRule], t timeline.Centiseconds) int {
	i := sort.Search(len(rules), func(i int) bool { return rules[i].End() > t })
	return min(i, len(rules)-1)
}

type scenario struct {
	rules       *timeline.ContinuousTimeline[ShapeRule]
	staticCount int
	squares     float64
}

func newScenario(rules *timeline.ContinuousTimeline[ShapeRule], changes []timeline.Centiseconds, animate animateFunc) scenario {
	changed := rules.Clone()
	for _, start := range changes {
		if segment, ok := rules.SegmentAt(start); ok {
			changed.Set(segment.Range, changedRule(segment.Value))
		}
	}
	animation := animate(changed)

	var squares float64
	for segment := range animation.All() {
		seconds := segment.Duration().Seconds()
		squares += seconds * seconds
	}
	return scenario{
		rules:       changed,
		staticCount: len(staticSegments(changed.Segments(), animation)),
		squares:     squares,
	}
}

// betterThan prefers no static segments at all, then many short shapes
// over few long ones.
func (s scenario) betterThan(o scenario) bool {
	if s.staticCount == 0 && o.staticCount > 0 {
		return true
	}
	return s.squares < o.squares
}

func fixStaticSegment(rules *timeline.ContinuousTimeline[ShapeRule], animate animateFunc, pool *workpool.Pool) *timeline.ContinuousTimeline[ShapeRule] {
	var possible []timeline.Centiseconds
	for segment := range rules.All() {
		if canChange(segment.Value) {
			possible = append(possible, segment.Start())
		}
	}

	best := newScenario(rules, nil, animate)
	for count := 1; best.staticCount > 0 && count <= maxRuleChanges && count <= len(possible); count++ {
		for _, candidate := range evaluateScenarios(pool, rules, combinations(possible, count), animate) {
			if candidate.betterThan(best) {
				best = candidate
			}
		}
	}
	return best.rules
}

// evaluateScenarios animates every change set, concurrently when pool is
// set. Results keep the order of changes.
func evaluateScenarios(pool *workpool.Pool, rules *timeline.ContinuousTimeline[ShapeRule], changes [][]timeline.Centiseconds, animate animateFunc) []scenario {
	scenarios := make([]scenario, len(changes))
	if pool == nil || len(changes) < 2 {
		for i, set := range changes {
			scenarios[i] = newScenario(rules, set, animate)
		}
		return scenarios
	}
	for i, set := range changes {
		pool.Schedule(func() {
			scenarios[i] = newScenario(rules, set, animate)
		})
	}
	pool.WaitAll()
	return scenarios
}

// combinations lists every k-element subset of items in lexicographic order
// of position.
func combinations[T any](items []T, k int) [][]T {
	if k <= 0 || k > len(items) {
		return nil
	}
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	var result [][]T
	for {
		combo := make([]T, k)
		for i, index := range indices {
			combo[i] = items[index]
		}
		result = append(result, combo)

		i := k - 1
		for i >= 0 && indices[i] == len(items)-k+i {
			i--
		}
		if i < 0 {
			return result
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}
