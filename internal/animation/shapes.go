package animation

import "lipsync/internal/speech"

// Shorthands for the rule tables.
const (
	shA = speech.ShapeA
	shB = speech.ShapeB
	shC = speech.ShapeC
	shD = speech.ShapeD
	shE = speech.ShapeE
	shF = speech.ShapeF
	shG = speech.ShapeG
	shH = speech.ShapeH
	shX = speech.ShapeX
)

var basicShapes = [...]speech.Shape{shA, shB, shC, shD, shE, shF, shB, shC, shA}

// BasicShape returns the basic shape (A-F) closest to shape.
func BasicShape(shape speech.Shape) speech.Shape {
	if int(shape) >= len(basicShapes) {
		return shape
	}
	return basicShapes[shape]
}

var relaxedShapes = [...]speech.Shape{shA, shB, shB, shC, shC, shB, shX, shB, shX}

// Relax returns the shape the mouth falls into when it stops holding shape.
func Relax(shape speech.Shape) speech.Shape {
	if int(shape) >= len(relaxedShapes) {
		return shape
	}
	return relaxedShapes[shape]
}

// For each shape, every shape in ascending order of effort to move there.
var effortMatrix = [...][9]speech.Shape{
	shA: {shA, shX, shG, shB, shC, shH, shE, shD, shF},
	shB: {shB, shG, shA, shX, shC, shH, shE, shD, shF},
	shC: {shC, shH, shB, shG, shD, shA, shX, shE, shF},
	shD: {shD, shC, shH, shB, shG, shA, shX, shE, shF},
	shE: {shE, shC, shH, shB, shG, shA, shX, shD, shF},
	shF: {shF, shB, shG, shA, shX, shC, shH, shE, shD},
	shG: {shG, shB, shC, shH, shA, shX, shE, shD, shF},
	shH: {shH, shC, shB, shG, shD, shA, shX, shE, shF},
	shX: {shX, shA, shG, shB, shC, shH, shE, shD, shF},
}

// ClosestShape picks the member of shapes that takes the least effort to
// reach from reference. An empty set yields X.
func ClosestShape(reference speech.Shape, shapes speech.ShapeSet) speech.Shape {
	if int(reference) >= len(effortMatrix) {
		reference = shX
	}
	for _, shape := range effortMatrix[reference] {
		if shapes.Contains(shape) {
			return shape
		}
	}
	return shX
}

// TweenTiming places an in-between shape relative to a transition.
type TweenTiming uint8

const (
	// TweenEarly ends at the transition.
	TweenEarly TweenTiming = iota
	// TweenCentered straddles the transition.
	TweenCentered
	// TweenLate starts at the transition.
	TweenLate
)

type shapePair struct{ first, second speech.Shape }

type tween struct {
	shape  speech.Shape
	timing TweenTiming
}

// Mostly one-directional: mouths pop open and close slowly.
var tweens = map[shapePair]tween{
	{shD, shA}: {shC, TweenEarly},
	{shD, shB}: {shC, TweenCentered},
	{shD, shG}: {shC, TweenEarly},
	{shD, shX}: {shC, TweenLate},
	{shC, shF}: {shE, TweenCentered},
	{shF, shC}: {shE, TweenCentered},
	{shD, shF}: {shE, TweenCentered},
	{shH, shF}: {shE, TweenLate},
	{shF, shH}: {shE, TweenEarly},
}

// Tween returns the in-between shape for a transition from first to second.
func Tween(first, second speech.Shape) (speech.Shape, TweenTiming, bool) {
	t, ok := tweens[shapePair{first, second}]
	return t.shape, t.timing, ok
}
