package speech

import (
	"fmt"
	"math/bits"
	"strings"

	"lipsync/internal/services"
)

// Shape is a mouth position.
type Shape uint8

const (
	ShapeA Shape = iota // closed mouth: M, B, P
	ShapeB              // clenched teeth: most consonants, EE
	ShapeC              // open mouth: m[e]n, s[a]y
	ShapeD              // wide open: f[a]ther, b[a]t, wh[y]
	ShapeE              // rounded: [o]ff
	ShapeF              // puckered: y[ou], [w]ay
	ShapeG              // F, V
	ShapeH              // L
	ShapeX              // idle

	shapeCount
)

var shapeNames = [shapeCount]string{"A", "B", "C", "D", "E", "F", "G", "H", "X"}

func (s Shape) String() string {
	if s >= shapeCount {
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// IsBasic reports whether s is one of the six shapes every rig must provide.
func (s Shape) IsBasic() bool {
	return s <= ShapeF
}

// IsClosed reports whether the lips touch in s.
func (s Shape) IsClosed() bool {
	return s == ShapeA || s == ShapeX
}

// ParseShape resolves a single shape letter, case-insensitively.
func ParseShape(name string) (Shape, error) {
	for i, candidate := range shapeNames {
		if strings.EqualFold(candidate, strings.TrimSpace(name)) {
			return Shape(i), nil
		}
	}
	return 0, services.InvalidArgument("unknown mouth shape %q", name)
}

// ShapeSet is an immutable set of shapes.
type ShapeSet uint16

// BasicShapes holds A-F.
const BasicShapes ShapeSet = 1<<ShapeA | 1<<ShapeB | 1<<ShapeC | 1<<ShapeD | 1<<ShapeE | 1<<ShapeF

// AllShapes holds the basic and every extended shape.
const AllShapes ShapeSet = BasicShapes | 1<<ShapeG | 1<<ShapeH | 1<<ShapeX

// ParseShapeSet returns the basic shapes plus the extended shapes named by
// letters in extended, e.g. "GHX". Basic letters are accepted and ignored.
func ParseShapeSet(extended string) (ShapeSet, error) {
	set := BasicShapes
	for _, r := range strings.TrimSpace(extended) {
		shape, err := ParseShape(string(r))
		if err != nil {
			return 0, services.InvalidArgument("invalid extended shape %q in %q", string(r), extended)
		}
		set = set.With(shape)
	}
	return set, nil
}

// ShapesOf returns the set holding shapes.
func ShapesOf(shapes ...Shape) ShapeSet {
	var set ShapeSet
	for _, shape := range shapes {
		set = set.With(shape)
	}
	return set
}

// Len returns the number of members.
func (s ShapeSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// With returns s plus shape.
func (s ShapeSet) With(shape Shape) ShapeSet {
	return s | 1<<shape
}

// Contains reports whether shape is in s.
func (s ShapeSet) Contains(shape Shape) bool {
	return shape < shapeCount && s&(1<<shape) != 0
}

// Shapes returns the members in order.
func (s ShapeSet) Shapes() []Shape {
	var shapes []Shape
	for shape := range shapeCount {
		if s.Contains(shape) {
			shapes = append(shapes, shape)
		}
	}
	return shapes
}

// String renders the member letters, e.g. "ABCDEFGHX".
func (s ShapeSet) String() string {
	var b strings.Builder
	for _, shape := range s.Shapes() {
		b.WriteString(shape.String())
	}
	return b.String()
}
