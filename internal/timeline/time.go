package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lipsync/internal/services"
)

// Centiseconds counts hundredths of a second. Arithmetic helpers panic on
// overflow rather than wrapping.
type Centiseconds int64

// PerSecond is the number of centiseconds in one second.
const PerSecond Centiseconds = 100

// Add returns c+o.
func (c Centiseconds) Add(o Centiseconds) Centiseconds {
	sum := c + o
	if (o > 0 && sum < c) || (o < 0 && sum > c) {
		panic(fmt.Sprintf("timeline: centisecond overflow in %d + %d", c, o))
	}
	return sum
}

// Sub returns c-o.
func (c Centiseconds) Sub(o Centiseconds) Centiseconds {
	if o == math.MinInt64 {
		panic(fmt.Sprintf("timeline: centisecond overflow in %d - %d", c, o))
	}
	return c.Add(-o)
}

// Neg returns -c.
func (c Centiseconds) Neg() Centiseconds {
	if c == math.MinInt64 {
		panic("timeline: centisecond overflow in negation")
	}
	return -c
}

// Scale returns c*factor.
func (c Centiseconds) Scale(factor int64) Centiseconds {
	if c == 0 || factor == 0 {
		return 0
	}
	product := int64(c) * factor
	if product/factor != int64(c) || (int64(c) == -1 && factor == math.MinInt64) || (factor == -1 && int64(c) == math.MinInt64) {
		panic(fmt.Sprintf("timeline: centisecond overflow in %d * %d", c, factor))
	}
	return Centiseconds(product)
}

// Div returns c/divisor truncated toward zero. A zero divisor panics.
func (c Centiseconds) Div(divisor int64) Centiseconds {
	if divisor == 0 {
		panic("timeline: centisecond division by zero")
	}
	if divisor == -1 && c == math.MinInt64 {
		panic("timeline: centisecond overflow in division")
	}
	return c / Centiseconds(divisor)
}

// Ratio returns c/o as a float.
func (c Centiseconds) Ratio(o Centiseconds) float64 {
	return float64(c) / float64(o)
}

// Seconds returns the value in seconds.
func (c Centiseconds) Seconds() float64 {
	return float64(c) / float64(PerSecond)
}

// Duration converts to a time.Duration.
func (c Centiseconds) Duration() time.Duration {
	return time.Duration(c) * 10 * time.Millisecond
}

// String renders the value as seconds with two decimals (SS.CC), the format
// every exporter emits.
func (c Centiseconds) String() string {
	v := int64(c)
	if v < 0 {
		// Negating MinInt64 overflows; go through uint64 instead.
		u := uint64(-(v + 1)) + 1
		return fmt.Sprintf("-%d.%02d", u/100, u%100)
	}
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

// FromDuration converts d, truncating toward zero.
func FromDuration(d time.Duration) Centiseconds {
	return Centiseconds(d / (10 * time.Millisecond))
}

// FromSeconds converts a float number of seconds, rounding to the nearest
// centisecond.
func FromSeconds(seconds float64) (Centiseconds, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, services.InvalidArgument("seconds value %v is not finite", seconds)
	}
	scaled := math.Round(seconds * float64(PerSecond))
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return 0, services.InvalidArgument("seconds value %v out of range", seconds)
	}
	return Centiseconds(scaled), nil
}

// ParseCentiseconds parses a seconds value such as "1.05" or "-0.3".
func ParseCentiseconds(value string) (Centiseconds, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, services.InvalidArgument("empty time value")
	}
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, services.InvalidArgument("parse time value %q: %v", value, err)
	}
	return FromSeconds(seconds)
}
