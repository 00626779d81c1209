package timeline

import (
	"math"
	"testing"
	"time"
)

func TestCentisecondsString(t *testing.T) {
	tests := []struct {
		value Centiseconds
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{105, "1.05"},
		{6000, "60.00"},
		{-30, "-0.30"},
		{-105, "-1.05"},
		{math.MinInt64, "-92233720368547758.08"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Fatalf("String(%d) = %q, want %q", int64(tt.value), got, tt.want)
		}
	}
}

func TestParseCentiseconds(t *testing.T) {
	tests := []struct {
		in      string
		want    Centiseconds
		wantErr bool
	}{
		{"1.05", 105, false},
		{" -0.3 ", -30, false},
		{"12", 1200, false},
		{"0.004", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCentiseconds(tt.in)
		if tt.wantErr != (err != nil) {
			t.Fatalf("ParseCentiseconds(%q) err = %v", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseCentiseconds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	if got := Centiseconds(7).Add(5).Sub(2).Scale(3).Div(2); got != 15 {
		t.Fatalf("unexpected arithmetic result %d", got)
	}
	if got := Centiseconds(50).Ratio(200); got != 0.25 {
		t.Fatalf("ratio = %v", got)
	}
	if got := Centiseconds(150).Duration(); got != 1500*time.Millisecond {
		t.Fatalf("duration = %v", got)
	}
	if got := FromDuration(1234 * time.Millisecond); got != 123 {
		t.Fatalf("FromDuration = %d", got)
	}
}

func TestArithmeticOverflowPanics(t *testing.T) {
	cases := map[string]func(){
		"add":   func() { Centiseconds(math.MaxInt64).Add(1) },
		"sub":   func() { Centiseconds(math.MinInt64).Sub(1) },
		"scale": func() { Centiseconds(math.MaxInt64 / 2).Scale(3) },
		"neg":   func() { Centiseconds(math.MinInt64).Neg() },
		"div0":  func() { Centiseconds(1).Div(0) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			fn()
		})
	}
}
