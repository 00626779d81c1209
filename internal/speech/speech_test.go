package speech

import (
	"errors"
	"testing"

	"lipsync/internal/services"
)

func TestPhoneNamesRoundTrip(t *testing.T) {
	for _, phone := range Phones() {
		if got := ParsePhone(phone.String()); got != phone {
			t.Fatalf("ParsePhone(%q) = %v, want %v", phone.String(), got, phone)
		}
	}
}

func TestParsePhone(t *testing.T) {
	tests := []struct {
		in   string
		want Phone
	}{
		{"aa", PhoneAA},
		{" schwa ", PhoneSchwa},
		{"Ng", PhoneNG},
		{"+BREATH+", PhoneBreath},
		{"+cough+", PhoneCough},
		{"+SMACK+", PhoneSmack},
		{"SIL", PhoneNone},
		{"+GARBAGE+", PhoneNoise},
		{"", PhoneNoise},
	}
	for _, tt := range tests {
		if got := ParsePhone(tt.in); got != tt.want {
			t.Fatalf("ParsePhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPhoneClassification(t *testing.T) {
	if !PhoneER.IsVowel() || PhoneP.IsVowel() || PhoneNone.IsVowel() {
		t.Fatal("vowel classification wrong")
	}
	if !PhoneW.IsSpeech() || PhoneBreath.IsSpeech() || PhoneNone.IsSpeech() {
		t.Fatal("speech classification wrong")
	}
	if got := Phone(200).String(); got != "Phone(200)" {
		t.Fatalf("out of range String() = %q", got)
	}
}

func TestParseShapeSet(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "ABCDEF"},
		{"GHX", "ABCDEFGHX"},
		{"x", "ABCDEFX"},
		{"AG", "ABCDEFG"},
	}
	for _, tt := range tests {
		set, err := ParseShapeSet(tt.in)
		if err != nil {
			t.Fatalf("ParseShapeSet(%q): %v", tt.in, err)
		}
		if set.String() != tt.want {
			t.Fatalf("ParseShapeSet(%q) = %s, want %s", tt.in, set, tt.want)
		}
	}
	if _, err := ParseShapeSet("GZ"); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestShapeSetMembership(t *testing.T) {
	if !AllShapes.Contains(ShapeX) || BasicShapes.Contains(ShapeG) {
		t.Fatal("membership wrong")
	}
	if BasicShapes.Contains(Shape(40)) {
		t.Fatal("out of range shape reported as member")
	}
	if !ShapeA.IsClosed() || !ShapeX.IsClosed() || ShapeD.IsClosed() {
		t.Fatal("IsClosed wrong")
	}
	if !ShapeF.IsBasic() || ShapeG.IsBasic() {
		t.Fatal("IsBasic wrong")
	}
}

func TestShapesOf(t *testing.T) {
	set := ShapesOf(ShapeB, ShapeF, ShapeB)
	if set.Len() != 2 || set.String() != "BF" {
		t.Fatalf("ShapesOf = %v (len %d), want BF", set, set.Len())
	}
	if ShapesOf().Len() != 0 || AllShapes.Len() != 9 {
		t.Fatal("Len wrong")
	}
}
