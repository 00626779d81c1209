package speech

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Phone is a recognised speech sound. The zero value PhoneNone means no
// speech.
type Phone uint8

const (
	PhoneNone Phone = iota

	// Vowels.
	PhoneAO
	PhoneAA
	PhoneIY
	PhoneUW
	PhoneEH
	PhoneIH
	PhoneUH
	PhoneAH
	PhoneSchwa
	PhoneAE
	PhoneEY
	PhoneAY
	PhoneOW
	PhoneAW
	PhoneOY
	PhoneER

	// Consonants.
	PhoneP
	PhoneB
	PhoneT
	PhoneD
	PhoneK
	PhoneG
	PhoneCH
	PhoneJH
	PhoneF
	PhoneV
	PhoneTH
	PhoneDH
	PhoneS
	PhoneZ
	PhoneSH
	PhoneZH
	PhoneHH
	PhoneM
	PhoneN
	PhoneNG
	PhoneL
	PhoneR
	PhoneY
	PhoneW

	// Non-speech.
	PhoneBreath
	PhoneCough
	PhoneSmack
	PhoneNoise

	phoneCount
)

var phoneNames = [phoneCount]string{
	"None",
	"AO", "AA", "IY", "UW", "EH", "IH", "UH", "AH", "Schwa", "AE",
	"EY", "AY", "OW", "AW", "OY", "ER",
	"P", "B", "T", "D", "K", "G", "CH", "JH", "F", "V", "TH", "DH",
	"S", "Z", "SH", "ZH", "HH", "M", "N", "NG", "L", "R", "Y", "W",
	"Breath", "Cough", "Smack", "Noise",
}

// Recognizer fillers as emitted by Sphinx-style decoders.
var phoneFillers = map[string]Phone{
	"+BREATH+": PhoneBreath,
	"+COUGH+":  PhoneCough,
	"+SMACK+":  PhoneSmack,
	"SIL":      PhoneNone,
}

var phonesByFoldedName = func() map[string]Phone {
	folder := cases.Fold()
	byName := make(map[string]Phone, phoneCount)
	for i, name := range phoneNames {
		byName[folder.String(name)] = Phone(i)
	}
	return byName
}()

// Phones returns every phone in declaration order.
func Phones() []Phone {
	phones := make([]Phone, phoneCount)
	for i := range phones {
		phones[i] = Phone(i)
	}
	return phones
}

func (p Phone) String() string {
	if p >= phoneCount {
		return fmt.Sprintf("Phone(%d)", uint8(p))
	}
	return phoneNames[p]
}

// IsVowel reports whether p is a vowel.
func (p Phone) IsVowel() bool {
	return p >= PhoneAO && p <= PhoneER
}

// IsSpeech reports whether p is an actual speech sound rather than silence
// or noise.
func (p Phone) IsSpeech() bool {
	return p >= PhoneAO && p <= PhoneW
}

// ParsePhone resolves a phone name case-insensitively. Recogniser fillers
// such as +BREATH+ map to their non-speech phones; anything else unknown is
// PhoneNoise.
func ParsePhone(name string) Phone {
	name = strings.TrimSpace(name)
	if phone, ok := phoneFillers[strings.ToUpper(name)]; ok {
		return phone
	}
	if phone, ok := phonesByFoldedName[cases.Fold().String(name)]; ok {
		return phone
	}
	return PhoneNoise
}
