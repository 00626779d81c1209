// Package speech defines the phone and mouth shape vocabularies shared by
// recognition, animation and export.
//
// Phones are a subset of Arpabet plus a few non-speech sounds. Shapes are the
// six basic cartoon mouth positions A-F and the optional extended shapes G, H
// and X. Name tables are built once at package initialisation and never
// mutated.
package speech
