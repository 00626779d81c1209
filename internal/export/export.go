// Package export writes mouth animation in the supported output formats.
// Every format renders times as seconds with two decimals (SS.CC).
package export

import (
	"io"
	"iter"
	"path/filepath"
	"strings"

	"lipsync/internal/services"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

// Format names an output format.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatDAT  Format = "dat"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTSV, FormatXML, FormatJSON, FormatDAT}
}

// ParseFormat accepts a format name in any case.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if format == known {
			return format, nil
		}
	}
	return "", services.InvalidArgument("unknown export format %q (expected tsv, xml, json or dat)", name)
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	format, err := ParseFormat(ext)
	return format, err == nil
}

// Shapes is the read side of a shape timeline.
type Shapes interface {
	Range() timeline.TimeRange
	All() iter.Seq[timeline.Timed[speech.Shape]]
}

// Input is everything an exporter needs. Targets is the shape set the
// animation was reduced to.
type Input struct {
	SoundFile string
	Shapes    Shapes
	Targets   speech.ShapeSet
}

// Exporter writes one animation to w.
type Exporter interface {
	Export(w io.Writer, in Input) error
}

// Options carries format specific settings.
type Options struct {
	DatFrameRate    float64
	DatPrestonBlair bool
}

// New returns the exporter for format.
func New(format Format, opts Options) (Exporter, error) {
	switch format {
	case FormatTSV:
		return tsvExporter{}, nil
	case FormatXML:
		return xmlExporter{}, nil
	case FormatJSON:
		return jsonExporter{}, nil
	case FormatDAT:
		return newDatExporter(opts.DatFrameRate, opts.DatPrestonBlair)
	default:
		return nil, services.InvalidArgument("unknown export format %q", string(format))
	}
}

// cues returns the timeline segments, or one zero-length closed mouth when
// the timeline is empty, so consumers always see at least one cue.
func cues(shapes Shapes) []timeline.Timed[speech.Shape] {
	var result []timeline.Timed[speech.Shape]
	for cue := range shapes.All() {
		result = append(result, cue)
	}
	if len(result) == 0 {
		result = append(result, timeline.At[speech.Shape](0, 0, speech.ShapeA))
	}
	return result
}
