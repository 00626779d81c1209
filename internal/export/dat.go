package export

import (
	"bufio"
	"fmt"
	"io"

	"lipsync/internal/animation"
	"lipsync/internal/services"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

const (
	// MinDatFrameRate and MaxDatFrameRate bound the DAT frame rate. Lower
	// rates drop short shapes; animation is computed at 100 cues per second.
	MinDatFrameRate = 24.0
	MaxDatFrameRate = 100.0
)

var prestonBlairNames = map[speech.Shape]string{
	speech.ShapeA: "MBP",
	speech.ShapeB: "etc",
	speech.ShapeC: "E",
	speech.ShapeD: "AI",
	speech.ShapeE: "O",
	speech.ShapeF: "U",
	speech.ShapeG: "FV",
	speech.ShapeH: "L",
	speech.ShapeX: "rest",
}

// datExporter writes a Moho switch file: one "frame shape" line whenever the
// shape changes on a new frame. Frames are numbered from 1.
type datExporter struct {
	frameRate    float64
	prestonBlair bool
}

func newDatExporter(frameRate float64, prestonBlair bool) (*datExporter, error) {
	if frameRate < MinDatFrameRate || frameRate > MaxDatFrameRate {
		return nil, services.InvalidArgument("frame rate must be between %g and %g fps, got %g", MinDatFrameRate, MaxDatFrameRate, frameRate)
	}
	return &datExporter{frameRate: frameRate, prestonBlair: prestonBlair}, nil
}

func (e *datExporter) Export(w io.Writer, in Input) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, "MohoSwitch1")
	lastFrame := 0
	for cue := range in.Shapes.All() {
		frame := e.frame(cue.Start())
		if frame == lastFrame {
			continue
		}
		fmt.Fprintf(out, "%d %s\n", frame, e.name(cue.Value))
		lastFrame = frame
	}

	frame := e.frame(in.Shapes.Range().End())
	if frame == lastFrame {
		frame++
	}
	fmt.Fprintf(out, "%d %s\n", frame, e.name(animation.ConvertToTargetShapeSet(speech.ShapeX, in.Targets)))
	return out.Flush()
}

func (e *datExporter) frame(t timeline.Centiseconds) int {
	return 1 + int(e.frameRate*t.Seconds())
}

func (e *datExporter) name(shape speech.Shape) string {
	if e.prestonBlair {
		if name, ok := prestonBlairNames[shape]; ok {
			return name
		}
	}
	return shape.String()
}
