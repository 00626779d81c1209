package export

import (
	"bufio"
	"fmt"
	"io"

	"lipsync/internal/animation"
	"lipsync/internal/speech"
)

// tsvExporter writes one "start<TAB>shape" line per cue and a final line
// closing the mouth at the end of the clip.
type tsvExporter struct{}

func (tsvExporter) Export(w io.Writer, in Input) error {
	out := bufio.NewWriter(w)
	for cue := range in.Shapes.All() {
		fmt.Fprintf(out, "%s\t%s\n", cue.Start(), cue.Value)
	}
	fmt.Fprintf(out, "%s\t%s\n", in.Shapes.Range().End(), animation.ConvertToTargetShapeSet(speech.ShapeX, in.Targets))
	return out.Flush()
}
