package export

import (
	"encoding/xml"
	"io"
)

type xmlResult struct {
	XMLName   xml.Name    `xml:"lipsyncResult"`
	Metadata  xmlMetadata `xml:"metadata"`
	MouthCues []xmlCue    `xml:"mouthCues>mouthCue"`
}

type xmlMetadata struct {
	SoundFile string `xml:"soundFile"`
	Duration  string `xml:"duration"`
}

type xmlCue struct {
	Start string `xml:"start,attr"`
	End   string `xml:"end,attr"`
	Value string `xml:",chardata"`
}

type xmlExporter struct{}

func (xmlExporter) Export(w io.Writer, in Input) error {
	result := xmlResult{
		Metadata: xmlMetadata{
			SoundFile: in.SoundFile,
			Duration:  in.Shapes.Range().Duration().String(),
		},
	}
	for _, cue := range cues(in.Shapes) {
		result.MouthCues = append(result.MouthCues, xmlCue{
			Start: cue.Start().String(),
			End:   cue.End().String(),
			Value: cue.Value.String(),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
