package export

import (
	"encoding/json"
	"io"
)

type jsonResult struct {
	Metadata  jsonMetadata `json:"metadata"`
	MouthCues []jsonCue    `json:"mouthCues"`
}

type jsonMetadata struct {
	SoundFile string      `json:"soundFile"`
	Duration  json.Number `json:"duration"`
}

// Times are json.Number so they keep their two decimals.
type jsonCue struct {
	Start json.Number `json:"start"`
	End   json.Number `json:"end"`
	Value string      `json:"value"`
}

type jsonExporter struct{}

func (jsonExporter) Export(w io.Writer, in Input) error {
	result := jsonResult{
		Metadata: jsonMetadata{
			SoundFile: in.SoundFile,
			Duration:  json.Number(in.Shapes.Range().Duration().String()),
		},
	}
	for _, cue := range cues(in.Shapes) {
		result.MouthCues = append(result.MouthCues, jsonCue{
			Start: json.Number(cue.Start().String()),
			End:   json.Number(cue.End().String()),
			Value: cue.Value.String(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
