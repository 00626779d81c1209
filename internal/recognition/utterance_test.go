package recognition

import (
	"testing"

	"lipsync/internal/timeline"
)

func TestSplitUtterances(t *testing.T) {
	tests := []struct {
		name      string
		clip      timeline.TimeRange
		maxLength timeline.Centiseconds
		want      []timeline.TimeRange
	}{
		{name: "empty clip", clip: timeline.MustTimeRange(40, 40), maxLength: 100},
		{name: "fits", clip: timeline.MustTimeRange(0, 80), maxLength: 100, want: []timeline.TimeRange{timeline.MustTimeRange(0, 80)}},
		{name: "exact", clip: timeline.MustTimeRange(0, 200), maxLength: 100, want: []timeline.TimeRange{
			timeline.MustTimeRange(0, 100), timeline.MustTimeRange(100, 200),
		}},
		{name: "spread evenly", clip: timeline.MustTimeRange(0, 2500), maxLength: 1000, want: []timeline.TimeRange{
			timeline.MustTimeRange(0, 833), timeline.MustTimeRange(833, 1666), timeline.MustTimeRange(1666, 2500),
		}},
		{name: "offset clip", clip: timeline.MustTimeRange(100, 250), maxLength: 100, want: []timeline.TimeRange{
			timeline.MustTimeRange(100, 175), timeline.MustTimeRange(175, 250),
		}},
		{name: "unbounded", clip: timeline.MustTimeRange(0, 5000), maxLength: 0, want: []timeline.TimeRange{timeline.MustTimeRange(0, 5000)}},
		{name: "tiny max", clip: timeline.MustTimeRange(0, 3), maxLength: 1, want: []timeline.TimeRange{
			timeline.MustTimeRange(0, 1), timeline.MustTimeRange(1, 2), timeline.MustTimeRange(2, 3),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitUtterances(tt.clip, tt.maxLength)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d utterances %v, want %d", len(got), got, len(tt.want))
			}
			for i, u := range got {
				if u.Index != i {
					t.Fatalf("utterance %d has index %d", i, u.Index)
				}
				if !u.Range.Equal(tt.want[i]) {
					t.Fatalf("utterance %d = %s, want %s", i, u.Range, tt.want[i])
				}
				if tt.maxLength > 0 && u.Range.Duration() > tt.maxLength {
					t.Fatalf("utterance %d longer than max: %s", i, u.Range)
				}
			}
		})
	}
}
