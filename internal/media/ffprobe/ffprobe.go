package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"lipsync/internal/services"
	"lipsync/internal/timeline"
)

// DefaultBinary is used when no binary is configured.
const DefaultBinary = "ffprobe"

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	CodecType     string `json:"codec_type"`
	Duration      string `json:"duration"`
	SampleRate    string `json:"sample_rate"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channel_layout"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, services.InvalidArgument("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "ffprobe",
			strings.TrimSpace(string(output)), err)
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON report.
func Parse(output []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// AudioStream returns the first audio stream.
func (r Result) AudioStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return stream, true
		}
	}
	return Stream{}, false
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the audio duration in seconds, preferring the audio
// stream over the container. It is 0 when unavailable and NaN when malformed.
func (r Result) DurationSeconds() float64 {
	if stream, ok := r.AudioStream(); ok && strings.TrimSpace(stream.Duration) != "" {
		if seconds := parseFloat(stream.Duration); !math.IsNaN(seconds) {
			return seconds
		}
	}
	return parseFloat(r.Format.Duration)
}

// SampleRate returns the audio sample rate in Hz, or 0 when unavailable.
func (r Result) SampleRate() int {
	stream, ok := r.AudioStream()
	if !ok {
		return 0
	}
	rate := parseFloat(stream.SampleRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int(rate)
}

// ClipRange returns [0, duration) for the probed audio.
func (r Result) ClipRange() (timeline.TimeRange, error) {
	if r.AudioStreamCount() == 0 {
		return timeline.TimeRange{}, services.Wrap(services.ErrValidation, "probe", "audio stream",
			"file contains no audio stream", nil)
	}
	seconds := r.DurationSeconds()
	if seconds < 0 || math.IsNaN(seconds) {
		return timeline.TimeRange{}, services.Wrap(services.ErrValidation, "probe", "duration",
			fmt.Sprintf("invalid duration %q", r.Format.Duration), nil)
	}
	duration, err := timeline.FromSeconds(seconds)
	if err != nil {
		return timeline.TimeRange{}, err
	}
	return timeline.NewTimeRange(0, duration)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
