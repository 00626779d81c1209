package testsupport

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// WAVSampleRate is the rate of files written by WriteWAV.
const WAVSampleRate = 16000

// WriteWAV writes a mono 16-bit PCM WAV file holding the given number of
// seconds of silence.
func WriteWAV(t testing.TB, path string, seconds float64) {
	t.Helper()

	samples := int(math.Round(seconds * WAVSampleRate))
	if samples < 0 {
		samples = 0
	}
	const (
		channels      = 1
		bitsPerSample = 16
		blockAlign    = channels * bitsPerSample / 8
	)
	dataSize := uint32(samples * blockAlign)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	put := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("encode wav header: %v", err)
		}
	}
	put(uint32(36) + dataSize)
	buf.WriteString("WAVEfmt ")
	put(uint32(16))
	put(uint16(1)) // PCM
	put(uint16(channels))
	put(uint32(WAVSampleRate))
	put(uint32(WAVSampleRate * blockAlign))
	put(uint16(blockAlign))
	put(uint16(bitsPerSample))
	buf.WriteString("data")
	put(dataSize)
	buf.Write(make([]byte, dataSize))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
