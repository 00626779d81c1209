package recognizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"testing"

	"lipsync/internal/services"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

type recordedProgress struct {
	mu     sync.Mutex
	values []float64
}

func (r *recordedProgress) ReportProgress(v float64) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func newTestCommand(t *testing.T, output string, runErr error) (*Command, *[]string) {
	t.Helper()
	cmd, err := NewCommand(Config{Command: "/opt/recognizer/bin/phonerec", Args: []string{"--model", "en"}})
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	var gotArgs []string
	cmd.WithRunner(func(_ context.Context, name string, args []string, stdout io.Writer) error {
		gotArgs = append([]string{name}, args...)
		// Split writes mid-line to exercise buffering.
		for chunk := range slices.Chunk([]byte(output), 7) {
			if _, err := stdout.Write(chunk); err != nil {
				return err
			}
		}
		return runErr
	})
	return cmd, &gotArgs
}

func TestRecognizeParsesPhonesAndProgress(t *testing.T) {
	output := strings.Join([]string{
		"# phonerec 1.0",
		"progress\t0.5",
		"0.10\t0.25\tHH",
		"0.25\t0.40\tah",
		"",
		"0.40\t0.52\t+BREATH+",
		"0.52\t0.60\tXYZ",
	}, "\n")
	cmd, gotArgs := newTestCommand(t, output, nil)
	sink := &recordedProgress{}

	phones, err := cmd.Recognize(context.Background(), Request{
		AudioPath:  "speech.wav",
		Range:      timeline.MustTimeRange(10, 60),
		DialogPath: "dialog.txt",
		Progress:   sink,
	})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}

	want := []timeline.Timed[speech.Phone]{
		timeline.At(10, 25, speech.PhoneHH),
		timeline.At(25, 40, speech.PhoneAH),
		timeline.At(40, 52, speech.PhoneBreath),
		timeline.At(52, 60, speech.PhoneNoise),
	}
	if !slices.Equal(phones, want) {
		t.Fatalf("phones = %v, want %v", phones, want)
	}
	if !slices.Equal(sink.values, []float64{0.5, 1}) {
		t.Fatalf("progress = %v", sink.values)
	}
	wantArgs := []string{"/opt/recognizer/bin/phonerec", "--model", "en",
		"--input", "speech.wav", "--start", "0.10", "--end", "0.60", "--dialog", "dialog.txt"}
	if !slices.Equal(*gotArgs, wantArgs) {
		t.Fatalf("args = %v, want %v", *gotArgs, wantArgs)
	}
	if cmd.Name() != "phonerec" {
		t.Fatalf("Name() = %q", cmd.Name())
	}
}

func TestRecognizeRejectsMalformedOutput(t *testing.T) {
	tests := []string{
		"0.10\t0.05\tAA",
		"abc\t0.20\tAA",
		"0.10 0.20 AA",
		"progress\tsoon",
	}
	for _, output := range tests {
		cmd, _ := newTestCommand(t, output, nil)
		_, err := cmd.Recognize(context.Background(), Request{AudioPath: "a.wav", Range: timeline.MustTimeRange(0, 100)})
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("output %q: expected validation error, got %v", output, err)
		}
		if !strings.Contains(err.Error(), "line 1") {
			t.Fatalf("expected line number in %q", err)
		}
	}
}

func TestRecognizeWrapsRunnerFailure(t *testing.T) {
	cmd, _ := newTestCommand(t, "", fmt.Errorf("exit status 3"))
	_, err := cmd.Recognize(context.Background(), Request{AudioPath: "a.wav", Range: timeline.MustTimeRange(0, 100)})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Fatalf("expected cause in %q", err)
	}
}

func TestNewCommandRequiresCommand(t *testing.T) {
	if _, err := NewCommand(Config{Command: "  "}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	cmd, err := NewCommand(Config{Command: "rec", Name: "custom"})
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name() != "custom" {
		t.Fatalf("Name() = %q", cmd.Name())
	}
	if _, err := cmd.Recognize(context.Background(), Request{}); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestRecognizeRunsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}
	stub := filepath.Join(t.TempDir(), "phonerec")
	script := "#!/bin/sh\nprintf '0.00\\t0.20\\tM\\n0.20\\t0.50\\tAA\\n'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	cmd, err := NewCommand(Config{Command: stub})
	if err != nil {
		t.Fatal(err)
	}
	phones, err := cmd.Recognize(context.Background(), Request{AudioPath: "a.wav", Range: timeline.MustTimeRange(0, 50)})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(phones) != 2 || phones[1].Value != speech.PhoneAA {
		t.Fatalf("unexpected phones %v", phones)
	}
}

func TestRecognizeReportsStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}
	stub := filepath.Join(t.TempDir(), "phonerec")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'model missing' >&2\nexit 2\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cmd, err := NewCommand(Config{Command: stub})
	if err != nil {
		t.Fatal(err)
	}
	_, err = cmd.Recognize(context.Background(), Request{AudioPath: "a.wav", Range: timeline.MustTimeRange(0, 50)})
	if err == nil || !strings.Contains(err.Error(), "model missing") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}
