package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderBar(t *testing.T) {
	tests := []struct {
		progress float64
		spinner  string
		want     string
	}{
		{0, "|", "[--------------------]   0% |"},
		{0.25, "/", "[#####---------------]  25% /"},
		{0.999, "", "[###################-]  99% "},
		{1, "", "[####################] 100% "},
	}
	for _, tt := range tests {
		if got := renderBar(tt.progress, tt.spinner); got != tt.want {
			t.Fatalf("renderBar(%v) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestBarUpdateTextRewritesSuffix(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{out: &buf}

	bar.updateText("abcd")
	bar.updateText("abXY")
	bar.updateText("a")
	bar.updateText("a")

	want := "abcd" + "\b\bXY" + "\b\b\b" + "   \b\b\b"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestBarCloseClearsLine(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)
	bar.ReportProgress(0.5)
	bar.Close()
	bar.Close()

	out := buf.String()
	if !strings.HasPrefix(out, "[") {
		t.Fatalf("expected initial render, got %q", out)
	}
	if bar.text != "" {
		t.Fatalf("expected cleared text, got %q", bar.text)
	}
	if bar.Value() != 0.5 {
		t.Fatalf("Value() = %v", bar.Value())
	}
}

func TestBarKeepsFinalStateWhenRequested(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)
	bar.SetClearOnClose(false)
	bar.ReportProgress(1)
	bar.Close()
	if bar.text != "[####################] 100% " {
		t.Fatalf("unexpected final text %q", bar.text)
	}
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatal("buffer reported as terminal")
	}
}
