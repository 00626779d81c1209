package progress

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	barBlockCount        = 20
	barAnimationInterval = time.Second / 8
	barAnimation         = `|/-\`
)

// Bar renders progress as `[#####---------------]  25% |` on a terminal.
// ReportProgress only stores the value; a background goroutine redraws the
// line on a fixed interval until Close.
type Bar struct {
	out          io.Writer
	current      atomic.Uint64
	clearOnClose atomic.Bool

	stop      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once

	// Owned by the render goroutine.
	text           string
	animationIndex int
}

// NewBar starts rendering to out.
func NewBar(out io.Writer) *Bar {
	b := &Bar{
		out:      out,
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	b.clearOnClose.Store(true)
	go b.loop(barAnimationInterval)
	return b
}

func (b *Bar) ReportProgress(value float64) {
	b.current.Store(math.Float64bits(Sanitize(value)))
}

// Value returns the last reported progress.
func (b *Bar) Value() float64 {
	return math.Float64frombits(b.current.Load())
}

// SetClearOnClose controls whether Close erases the bar (default) or leaves
// the final state on screen.
func (b *Bar) SetClearOnClose(clear bool) {
	b.clearOnClose.Store(clear)
}

// Close stops the render goroutine and waits for it to finish.
func (b *Bar) Close() {
	b.closeOnce.Do(func() {
		close(b.stop)
	})
	<-b.finished
}

func (b *Bar) loop(interval time.Duration) {
	defer close(b.finished)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	b.update(true)
	for {
		select {
		case <-b.stop:
			if b.clearOnClose.Load() {
				b.updateText("")
			} else {
				b.update(false)
			}
			return
		case <-ticker.C:
			b.update(true)
		}
	}
}

func (b *Bar) update(showSpinner bool) {
	spinner := ""
	if showSpinner {
		spinner = string(barAnimation[b.animationIndex%len(barAnimation)])
		b.animationIndex++
	}
	b.updateText(renderBar(b.Value(), spinner))
}

func renderBar(progress float64, spinner string) string {
	blocks := int(progress * barBlockCount)
	const epsilon = 0.0001
	percent := int(progress*100 + epsilon)
	return fmt.Sprintf("[%s%s] %3d%% %s",
		strings.Repeat("#", blocks), strings.Repeat("-", barBlockCount-blocks),
		percent, spinner)
}

// updateText rewrites only the part of the line that changed.
func (b *Bar) updateText(text string) {
	common := 0
	limit := min(len(b.text), len(text))
	for common < limit && b.text[common] == text[common] {
		common++
	}

	var out strings.Builder
	out.WriteString(strings.Repeat("\b", len(b.text)-common))
	out.WriteString(text[common:])
	if overlap := len(b.text) - len(text); overlap > 0 {
		out.WriteString(strings.Repeat(" ", overlap))
		out.WriteString(strings.Repeat("\b", overlap))
	}
	if out.Len() > 0 {
		_, _ = io.WriteString(b.out, out.String())
	}
	b.text = text
}
