package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lipsync/internal/progress"
	"lipsync/internal/services"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

// Runner executes name with args, streaming stdout into the given writer.
type Runner func(ctx context.Context, name string, args []string, stdout io.Writer) error

// Config captures how to invoke the recognizer executable. Name identifies
// the recognizer in cache keys and logs and defaults to the command's base
// name.
type Config struct {
	Command string
	Args    []string
	Name    string
	Timeout time.Duration
}

// Command runs an external recognizer executable per request.
type Command struct {
	cfg    Config
	runner Runner
}

// NewCommand builds a recognizer around cfg.Command.
func NewCommand(cfg Config) (*Command, error) {
	cfg.Command = strings.TrimSpace(cfg.Command)
	if cfg.Command == "" {
		return nil, services.Wrap(services.ErrConfiguration, "recognize", "command", "recognizer command not configured", nil)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = filepath.Base(cfg.Command)
	}
	return &Command{cfg: cfg, runner: runCommand}, nil
}

// WithRunner replaces the process runner (for testing).
func (c *Command) WithRunner(runner Runner) {
	if runner != nil {
		c.runner = runner
	}
}

// Name returns the configured recognizer name.
func (c *Command) Name() string {
	return c.cfg.Name
}

// Recognize runs the recognizer over req.Range and parses its phones.
func (c *Command) Recognize(ctx context.Context, req Request) ([]timeline.Timed[speech.Phone], error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return nil, services.InvalidArgument("recognize: empty audio path")
	}
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	parser := &outputParser{sink: req.Progress}
	if parser.sink == nil {
		parser.sink = progress.NullSink{}
	}
	if err := c.runner(ctx, c.cfg.Command, c.buildArgs(req), parser); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognize", c.cfg.Name,
			fmt.Sprintf("range %s", req.Range), err)
	}
	phones, err := parser.finish()
	if err != nil {
		return nil, err
	}
	parser.sink.ReportProgress(1)
	return phones, nil
}

func (c *Command) buildArgs(req Request) []string {
	args := append([]string(nil), c.cfg.Args...)
	args = append(args,
		"--input", req.AudioPath,
		"--start", req.Range.Start().String(),
		"--end", req.Range.End().String(),
	)
	if dialog := strings.TrimSpace(req.DialogPath); dialog != "" {
		args = append(args, "--dialog", dialog)
	}
	return args
}

func runCommand(ctx context.Context, name string, args []string, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

// outputParser consumes recognizer stdout line by line as it arrives so
// progress lines reach the sink while the process is still running.
type outputParser struct {
	sink    progress.Sink
	pending []byte
	line    int
	phones  []timeline.Timed[speech.Phone]
	err     error
}

func (p *outputParser) Write(b []byte) (int, error) {
	p.pending = append(p.pending, b...)
	for {
		i := bytes.IndexByte(p.pending, '\n')
		if i < 0 {
			break
		}
		p.handle(string(p.pending[:i]))
		p.pending = p.pending[i+1:]
	}
	return len(b), nil
}

func (p *outputParser) finish() ([]timeline.Timed[speech.Phone], error) {
	if len(p.pending) > 0 {
		p.handle(string(p.pending))
		p.pending = nil
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.phones, nil
}

func (p *outputParser) handle(raw string) {
	p.line++
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") || p.err != nil {
		return
	}
	fields := strings.Split(line, "\t")
	switch {
	case len(fields) == 2 && fields[0] == "progress":
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			p.fail(line, err)
			return
		}
		p.sink.ReportProgress(progress.Sanitize(value))
	case len(fields) == 3:
		start, err := timeline.ParseCentiseconds(fields[0])
		if err != nil {
			p.fail(line, err)
			return
		}
		end, err := timeline.ParseCentiseconds(fields[1])
		if err != nil {
			p.fail(line, err)
			return
		}
		phone, err := timeline.NewTimed(start, end, speech.ParsePhone(fields[2]))
		if err != nil {
			p.fail(line, err)
			return
		}
		p.phones = append(p.phones, phone)
	default:
		p.fail(line, nil)
	}
}

func (p *outputParser) fail(line string, err error) {
	p.err = services.Wrap(services.ErrValidation, "recognize", "parse output",
		fmt.Sprintf("line %d: %q", p.line, line), err)
}
