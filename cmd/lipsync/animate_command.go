package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lipsync/internal/animation"
	"lipsync/internal/config"
	"lipsync/internal/dialog"
	"lipsync/internal/export"
	"lipsync/internal/fileutil"
	"lipsync/internal/logging"
	"lipsync/internal/media/ffprobe"
	"lipsync/internal/phonecache"
	"lipsync/internal/recognition"
	"lipsync/internal/services"
	"lipsync/internal/services/recognizer"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
	"lipsync/internal/workpool"
)

type animateOptions struct {
	format          string
	output          string
	dialogPath      string
	threads         int
	extendedShapes  string
	maxUtterance    float64
	datFrameRate    int
	datPrestonBlair bool
	noCache         bool
	table           bool
	quiet           bool
}

func newAnimateCommand(ctx *commandContext) *cobra.Command {
	var opts animateOptions

	cmd := &cobra.Command{
		Use:   "animate <audio-file>",
		Short: "Create mouth animation for an audio file",
		Long: "Recognize the phones spoken in an audio file, map them to mouth shapes and " +
			"write the animation to stdout or --output.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyAnimateFlags(cmd, cfg, &opts); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return runAnimate(cmd, cfg, logger, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "", "Export format: tsv, xml, json or dat (default from config or --output extension)")
	flags.StringVarP(&opts.output, "output", "o", "", "Write the animation to this file instead of stdout")
	flags.StringVarP(&opts.dialogPath, "dialog", "d", "", "Text file with the spoken dialog to guide recognition")
	flags.IntVar(&opts.threads, "threads", 0, "Recognition worker count (0 = one per CPU)")
	flags.StringVar(&opts.extendedShapes, "extended-shapes", "", "Extended mouth shapes to use, any of GHX (empty string for none)")
	flags.Float64Var(&opts.maxUtterance, "max-utterance", 0, "Longest span in seconds sent to the recognizer at once")
	flags.IntVar(&opts.datFrameRate, "dat-frame-rate", 0, "Frame rate for the dat format")
	flags.BoolVar(&opts.datPrestonBlair, "dat-preston-blair", false, "Use Preston Blair shape names in the dat format")
	flags.BoolVar(&opts.noCache, "no-cache", false, "Ignore and do not update the phone cache")
	flags.BoolVar(&opts.table, "table", false, "Print the mouth cues as a table on stderr")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

// applyAnimateFlags copies explicitly set flags over the config and
// validates the result.
func applyAnimateFlags(cmd *cobra.Command, cfg *config.Config, opts *animateOptions) error {
	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Workers.Threads = opts.threads
	}
	if flags.Changed("extended-shapes") {
		cfg.Animation.ExtendedShapes = strings.ToUpper(strings.TrimSpace(opts.extendedShapes))
	}
	if flags.Changed("max-utterance") {
		cfg.Audio.MaxUtteranceSeconds = opts.maxUtterance
	}
	if flags.Changed("dat-frame-rate") {
		cfg.Export.DatFrameRate = opts.datFrameRate
	}
	if flags.Changed("dat-preston-blair") {
		cfg.Export.DatPrestonBlair = opts.datPrestonBlair
	}
	if opts.noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.RequireRecognizer()
}

func resolveFormat(opts animateOptions, cfg *config.Config) (export.Format, error) {
	if strings.TrimSpace(opts.format) != "" {
		return export.ParseFormat(opts.format)
	}
	if format, ok := export.FormatFromPath(opts.output); ok {
		return format, nil
	}
	return export.ParseFormat(cfg.Export.Format)
}

func runAnimate(cmd *cobra.Command, cfg *config.Config, baseLogger *slog.Logger, opts animateOptions, input string) error {
	runCtx := services.WithRunID(cmd.Context(), uuid.NewString())
	logger := logging.WithContext(runCtx, logging.NewComponentLogger(baseLogger, "animate"))

	format, err := resolveFormat(opts, cfg)
	if err != nil {
		return err
	}
	exporter, err := export.New(format, export.Options{
		DatFrameRate:    float64(cfg.Export.DatFrameRate),
		DatPrestonBlair: cfg.Export.DatPrestonBlair,
	})
	if err != nil {
		return err
	}
	targets, err := speech.ParseShapeSet(cfg.Animation.ExtendedShapes)
	if err != nil {
		return err
	}
	maxUtterance, err := timeline.FromSeconds(cfg.Audio.MaxUtteranceSeconds)
	if err != nil {
		return err
	}

	probe, err := ffprobe.Inspect(services.WithStage(runCtx, "probe"), cfg.FFprobeBinary(), input)
	if err != nil {
		return err
	}
	clip, err := probe.ClipRange()
	if err != nil {
		return err
	}
	logger.Info("audio probed",
		logging.String("input", input),
		logging.Stringer("duration", clip.Duration()),
		logging.Int("sample_rate", probe.SampleRate()),
	)

	var transcript *dialog.Dialog
	if strings.TrimSpace(opts.dialogPath) != "" {
		if transcript, err = dialog.Load(opts.dialogPath); err != nil {
			return err
		}
		logger.Debug("dialog loaded", logging.Int("words", len(transcript.Words())))
	}

	rec, err := recognizer.NewCommand(recognizer.Config{
		Command: cfg.Recognizer.Command,
		Args:    cfg.Recognizer.Args,
		Name:    cfg.Recognizer.Name,
		Timeout: cfg.RecognizerTimeout(),
	})
	if err != nil {
		return err
	}

	pool := workpool.New(cfg.Workers.Threads)
	defer pool.Close()

	sink, stopProgress := newProgressSink(cmd.ErrOrStderr(), opts.quiet, logger)
	defer stopProgress()

	runOpts := recognition.Options{
		AudioPath:    input,
		Clip:         clip,
		Dialog:       transcript,
		Recognizer:   rec,
		Pool:         pool,
		MaxUtterance: maxUtterance,
		Progress:     sink,
		Logger:       baseLogger,
	}
	if cfg.Cache.Enabled {
		cacheDir := cfg.Paths.CacheDir
		runOpts.OpenCache = func(ctx context.Context) (recognition.Store, error) {
			return phonecache.Open(ctx, cacheDir)
		}
	}
	result, err := recognition.Run(runCtx, runOpts)
	stopProgress()
	if err != nil {
		return err
	}

	shapes := animation.Animate(result.Phones, targets, pool)
	in := export.Input{SoundFile: input, Shapes: shapes, Targets: targets}
	if err := writeAnimation(cmd.OutOrStdout(), opts.output, exporter, in); err != nil {
		return err
	}
	if opts.table {
		fmt.Fprintln(cmd.ErrOrStderr(), renderShapeTable(shapes))
	}

	logger.Info("animation written",
		logging.String("format", string(format)),
		logging.String("output", outputName(opts.output)),
		logging.Int("cues", shapes.Len()),
		logging.Int("cache_hits", result.CacheHits),
		logging.Duration("elapsed", result.Elapsed),
	)
	return nil
}

func writeAnimation(stdout io.Writer, path string, exporter export.Exporter, in export.Input) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return exporter.Export(stdout, in)
	}
	if err := fileutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return exporter.Export(w, in)
	}); err != nil {
		return services.Wrap(services.ErrTransient, "export", "write", path, err)
	}
	return nil
}

func outputName(path string) string {
	if strings.TrimSpace(path) == "" {
		return "stdout"
	}
	return path
}
