package recognition

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"lipsync/internal/dialog"
	"lipsync/internal/fileutil"
	"lipsync/internal/lazy"
	"lipsync/internal/logging"
	"lipsync/internal/phonecache"
	"lipsync/internal/progress"
	"lipsync/internal/services"
	"lipsync/internal/services/recognizer"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
	"lipsync/internal/workpool"
)

// Store is the part of phonecache.Cache used while recognizing.
type Store interface {
	Get(ctx context.Context, key phonecache.Key) ([]timeline.Timed[speech.Phone], bool, error)
	Put(ctx context.Context, key phonecache.Key, phones []timeline.Timed[speech.Phone]) error
}

// Options configures Run. Pool may be shared with other work; when nil Run
// creates a pool sized for the machine and closes it before returning.
// OpenCache is called at most once, by the first job that needs the cache;
// nil disables caching.
type Options struct {
	AudioPath    string
	Clip         timeline.TimeRange
	Dialog       *dialog.Dialog
	Recognizer   recognizer.Recognizer
	Pool         *workpool.Pool
	MaxUtterance timeline.Centiseconds
	OpenCache    func(context.Context) (Store, error)
	Progress     progress.Sink
	Logger       *slog.Logger
}

// Result is the assembled phone timeline plus run statistics.
type Result struct {
	Phones     *timeline.ContinuousTimeline[speech.Phone]
	Utterances int
	CacheHits  int
	Elapsed    time.Duration
}

type run struct {
	opts       Options
	logger     *slog.Logger
	dialogPath string
	audioHash  *lazy.Value[string]
	cache      *lazy.Value[Store]
	cacheWarn  sync.Once
	hits       atomic.Int32

	slots [][]timeline.Timed[speech.Phone]

	failOnce sync.Once
	failErr  error
	cancel   context.CancelCauseFunc
}

// Run recognizes opts.Clip of opts.AudioPath and returns the phone timeline
// covering exactly the clip. The first utterance failure cancels the
// remaining utterances and is returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Recognizer == nil {
		return nil, services.InvalidArgument("recognition requires a recognizer")
	}
	if strings.TrimSpace(opts.AudioPath) == "" {
		return nil, services.InvalidArgument("recognition requires an audio path")
	}
	started := time.Now()
	ctx = services.WithStage(ctx, "recognize")

	r := &run{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "recognition"),
	}
	r.audioHash = lazy.New(func() (string, error) {
		return fileutil.HashFile(opts.AudioPath)
	})
	if opts.OpenCache != nil {
		r.cache = lazy.New(func() (Store, error) {
			return opts.OpenCache(ctx)
		})
	}

	if !opts.Dialog.Empty() {
		path, cleanup, err := opts.Dialog.WriteTemp("")
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "recognize", "dialog", "", err)
		}
		defer cleanup()
		r.dialogPath = path
	}

	pool := opts.Pool
	if pool == nil {
		pool = workpool.New(0)
		defer pool.Close()
	}

	utterances := SplitUtterances(opts.Clip, opts.MaxUtterance)
	r.slots = make([][]timeline.Timed[speech.Phone], len(utterances))
	logging.WithContext(ctx, r.logger).Info("recognizing phones",
		logging.Stringer("clip", opts.Clip),
		logging.Int("utterances", len(utterances)),
		logging.Int("threads", pool.ThreadCount()),
		logging.String("recognizer", opts.Recognizer.Name()),
	)

	jobCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	r.cancel = cancel

	err := workpool.ScheduleEach(pool, utterances, func(u Utterance, sink progress.Sink) {
		r.process(jobCtx, u, sink)
	}, opts.Progress, func(u Utterance) float64 {
		return float64(u.Range.Duration())
	})
	if err != nil {
		return nil, err
	}
	pool.WaitAll()
	r.closeCache()

	if r.failErr != nil {
		return nil, r.failErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phones := timeline.NewContinuousTimeline(opts.Clip, speech.PhoneNone)
	for _, slot := range r.slots {
		for _, phone := range slot {
			phones.SetTimed(phone)
		}
	}
	if len(utterances) == 0 && opts.Progress != nil {
		opts.Progress.ReportProgress(1)
	}

	result := &Result{
		Phones:     phones,
		Utterances: len(utterances),
		CacheHits:  int(r.hits.Load()),
		Elapsed:    time.Since(started),
	}
	logging.WithContext(ctx, r.logger).Info("phones recognized",
		logging.Int("segments", phones.Len()),
		logging.Int("cache_hits", result.CacheHits),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (r *run) process(ctx context.Context, u Utterance, sink progress.Sink) {
	if ctx.Err() != nil {
		return
	}
	ctx = services.WithUtterance(ctx, u.Index)
	logger := logging.WithContext(ctx, r.logger)

	key, store := r.cacheKey(logger, u)
	if store != nil {
		phones, ok, err := store.Get(ctx, key)
		if err != nil {
			logging.WarnWithContext(logger, "cached phones unreadable", "cache_read_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "utterance is recognized again"),
			)
		}
		if ok {
			r.hits.Add(1)
			r.slots[u.Index] = clip(phones, u.Range)
			sink.ReportProgress(1)
			logger.Debug("utterance served from cache", logging.Int("phones", len(phones)))
			return
		}
	}

	phones, err := r.opts.Recognizer.Recognize(ctx, recognizer.Request{
		AudioPath:  r.opts.AudioPath,
		Range:      u.Range,
		DialogPath: r.dialogPath,
		Progress:   sink,
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.fail(err)
		return
	}
	r.slots[u.Index] = clip(phones, u.Range)
	sink.ReportProgress(1)
	logger.Debug("utterance recognized", logging.Stringer("range", u.Range), logging.Int("phones", len(phones)))

	if store != nil {
		if err := store.Put(ctx, key, phones); err != nil {
			logging.WarnWithContext(logger, "caching phones failed", "cache_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run recognizes this utterance again"),
			)
		}
	}
}

// cacheKey returns the key for u and the store, or a nil store when caching
// is disabled or unavailable.
func (r *run) cacheKey(logger *slog.Logger, u Utterance) (phonecache.Key, Store) {
	if r.cache == nil {
		return phonecache.Key{}, nil
	}
	store, err := r.cache.Get()
	var hash string
	if err == nil {
		hash, err = r.audioHash.Get()
	}
	if err != nil {
		r.cacheWarn.Do(func() {
			logging.WarnWithContext(logger, "phone cache unavailable", "cache_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run 'lipsync cache purge' or set cache.enabled = false"),
				logging.String(logging.FieldImpact, "every utterance is recognized"),
			)
		})
		return phonecache.Key{}, nil
	}

	key := phonecache.Key{
		AudioHash:  hash,
		Range:      u.Range,
		Recognizer: r.opts.Recognizer.Name(),
	}
	if !r.opts.Dialog.Empty() {
		key.DialogHash = r.opts.Dialog.Hash
	}
	return key, store
}

// closeCache closes a store opened during the run.
func (r *run) closeCache() {
	if r.cache == nil || !r.cache.Initialized() {
		return
	}
	store, err := r.cache.Get()
	if err != nil {
		return
	}
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			r.logger.Debug("close phone cache", logging.Error(err))
		}
	}
}

func (r *run) fail(err error) {
	r.failOnce.Do(func() {
		r.failErr = err
		r.cancel(err)
	})
}

// clip keeps the part of each phone inside limits.
func clip(phones []timeline.Timed[speech.Phone], limits timeline.TimeRange) []timeline.Timed[speech.Phone] {
	clipped := make([]timeline.Timed[speech.Phone], 0, len(phones))
	for _, phone := range phones {
		r, ok := phone.Range.Intersect(limits)
		if !ok {
			continue
		}
		clipped = append(clipped, timeline.Timed[speech.Phone]{Range: r, Value: phone.Value})
	}
	return clipped
}
