package recognition

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"lipsync/internal/dialog"
	"lipsync/internal/phonecache"
	"lipsync/internal/services"
	"lipsync/internal/services/recognizer"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
	"lipsync/internal/workpool"
)

// fakeRecognizer emits AA over the first half of each request and M over the
// second half, plus a P that spills past the end of the request.
type fakeRecognizer struct {
	mu      sync.Mutex
	calls   []recognizer.Request
	dialogs []string
	failAt  timeline.Centiseconds
	failErr error
}

func (f *fakeRecognizer) Name() string { return "fake" }

func (f *fakeRecognizer) Recognize(ctx context.Context, req recognizer.Request) ([]timeline.Timed[speech.Phone], error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	if req.DialogPath != "" {
		data, _ := os.ReadFile(req.DialogPath)
		f.dialogs = append(f.dialogs, string(data))
	}
	f.mu.Unlock()

	if f.failErr != nil && req.Range.Start() == f.failAt {
		return nil, f.failErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req.Progress.ReportProgress(0.5)
	start, end := req.Range.Start(), req.Range.End()
	mid := start + req.Range.Duration().Div(2)
	return []timeline.Timed[speech.Phone]{
		timeline.At(start, mid, speech.PhoneAA),
		timeline.At(mid, end, speech.PhoneM),
		timeline.At(end, end+20, speech.PhoneP),
	}, nil
}

func (f *fakeRecognizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[phonecache.Key][]timeline.Timed[speech.Phone]
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[phonecache.Key][]timeline.Timed[speech.Phone]{}}
}

func (m *memoryStore) Get(_ context.Context, key phonecache.Key) ([]timeline.Timed[speech.Phone], bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	phones, ok := m.entries[key]
	return phones, ok, nil
}

func (m *memoryStore) Put(_ context.Context, key phonecache.Key, phones []timeline.Timed[speech.Phone]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = phones
	return nil
}

type lastValue struct {
	mu    sync.Mutex
	value float64
	count int
}

func (l *lastValue) ReportProgress(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = v
	l.count++
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunAssemblesTimeline(t *testing.T) {
	fake := &fakeRecognizer{}
	sink := &lastValue{}
	pool := workpool.New(3)
	defer pool.Close()

	result, err := Run(context.Background(), Options{
		AudioPath:    writeAudio(t),
		Clip:         timeline.MustTimeRange(0, 300),
		Recognizer:   fake,
		Pool:         pool,
		MaxUtterance: 100,
		Progress:     sink,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Utterances != 3 || fake.callCount() != 3 {
		t.Fatalf("utterances=%d calls=%d", result.Utterances, fake.callCount())
	}

	want := timeline.NewContinuousTimeline(timeline.MustTimeRange(0, 300), speech.PhoneNone,
		timeline.At(0, 50, speech.PhoneAA), timeline.At(50, 100, speech.PhoneM),
		timeline.At(100, 150, speech.PhoneAA), timeline.At(150, 200, speech.PhoneM),
		timeline.At(200, 250, speech.PhoneAA), timeline.At(250, 300, speech.PhoneM),
	)
	if !result.Phones.Equal(want) {
		t.Fatalf("phones = %s\nwant %s", result.Phones, want)
	}
	if sink.value != 1 {
		t.Fatalf("final progress = %v, want 1", sink.value)
	}
}

func TestRunLeavesUnrecognizedTimeSilent(t *testing.T) {
	result, err := Run(context.Background(), Options{
		AudioPath:  writeAudio(t),
		Clip:       timeline.MustTimeRange(0, 100),
		Recognizer: emptyRecognizer{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	segments := result.Phones.Segments()
	if len(segments) != 1 || segments[0].Value != speech.PhoneNone {
		t.Fatalf("expected one silent segment, got %v", segments)
	}
}

type emptyRecognizer struct{}

func (emptyRecognizer) Name() string { return "empty" }

func (emptyRecognizer) Recognize(context.Context, recognizer.Request) ([]timeline.Timed[speech.Phone], error) {
	return nil, nil
}

func TestRunEmptyClip(t *testing.T) {
	sink := &lastValue{}
	result, err := Run(context.Background(), Options{
		AudioPath:  writeAudio(t),
		Clip:       timeline.MustTimeRange(10, 10),
		Recognizer: &fakeRecognizer{},
		Progress:   sink,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Phones.Empty() || result.Utterances != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if sink.value != 1 {
		t.Fatalf("progress = %v, want 1", sink.value)
	}
}

func TestRunReturnsFirstFailure(t *testing.T) {
	boom := services.Wrap(services.ErrExternalTool, "recognize", "fake", "", errors.New("boom"))
	fake := &fakeRecognizer{failAt: 100, failErr: boom}
	pool := workpool.New(1)
	defer pool.Close()

	_, err := Run(context.Background(), Options{
		AudioPath:    writeAudio(t),
		Clip:         timeline.MustTimeRange(0, 400),
		Recognizer:   fake,
		Pool:         pool,
		MaxUtterance: 100,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected recognizer failure, got %v", err)
	}
	if fake.callCount() != 2 {
		t.Fatalf("expected remaining utterances to be skipped, got %d calls", fake.callCount())
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := &fakeRecognizer{}
	_, err := Run(ctx, Options{
		AudioPath:    writeAudio(t),
		Clip:         timeline.MustTimeRange(0, 300),
		Recognizer:   fake,
		MaxUtterance: 100,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fake.callCount() != 0 {
		t.Fatalf("expected no recognizer calls, got %d", fake.callCount())
	}
}

func TestRunValidatesOptions(t *testing.T) {
	if _, err := Run(context.Background(), Options{AudioPath: "x"}); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument without recognizer, got %v", err)
	}
	if _, err := Run(context.Background(), Options{Recognizer: &fakeRecognizer{}}); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument without audio, got %v", err)
	}
}

func TestRunUsesCache(t *testing.T) {
	audio := writeAudio(t)
	store := newMemoryStore()
	opens := 0
	opts := Options{
		AudioPath:    audio,
		Clip:         timeline.MustTimeRange(0, 300),
		MaxUtterance: 100,
		OpenCache: func(context.Context) (Store, error) {
			opens++
			return store, nil
		},
	}

	first := &fakeRecognizer{}
	opts.Recognizer = first
	cold, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if cold.CacheHits != 0 || first.callCount() != 3 || len(store.entries) != 3 {
		t.Fatalf("cold run: hits=%d calls=%d entries=%d", cold.CacheHits, first.callCount(), len(store.entries))
	}

	second := &fakeRecognizer{}
	opts.Recognizer = second
	warm, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if warm.CacheHits != 3 || second.callCount() != 0 {
		t.Fatalf("warm run: hits=%d calls=%d", warm.CacheHits, second.callCount())
	}
	if !warm.Phones.Equal(cold.Phones) {
		t.Fatalf("cached timeline differs:\n%s\n%s", warm.Phones, cold.Phones)
	}
	if opens != 2 {
		t.Fatalf("expected one cache open per run, got %d", opens)
	}
}

func TestRunWithPhoneCache(t *testing.T) {
	cacheDir := t.TempDir()
	opts := Options{
		AudioPath:    writeAudio(t),
		Clip:         timeline.MustTimeRange(0, 200),
		MaxUtterance: 100,
		Recognizer:   &fakeRecognizer{},
		OpenCache: func(ctx context.Context) (Store, error) {
			return phonecache.Open(ctx, cacheDir)
		},
	}
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	warm, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if warm.CacheHits != 2 {
		t.Fatalf("expected 2 cache hits, got %d", warm.CacheHits)
	}
	// Run closes the cache, so a purge can take the exclusive lock.
	if _, err := phonecache.Purge(context.Background(), cacheDir); err != nil {
		t.Fatalf("Purge: %v", err)
	}
}

func TestRunFallsBackWhenCacheUnavailable(t *testing.T) {
	fake := &fakeRecognizer{}
	result, err := Run(context.Background(), Options{
		AudioPath:    writeAudio(t),
		Clip:         timeline.MustTimeRange(0, 200),
		MaxUtterance: 100,
		Recognizer:   fake,
		OpenCache: func(context.Context) (Store, error) {
			return nil, errors.New("disk full")
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fake.callCount() != 2 || result.CacheHits != 0 {
		t.Fatalf("calls=%d hits=%d", fake.callCount(), result.CacheHits)
	}
}

func TestRunPassesDialog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialog.txt")
	if err := os.WriteFile(path, []byte("Hello,   world"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := dialog.Load(path)
	if err != nil {
		t.Fatalf("dialog.Load: %v", err)
	}
	store := newMemoryStore()
	fake := &fakeRecognizer{}
	_, err = Run(context.Background(), Options{
		AudioPath:  writeAudio(t),
		Clip:       timeline.MustTimeRange(0, 100),
		Dialog:     d,
		Recognizer: fake,
		OpenCache:  func(context.Context) (Store, error) { return store, nil },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(fake.dialogs) != 1 || fake.dialogs[0] != "Hello, world\n" {
		t.Fatalf("recognizer saw dialogs %q", fake.dialogs)
	}
	for key := range store.entries {
		if key.DialogHash != d.Hash {
			t.Fatalf("cache key dialog hash = %q, want %q", key.DialogHash, d.Hash)
		}
	}
	if _, statErr := os.Stat(fake.calls[0].DialogPath); !os.IsNotExist(statErr) {
		t.Fatalf("dialog temp file should be removed, stat err = %v", statErr)
	}
}
