package phonecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"lipsync/internal/services"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

const (
	// FileName is the database file created inside the cache directory.
	FileName = "phones.db"
	lockName = "phones.lock"

	lockRetryDelay = 50 * time.Millisecond
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Key identifies one recognized utterance.
type Key struct {
	AudioHash  string
	Range      timeline.TimeRange
	Recognizer string
	DialogHash string
}

func (k Key) validate() error {
	if strings.TrimSpace(k.AudioHash) == "" {
		return services.InvalidArgument("cache key requires an audio hash")
	}
	if strings.TrimSpace(k.Recognizer) == "" {
		return services.InvalidArgument("cache key requires a recognizer name")
	}
	return nil
}

// Cache is safe for concurrent use by the recognition workers.
type Cache struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

type entry struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Phone string `json:"phone"`
}

// Open creates dir when needed, takes the shared cache lock and opens the
// database. It waits for a running purge until ctx is done.
func Open(ctx context.Context, dir string) (*Cache, error) {
	ctx = ensureContext(ctx)
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.InvalidArgument("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "create directory", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "cache", "lock", dir, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "cache", "lock", "cache is being purged", nil)
	}

	dbPath := filepath.Join(dir, FileName)
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	cache := &Cache{db: db, path: dbPath, lock: lock}
	if err := cache.initSchema(ctx); err != nil {
		_ = cache.Close()
		return nil, err
	}
	return cache, nil
}

// Path returns the database file location.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Close closes the database and releases the shared lock.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	var err error
	if c.db != nil {
		err = c.db.Close()
	}
	if c.lock != nil {
		err = errors.Join(err, c.lock.Close())
	}
	return err
}

// Get returns the phones stored for key. The boolean is false on a miss.
func (c *Cache) Get(ctx context.Context, key Key) ([]timeline.Timed[speech.Phone], bool, error) {
	if err := key.validate(); err != nil {
		return nil, false, err
	}
	ctx = ensureContext(ctx)

	var payload string
	err := retryOnBusy(ctx, func() error {
		return c.db.QueryRowContext(ctx,
			`SELECT phones FROM phones
			 WHERE audio_hash = ? AND range_start = ? AND range_end = ? AND recognizer = ? AND dialog_hash = ?`,
			key.AudioHash, int64(key.Range.Start()), int64(key.Range.End()), key.Recognizer, key.DialogHash,
		).Scan(&payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cached phones: %w", err)
	}

	phones, err := decodePhones(payload)
	if err != nil {
		return nil, false, services.Wrap(services.ErrValidation, "cache", "decode", key.Range.String(), err)
	}
	return phones, true, nil
}

// Put stores phones for key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key Key, phones []timeline.Timed[speech.Phone]) error {
	if err := key.validate(); err != nil {
		return err
	}
	ctx = ensureContext(ctx)

	payload, err := encodePhones(phones)
	if err != nil {
		return fmt.Errorf("encode phones: %w", err)
	}
	return c.execWithoutResultRetry(ctx,
		`INSERT OR REPLACE INTO phones
		 (audio_hash, range_start, range_end, recognizer, dialog_hash, phones, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key.AudioHash, int64(key.Range.Start()), int64(key.Range.End()), key.Recognizer, key.DialogHash,
		payload, time.Now().UTC().Format(time.RFC3339),
	)
}

// Count returns the number of stored utterances.
func (c *Cache) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return c.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM phones").Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count cached phones: %w", err)
	}
	return count, nil
}

// Purge deletes the database files in dir. It fails when another run holds
// the cache open past ctx. The returned count is the number of files
// removed.
func Purge(ctx context.Context, dir string) (int, error) {
	ctx = ensureContext(ctx)
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return 0, services.InvalidArgument("cache directory is empty")
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	lock := flock.New(filepath.Join(dir, lockName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "cache", "lock", "cache is in use", err)
	}
	if !locked {
		return 0, services.Wrap(services.ErrTransient, "cache", "lock", "cache is in use", nil)
	}
	defer func() { _ = lock.Close() }()

	removed := 0
	base := filepath.Join(dir, FileName)
	for _, path := range []string{base, base + "-wal", base + "-shm"} {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return removed, nil
}

func encodePhones(phones []timeline.Timed[speech.Phone]) (string, error) {
	entries := make([]entry, 0, len(phones))
	for _, phone := range phones {
		entries = append(entries, entry{
			Start: int64(phone.Start()),
			End:   int64(phone.End()),
			Phone: phone.Value.String(),
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePhones(payload string) ([]timeline.Timed[speech.Phone], error) {
	var entries []entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, err
	}
	phones := make([]timeline.Timed[speech.Phone], 0, len(entries))
	for _, e := range entries {
		timed, err := timeline.NewTimed(timeline.Centiseconds(e.Start), timeline.Centiseconds(e.End), speech.ParsePhone(e.Phone))
		if err != nil {
			return nil, err
		}
		phones = append(phones, timed)
	}
	return phones, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}

func (c *Cache) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := c.db.ExecContext(ctx, query, args...)
		return err
	})
}
