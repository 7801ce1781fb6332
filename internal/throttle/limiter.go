package throttle

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultMaxAttempts = 3
	DefaultLockWindow  = 5 * time.Minute
)

// Config holds the lockout policy for the login attempt limiter.
type Config struct {
	MaxAttempts int           // consecutive failures before lockout
	LockWindow  time.Duration // how long an identifier stays locked
}

// Record is the per-identifier attempt state held by a Store. Attempts
// counts consecutive failures; LockedAt is the zero time until the
// identifier enters the locked state and is stamped exactly once.
type Record struct {
	Attempts int
	LockedAt time.Time
}

// Store is the backing map from normalized identifier to attempt record.
// Implementations need no internal synchronization: the Limiter serializes
// every read-modify-write under its own mutex, which also guarantees that
// transitions for a single identifier apply in invocation order.
type Store interface {
	Get(key string) (Record, bool)
	Put(key string, rec Record)
	Delete(key string)
}

// memoryStore is the default process-local Store. State is ephemeral and
// lost on restart, which is the documented behavior for this limiter.
type memoryStore struct {
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]Record)}
}

func (s *memoryStore) Get(key string) (Record, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

func (s *memoryStore) Put(key string, rec Record) {
	s.records[key] = rec
}

func (s *memoryStore) Delete(key string) {
	delete(s.records, key)
}

// Limiter tracks consecutive failed authentication attempts per identifier
// (email) and enforces a temporary lockout once the failure threshold is
// reached. It is owned as an explicit instance and injected where needed
// rather than living as ambient global state, so tests get fresh state and
// the Store can later move to a shared external cache.
type Limiter struct {
	mu     sync.Mutex
	store  Store
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Limiter over the given store. Zero config fields fall back
// to DefaultMaxAttempts and DefaultLockWindow.
func New(store Store, config Config, logger *slog.Logger) *Limiter {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.LockWindow <= 0 {
		config.LockWindow = DefaultLockWindow
	}
	return &Limiter{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// normalizeKey lowercases and trims the identifier. Throttling applies to
// any submitted email, whether or not it belongs to a real account.
func normalizeKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLocked reports whether the identifier is currently locked and, if so,
// how long until the lock expires. The remaining time is recomputed live
// from the lock timestamp; an expired lock reports unlocked but the stale
// record is left in place until the next RecordFailure or RecordSuccess
// touches the key. Observation never mutates state.
func (l *Limiter) IsLocked(email string) (bool, time.Duration) {
	key := normalizeKey(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.store.Get(key)
	if !ok || rec.Attempts < l.config.MaxAttempts {
		return false, 0
	}

	remaining := l.config.LockWindow - l.now().Sub(rec.LockedAt)
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// RecordFailure counts one failed attempt for the identifier. Reaching the
// threshold stamps the lock timestamp exactly once; further failures while
// locked do not refresh it, so the lock duration is fixed from the first
// entry into the locked state.
func (l *Limiter) RecordFailure(email string) {
	key := normalizeKey(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, _ := l.store.Get(key)
	rec.Attempts++

	// Stamp the lock on first entry into the locked state, or start a new
	// lock when a failure lands on a stale, already-expired record. A
	// failure during an active lock leaves the timestamp alone.
	now := l.now()
	expired := !rec.LockedAt.IsZero() && now.Sub(rec.LockedAt) >= l.config.LockWindow
	if rec.Attempts >= l.config.MaxAttempts && (rec.LockedAt.IsZero() || expired) {
		rec.LockedAt = now
		if l.logger != nil {
			l.logger.Warn("login identifier locked",
				slog.String("identifier", key),
				slog.Int("attempts", rec.Attempts),
				slog.Duration("lock_window", l.config.LockWindow))
		}
	}
	l.store.Put(key, rec)
}

// RecordSuccess fully resets the identifier from any state, including a
// still-active lock.
func (l *Limiter) RecordSuccess(email string) {
	key := normalizeKey(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.Delete(key)
}
