// Package session holds per-conversation interaction history in memory. A
// session stays alive only as long as it is read; an idle sweep reclaims the
// rest.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saywise/saywise-ai-platform/internal/analysis"
	"github.com/saywise/saywise-ai-platform/internal/observability/metrics"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

// Interaction is one completed message+analysis turn.
type Interaction struct {
	Message  string          `json:"message"`
	Analysis analysis.Bundle `json:"analysis"`
	At       time.Time       `json:"at"`
}

// Snapshot is a point-in-time copy of one session, safe to hand to callers.
type Snapshot struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"createdAt"`
	LastAccessedAt time.Time     `json:"lastAccessedAt"`
	Interactions   []Interaction `json:"interactions"`
}

type entry struct {
	mu             sync.Mutex
	id             string
	createdAt      time.Time
	lastAccessedAt time.Time
	// Oldest first; capped at the store's history limit.
	interactions []Interaction
}

// Config controls retention. Zero values pick the defaults.
type Config struct {
	TTL           time.Duration
	SweepInterval time.Duration
	HistoryLimit  int
}

const (
	defaultTTL           = 24 * time.Hour
	defaultSweepInterval = 10 * time.Minute
	defaultHistoryLimit  = 10
)

// Store is an in-memory session store. The outer map lock is held only for
// lookups; per-entry mutexes serialize history mutation so the sweep never
// blocks in-flight reads and writes on other sessions.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl          time.Duration
	sweepEvery   time.Duration
	historyLimit int

	logger  *logging.Logger
	metrics *metrics.AnalysisMetrics
	now     func() time.Time

	sweepOnceGuard sync.Once
	stop           chan struct{}
	done           chan struct{}
}

// NewStore creates a session store. m may be nil.
func NewStore(cfg Config, m *metrics.AnalysisMetrics, logger *logging.Logger) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		entries:      make(map[string]*entry),
		ttl:          cfg.TTL,
		sweepEvery:   cfg.SweepInterval,
		historyLimit: cfg.HistoryLimit,
		logger:       logger,
		metrics:      m,
		now:          time.Now,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Create allocates a fresh session and returns its opaque identifier.
func (s *Store) Create() string {
	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	s.entries[id] = &entry{
		id:             id,
		createdAt:      now,
		lastAccessedAt: now,
	}
	count := len(s.entries)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	s.logger.Debug("session created", "session_id", id)
	return id
}

func (s *Store) lookup(id string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id]
}

// Get returns a snapshot of the session, touching its last-access time. The
// touch is the sole mechanism that extends a session's life.
func (s *Store) Get(id string) (Snapshot, bool) {
	e := s.lookup(id)
	if e == nil {
		return Snapshot{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAccessedAt = s.now()
	return Snapshot{
		ID:             e.id,
		CreatedAt:      e.createdAt,
		LastAccessedAt: e.lastAccessedAt,
		Interactions:   append([]Interaction(nil), e.interactions...),
	}, true
}

// Append records one completed turn, keeping only the most recent entries up
// to the history limit. Returns false when the session does not exist.
func (s *Store) Append(id, message string, bundle analysis.Bundle) bool {
	e := s.lookup(id)
	if e == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	now := s.now()
	e.lastAccessedAt = now
	e.interactions = append(e.interactions, Interaction{
		Message:  message,
		Analysis: bundle,
		At:       now,
	})
	if overflow := len(e.interactions) - s.historyLimit; overflow > 0 {
		e.interactions = append([]Interaction(nil), e.interactions[overflow:]...)
	}
	return true
}

// Delete removes a session. Returns whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.entries[id]
	delete(s.entries, id)
	count := len(s.entries)
	s.mu.Unlock()

	if ok {
		s.metrics.SetActiveSessions(count)
		s.logger.Debug("session deleted", "session_id", id)
	}
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartSweeper launches the idle-expiry sweep. It runs until StopSweeper.
func (s *Store) StartSweeper() {
	s.sweepOnceGuard.Do(func() {
		go func() {
			defer close(s.done)
			ticker := time.NewTicker(s.sweepEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.sweep(s.now())
				case <-s.stop:
					return
				}
			}
		}()
	})
}

// StopSweeper stops the sweep goroutine and waits for it to exit. Safe to
// call without a prior StartSweeper.
func (s *Store) StopSweeper() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.sweepOnceGuard.Do(func() { close(s.done) })
	<-s.done
}

// sweep evicts every session idle longer than the TTL relative to now, and
// returns how many it removed.
func (s *Store) sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	s.mu.RLock()
	candidates := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		candidates = append(candidates, e)
	}
	s.mu.RUnlock()

	expired := make([]string, 0)
	for _, e := range candidates {
		e.mu.Lock()
		idle := e.lastAccessedAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			expired = append(expired, e.id)
		}
	}
	if len(expired) == 0 {
		return 0
	}

	s.mu.Lock()
	removed := 0
	for _, id := range expired {
		e, ok := s.entries[id]
		if !ok {
			continue
		}
		// Re-check under the entry lock: a concurrent Get may have touched
		// the session between the scan and now.
		e.mu.Lock()
		idle := e.lastAccessedAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.entries, id)
			removed++
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	if removed > 0 {
		s.metrics.AddEvictions(removed)
		s.metrics.SetActiveSessions(count)
		s.logger.Info("idle sessions evicted", "count", removed)
	}
	return removed
}
