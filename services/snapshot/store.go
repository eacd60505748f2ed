package snapshot

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"sjsage522/pricewatch/internal/crawler"
	"sjsage522/pricewatch/logger"
	"sjsage522/pricewatch/pkg/errors"
	"sjsage522/pricewatch/services/cache"
	"sjsage522/pricewatch/services/publisher"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// CacheKey is where the latest snapshot is mirrored in the CacheService
const CacheKey = "pricewatch:snapshot"

// Snapshot is one complete acquisition result and its capture time
type Snapshot struct {
	ID         string                 `json:"id"`
	CapturedAt time.Time              `json:"captured_at"`
	Results    []crawler.SourceResult `json:"results"`
}

// Acquirer runs one acquisition cycle
type Acquirer interface {
	Acquire(ctx context.Context) ([]crawler.SourceResult, error)
}

// Store holds the latest snapshot. Refreshes replace it wholesale; concurrent
// refreshes share one acquisition.
type Store struct {
	acquirer  Acquirer
	cache     cache.CacheService
	publisher publisher.Publisher
	ttl       time.Duration

	mu      sync.RWMutex
	current *Snapshot

	group singleflight.Group
	now   func() time.Time
}

// NewStore creates a store. cacheSvc and pub may be nil.
func NewStore(acquirer Acquirer, cacheSvc cache.CacheService, pub publisher.Publisher, ttl time.Duration) *Store {
	return &Store{
		acquirer:  acquirer,
		cache:     cacheSvc,
		publisher: pub,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Current returns the latest snapshot, if any
func (s *Store) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Snapshot{}, false
	}
	return *s.current, true
}

// Fresh reports whether the latest snapshot is younger than the TTL
func (s *Store) Fresh() bool {
	snap, ok := s.Current()
	return ok && s.now().Sub(snap.CapturedAt) < s.ttl
}

// Get returns the latest snapshot if fresh, otherwise refreshes. When the
// refresh fails the stale snapshot is returned if one exists.
func (s *Store) Get(ctx context.Context) (Snapshot, error) {
	if s.Fresh() {
		snap, _ := s.Current()
		return snap, nil
	}

	snap, err := s.Refresh(ctx)
	if err == nil {
		return snap, nil
	}

	if stale, ok := s.Current(); ok {
		logger.ForComponent("snapshot").Warn().Err(err).Msg("Refresh failed, serving stale snapshot")
		return stale, nil
	}
	return Snapshot{}, err
}

// Refresh runs an acquisition cycle and installs its result. Callers arriving
// while a refresh is in flight receive that refresh's outcome.
func (s *Store) Refresh(ctx context.Context) (Snapshot, error) {
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		results, err := s.acquirer.Acquire(ctx)
		if err != nil {
			return Snapshot{}, err
		}

		snap := Snapshot{
			ID:         uuid.NewString(),
			CapturedAt: s.now(),
			Results:    results,
		}
		s.replace(ctx, snap)
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// replace installs snap, mirrors it to the cache and publishes it
func (s *Store) replace(ctx context.Context, snap Snapshot) {
	log := logger.ForComponent("snapshot")

	s.mu.Lock()
	s.current = &snap
	s.mu.Unlock()

	if s.cache == nil && s.publisher == nil {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode snapshot")
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(CacheKey, data, 0); err != nil {
			log.Warn().Err(errors.NewCache(CacheKey, "failed to mirror snapshot", err)).Msg("Snapshot not mirrored")
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "snapshot", data); err != nil {
			log.Warn().Err(err).Msg("Snapshot not published")
		}
	}

	log.Info().
		Str("snapshot_id", snap.ID).
		Int("sources", len(snap.Results)).
		Msg("Snapshot replaced")
}

// Restore loads the mirrored snapshot from the cache, e.g. after a restart.
// A missing mirror is not an error.
func (s *Store) Restore() error {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(CacheKey)
	if stderrors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		return errors.NewCache(CacheKey, "failed to read snapshot mirror", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.NewCache(CacheKey, "failed to decode snapshot mirror", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || snap.CapturedAt.After(s.current.CapturedAt) {
		s.current = &snap
	}
	return nil
}
