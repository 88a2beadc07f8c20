package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// memorySession - used when redis is disabled. Same contract as the redis repository.
type memorySession struct {
	mu  sync.RWMutex
	now func() time.Time

	sessions     map[string]storedSnapshot
	ttl          time.Duration
	results      []entity.GameResult
	resultsLimit int
}

type storedSnapshot struct {
	snapshot  entity.SessionSnapshot
	expiresAt time.Time
}

// NewMemorySessionRepository - ttl of zero keeps snapshots forever.
func NewMemorySessionRepository(ttl time.Duration, resultsLimit int) SessionRepository {
	return &memorySession{
		now:          time.Now,
		sessions:     make(map[string]storedSnapshot),
		ttl:          ttl,
		resultsLimit: resultsLimit,
	}
}

func (that *memorySession) Save(_ context.Context, snapshot entity.SessionSnapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.evictExpired(now)

	if stored, ok := that.sessions[snapshot.ID]; ok && stored.snapshot.Revision > snapshot.Revision {
		return nil
	}

	entry := storedSnapshot{snapshot: snapshot}
	if that.ttl > 0 {
		entry.expiresAt = now.Add(that.ttl)
	}
	that.sessions[snapshot.ID] = entry

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (entity.SessionSnapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stored, ok := that.sessions[id]
	if !ok || stored.expired(that.now()) {
		return entity.SessionSnapshot{}, ErrSessionNotFound
	}

	return stored.snapshot, nil
}

// evictExpired - must be called with the write lock held.
func (that *memorySession) evictExpired(now time.Time) {
	for id, stored := range that.sessions {
		if stored.expired(now) {
			delete(that.sessions, id)
		}
	}
}

func (that storedSnapshot) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}

func (that *memorySession) SaveResult(_ context.Context, result entity.GameResult) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.results = append([]entity.GameResult{result}, that.results...)
	if that.resultsLimit > 0 && len(that.results) > that.resultsLimit {
		that.results = that.results[:that.resultsLimit]
	}

	return nil
}

func (that *memorySession) RecentResults(_ context.Context, limit int) ([]entity.GameResult, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if limit > len(that.results) {
		limit = len(that.results)
	}

	if limit <= 0 {
		return []entity.GameResult{}, nil
	}

	results := make([]entity.GameResult, limit)
	copy(results, that.results[:limit])

	return results, nil
}
