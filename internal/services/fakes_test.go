package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abrezinsky/eventvote/internal/models"
)

// fakeBroadcaster records results_updated notifications
type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

type broadcastCall struct {
	eventID     int
	divisionIDs []int
}

func (b *fakeBroadcaster) BroadcastResultsUpdated(eventID int, divisionIDs []int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{eventID: eventID, divisionIDs: divisionIDs})
}

func (b *fakeBroadcaster) Calls() []broadcastCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]broadcastCall(nil), b.calls...)
}

// fakeRecorder counts metric events
type fakeRecorder struct {
	mu       sync.Mutex
	cast     map[string]int
	rejected map[string]int
	views    map[string]int
	hits     int
	misses   int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{cast: map[string]int{}, rejected: map[string]int{}, views: map[string]int{}}
}

func (r *fakeRecorder) BallotCast(category string, votes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cast[category]++
}

func (r *fakeRecorder) BallotRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}

func (r *fakeRecorder) ObserveResults(view string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[view]++
}

func (r *fakeRecorder) LeaderboardCacheLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

// fakeCache is an in-memory LeaderboardCache with per-event versions
type fakeCache struct {
	mu            sync.Mutex
	entries       map[string][]models.Result
	versions      map[int]int64
	invalidations int
	getErr        error
	invalidateErr error

	// beforeSet runs at the start of Set, outside the lock
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]models.Result{}, versions: map[int]int64{}}
}

func cacheKey(eventID int, version int64, divisionID *int, limit int) string {
	if divisionID == nil {
		return fmt.Sprintf("%d:v%d:all:%d", eventID, version, limit)
	}
	return fmt.Sprintf("%d:v%d:%d:%d", eventID, version, *divisionID, limit)
}

func (c *fakeCache) Get(_ context.Context, eventID int, divisionID *int, limit int) ([]models.Result, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	version := c.versions[eventID]
	r, ok := c.entries[cacheKey(eventID, version, divisionID, limit)]
	return r, version, ok, nil
}

func (c *fakeCache) Set(_ context.Context, eventID int, version int64, divisionID *int, limit int, results []models.Result) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(eventID, version, divisionID, limit)] = results
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, eventID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	c.versions[eventID]++
	return nil
}
