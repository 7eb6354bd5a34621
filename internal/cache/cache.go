// Package cache provides leaderboard caches for the results service.
package cache

import (
	"context"

	"github.com/abrezinsky/eventvote/internal/models"
)

// Noop is a leaderboard cache that never stores anything. It is used when no
// Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, int, *int, int) ([]models.Result, int64, bool, error) {
	return nil, 0, false, nil
}
func (Noop) Set(context.Context, int, int64, *int, int, []models.Result) error { return nil }
func (Noop) Invalidate(context.Context, int) error                             { return nil }
