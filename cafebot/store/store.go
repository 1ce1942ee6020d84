// Package store owns persistence of café records and the per-identity
// critical section both the scheduler and the command handlers go through.
package store

import (
	"context"

	"github.com/netcafe-dev/cafebot/cafebot/game"
)

// Store is the durable mapping from player identity to simulation record.
// LoadOne lazily creates (and persists) a baseline record on first access.
// Writes are whole-record replacements; callers must not hold onto records
// across critical sections.
type Store interface {
	LoadAll(ctx context.Context) (map[string]*game.Record, error)
	LoadOne(ctx context.Context, id string) (*game.Record, error)
	SaveOne(ctx context.Context, id string, rec *game.Record) error
	SaveAll(ctx context.Context, all map[string]*game.Record) error
}
