package store

import (
	"context"
	"sync"

	"github.com/netcafe-dev/cafebot/cafebot/game"
)

// Manager serializes every load-mutate-save sequence per player identity.
// Both the tick scheduler and every action handler go through Update, which
// closes the lost-update window between the background tick path and the
// command path.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(s Store) *Manager {
	return &Manager{
		store: s,
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Update runs fn against the player's record inside the identity's critical
// section and persists the result. If fn returns an error nothing is saved
// and the error is passed through; a game.Rejection therefore leaves the
// stored record untouched.
func (m *Manager) Update(ctx context.Context, id string, fn func(rec *game.Record) error) (*game.Record, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	rec, err := m.store.LoadOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(rec); err != nil {
		return nil, err
	}
	if err := m.store.SaveOne(ctx, id, rec); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// View returns a deep copy of the player's record, created lazily if absent.
func (m *Manager) View(ctx context.Context, id string) (*game.Record, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	rec, err := m.store.LoadOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// IDs lists every known player identity.
func (m *Manager) IDs(ctx context.Context) ([]string, error) {
	all, err := m.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	return ids, nil
}

// Snapshot returns deep copies of every record, for read-only consumers like
// the leaderboard and the backup service.
func (m *Manager) Snapshot(ctx context.Context) (map[string]*game.Record, error) {
	all, err := m.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*game.Record, len(all))
	for id, rec := range all {
		out[id] = rec.Clone()
	}
	return out, nil
}
