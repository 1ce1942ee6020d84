package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/netcafe-dev/cafebot/cafebot/database/repositories"
	"github.com/netcafe-dev/cafebot/cafebot/game"
)

// PGStore backs the Store contract with the cafes table. Row-per-player
// rather than a single document, but the whole record is still replaced on
// every save, so the Manager's per-identity lock remains the only write
// coordination needed.
type PGStore struct {
	repo  repositories.CafeRepository
	clock game.Clock
}

func NewPGStore(repo repositories.CafeRepository, clock game.Clock) *PGStore {
	if clock == nil {
		clock = game.RealClock{}
	}
	return &PGStore{repo: repo, clock: clock}
}

func (s *PGStore) LoadAll(ctx context.Context) (map[string]*game.Record, error) {
	return s.repo.GetAll(ctx)
}

func (s *PGStore) LoadOne(ctx context.Context, id string) (*game.Record, error) {
	rec, err := s.repo.GetByDiscordID(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	rec = game.NewRecord(s.clock.Now())
	if err := s.repo.Upsert(ctx, id, rec); err != nil {
		return nil, err
	}
	slog.Info("Created new café record",
		slog.String("type", "db"),
		slog.String("player_id", id))
	return rec, nil
}

func (s *PGStore) SaveOne(ctx context.Context, id string, rec *game.Record) error {
	return s.repo.Upsert(ctx, id, rec)
}

func (s *PGStore) SaveAll(ctx context.Context, all map[string]*game.Record) error {
	for id, rec := range all {
		if err := s.repo.Upsert(ctx, id, rec); err != nil {
			return err
		}
	}
	return nil
}
