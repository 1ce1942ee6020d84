// Package scheduler drives every player's simulation forward on a fixed
// cadence, one simulated hour per tick interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const maxConcurrentPlayers = 8

// Refresher is the presentation collaborator: after a record advances, it is
// asked to redraw whatever panel the player has on screen. Failures are the
// refresher's problem, not the scheduler's.
type Refresher interface {
	Refresh(ctx context.Context, id string, rec *game.Record)
}

// NopRefresher is used when no presentation layer is attached (tests, the
// migrate tool).
type NopRefresher struct{}

func (NopRefresher) Refresh(context.Context, string, *game.Record) {}

type Scheduler struct {
	manager   *store.Manager
	engine    game.Engine
	rng       game.Rand
	clock     game.Clock
	refresher Refresher
	sem       *semaphore.Weighted
}

func New(manager *store.Manager, engine game.Engine, rng game.Rand, clock game.Clock, refresher Refresher) *Scheduler {
	if clock == nil {
		clock = game.RealClock{}
	}
	if refresher == nil {
		refresher = NopRefresher{}
	}
	return &Scheduler{
		manager:   manager,
		engine:    engine,
		rng:       rng,
		clock:     clock,
		refresher: refresher,
		sem:       semaphore.NewWeighted(maxConcurrentPlayers),
	}
}

// Run ticks until the context is cancelled. A cycle that overruns its
// interval needs no special handling: elapsed hours derive from each record's
// stored LastTick, so skipped cycles are compensated on the next one.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Tick scheduler running",
		slog.String("type", "sys"),
		slog.Duration("interval", s.engine.Interval))

	ticker := time.NewTicker(s.engine.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Tick scheduler stopped", slog.String("type", "sys"))
			return
		case <-ticker.C:
			s.Cycle(ctx)
		}
	}
}

// Cycle advances every known player once. Per-player failures are logged and
// isolated; one broken record never stalls the rest.
func (s *Scheduler) Cycle(ctx context.Context) {
	start := time.Now()

	ids, err := s.manager.IDs(ctx)
	if err != nil {
		slog.Error("Tick cycle could not list players",
			slog.String("type", "sys"),
			slog.String("error", err.Error()))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		if err := s.sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer s.sem.Release(1)
			s.advancePlayer(gctx, id)
			return nil
		})
	}
	g.Wait()

	slog.Debug("Tick cycle complete",
		slog.String("type", "sys"),
		slog.Int("players", len(ids)),
		slog.Duration("took", time.Since(start)))
}

func (s *Scheduler) advancePlayer(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tick panicked for player",
				slog.String("type", "sys"),
				slog.String("player_id", id),
				slog.Any("panic", r))
		}
	}()

	now := s.clock.Now()
	var advanced int
	rec, err := s.manager.Update(ctx, id, func(rec *game.Record) error {
		advanced = s.engine.ElapsedHours(rec, now)
		s.engine.AdvanceHours(rec, advanced, s.rng)
		return nil
	})
	if err != nil {
		slog.Error("Tick failed for player",
			slog.String("type", "sys"),
			slog.String("player_id", id),
			slog.String("error", err.Error()))
		return
	}
	if advanced > 0 {
		s.refresher.Refresh(ctx, id, rec)
	}
}
