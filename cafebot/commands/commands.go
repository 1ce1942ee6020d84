package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/netcafe-dev/cafebot/cafebot"
	"github.com/netcafe-dev/cafebot/cafebot/game"
)

var Commands = []discord.ApplicationCommandCreate{
	Cafe,
	Shop,
	Top,
	Version,
}

// syncToNow advances a player's café to the wall clock inside the store's
// critical section and returns the resulting snapshot. Commands call this
// before rendering so a player never sees a stale record between scheduler
// ticks.
func syncToNow(ctx context.Context, b *cafebot.Bot, id string) (*game.Record, error) {
	return b.Manager.Update(ctx, id, func(rec *game.Record) error {
		hours := b.Engine.ElapsedHours(rec, b.Clock.Now())
		if hours > 0 {
			b.Engine.AdvanceHours(rec, hours, b.RNG)
		}
		return nil
	})
}
