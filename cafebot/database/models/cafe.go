package models

import (
	"time"

	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/uptrace/bun"
)

// Cafe is one player's simulation record as stored by the Postgres driver.
// The full game state lives in a single jsonb column; the row exists so the
// identity is indexable and save timestamps are queryable.
type Cafe struct {
	bun.BaseModel `bun:"table:cafes,alias:c"`

	ID        int64        `bun:"id,pk,autoincrement"`
	DiscordID string       `bun:"discord_id,notnull,unique"`
	State     *game.Record `bun:"state,type:jsonb,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
