package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/netcafe-dev/cafebot/cafebot/database/models"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a player has no stored café yet.
var ErrNotFound = errors.New("cafe not found")

type CafeRepository interface {
	GetByDiscordID(ctx context.Context, discordID string) (*game.Record, error)
	GetAll(ctx context.Context) (map[string]*game.Record, error)
	Upsert(ctx context.Context, discordID string, rec *game.Record) error
}

type cafeRepository struct {
	db *bun.DB
}

func NewCafeRepository(db *bun.DB) CafeRepository {
	return &cafeRepository{db: db}
}

func (r *cafeRepository) GetByDiscordID(ctx context.Context, discordID string) (*game.Record, error) {
	cafe := new(models.Cafe)
	err := r.db.NewSelect().
		Model(cafe).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cafe.State.Normalize()
	return cafe.State, nil
}

func (r *cafeRepository) GetAll(ctx context.Context) (map[string]*game.Record, error) {
	var cafes []*models.Cafe
	if err := r.db.NewSelect().Model(&cafes).Scan(ctx); err != nil {
		return nil, err
	}
	all := make(map[string]*game.Record, len(cafes))
	for _, c := range cafes {
		c.State.Normalize()
		all[c.DiscordID] = c.State
	}
	return all, nil
}

func (r *cafeRepository) Upsert(ctx context.Context, discordID string, rec *game.Record) error {
	cafe := &models.Cafe{
		DiscordID: discordID,
		State:     rec,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(cafe).
		On("CONFLICT (discord_id) DO UPDATE").
		Set("state = EXCLUDED.state").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
