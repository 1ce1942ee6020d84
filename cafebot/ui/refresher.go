package ui

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/netcafe-dev/cafebot/cafebot/game"
)

// PanelRefresher pushes a freshly simulated record back into the player's
// live panel message. Records without a stored panel are skipped; a deleted
// panel message is logged and forgotten about until the player reopens one.
type PanelRefresher struct {
	client   bot.Client
	renderer *PanelRenderer
}

func NewPanelRefresher(client bot.Client, renderer *PanelRenderer) *PanelRefresher {
	return &PanelRefresher{client: client, renderer: renderer}
}

func (r *PanelRefresher) Refresh(ctx context.Context, id string, rec *game.Record) {
	if rec.PanelChannelID == "" || rec.PanelMessageID == "" {
		return
	}

	channelID, err := snowflake.Parse(rec.PanelChannelID)
	if err != nil {
		slog.Warn("Invalid panel channel id",
			slog.String("player_id", id),
			slog.String("channel_id", rec.PanelChannelID))
		return
	}
	messageID, err := snowflake.Parse(rec.PanelMessageID)
	if err != nil {
		slog.Warn("Invalid panel message id",
			slog.String("player_id", id),
			slog.String("message_id", rec.PanelMessageID))
		return
	}

	embed := r.renderer.Embed(rec)
	components := r.renderer.Components(id, rec)

	_, err = r.client.Rest().UpdateMessage(channelID, messageID, discord.MessageUpdate{
		Embeds:     &[]discord.Embed{embed},
		Components: &components,
	}, rest.WithCtx(ctx))
	if err != nil {
		slog.Warn("Failed to refresh café panel",
			slog.String("player_id", id),
			slog.Any("error", err))
	}
}
