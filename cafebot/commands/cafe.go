package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/netcafe-dev/cafebot/cafebot"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/utils"
)

var Cafe = discord.SlashCommandCreate{
	Name:        "cafe",
	Description: "🏪 Open your internet café control panel",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "image",
			Description: "Attach a rendered snapshot of the café",
			Required:    false,
		},
	},
}

func CafeHandler(b *cafebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		userID := e.User().ID.String()
		rec, err := syncToNow(ctx, b, userID)
		if err != nil {
			return utils.EH.UpdateInteractionResponse(e, "Café unavailable",
				"Could not load your café. Please try again later.")
		}

		embed := b.Panels.Embed(rec)
		components := b.Panels.Components(userID, rec)

		update := discord.MessageUpdate{
			Embeds:     &[]discord.Embed{embed},
			Components: &components,
		}

		withImage, _ := e.SlashCommandInteractionData().OptBool("image")
		if withImage && b.PanelImages != nil {
			png, imgErr := b.PanelImages.Render(ctx, userID, rec)
			if imgErr != nil {
				slog.Warn("Panel image render failed, sending embed only",
					slog.String("user_id", userID),
					slog.Any("error", imgErr))
			} else {
				update.Files = []*discord.File{discord.NewFile("cafe.png", "", bytes.NewReader(png))}
				embed.Image = &discord.EmbedResource{URL: "attachment://cafe.png"}
				update.Embeds = &[]discord.Embed{embed}
			}
		}

		msg, err := e.UpdateInteractionResponse(update)
		if err != nil {
			return fmt.Errorf("failed to send café panel: %w", err)
		}

		// Remember the live panel so scheduler ticks can refresh it in place.
		if _, err := b.Manager.Update(ctx, userID, func(r *game.Record) error {
			r.PanelChannelID = msg.ChannelID.String()
			r.PanelMessageID = msg.ID.String()
			return nil
		}); err != nil {
			slog.Warn("Failed to store panel reference",
				slog.String("user_id", userID),
				slog.Any("error", err))
		}
		return nil
	}
}
