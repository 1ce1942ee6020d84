package components

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/netcafe-dev/cafebot/cafebot"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/ui"
	"github.com/netcafe-dev/cafebot/cafebot/utils"
)

// PanelComponentHandler dispatches the café panel's buttons and the action
// select menu. The owner's user id is baked into every custom id; anyone
// else poking the panel gets an ephemeral refusal.
func PanelComponentHandler(b *cafebot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		customID := e.Data.CustomID()

		var kind game.ActionKind
		var ownerID string

		if k, owner, ok := ui.ParseActionCustomID(customID); ok {
			kind, ownerID = k, owner
		} else if owner, ok := ui.ParseMenuCustomID(customID); ok {
			data, isMenu := e.Data.(discord.StringSelectMenuInteractionData)
			if !isMenu || len(data.Values) == 0 {
				return utils.EH.CreateEphemeralError(e, "Invalid interaction data.")
			}
			kind, ownerID = game.ActionKind(data.Values[0]), owner
			if _, known := game.ActionByKind(kind); !known {
				return utils.EH.CreateEphemeralError(e, "Unknown action.")
			}
		} else {
			return fmt.Errorf("unrecognized panel custom id %q", customID)
		}

		if e.User().ID.String() != ownerID {
			return utils.EH.CreateEphemeralError(e, "This café belongs to another player.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		act, _ := game.ActionByKind(kind)

		var outcome string
		rec, err := b.Manager.Update(ctx, ownerID, func(r *game.Record) error {
			hours := b.Engine.ElapsedHours(r, b.Clock.Now())
			if hours > 0 {
				b.Engine.AdvanceHours(r, hours, b.RNG)
			}
			var applyErr error
			outcome, applyErr = act.Apply(r, b.RNG)
			return applyErr
		})
		if err != nil {
			var rej game.Rejection
			if errors.As(err, &rej) {
				return utils.EH.CreateEphemeralError(e, rej.Reason)
			}
			return fmt.Errorf("failed to apply %s: %w", kind, err)
		}

		embed := b.Panels.Embed(rec)
		embed.Description = "🗨️ " + outcome
		components := b.Panels.Components(ownerID, rec)

		return e.UpdateMessage(discord.MessageUpdate{
			Embeds:     &[]discord.Embed{embed},
			Components: &components,
		})
	}
}
