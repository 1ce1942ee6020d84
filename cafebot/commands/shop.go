package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/netcafe-dev/cafebot/cafebot"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/utils"
	"github.com/sahilm/fuzzy"
)

const shopItemsPerPage = 3

var Shop = discord.SlashCommandCreate{
	Name:        "shop",
	Description: "🛒 Browse and buy café upgrades",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Browse the upgrade catalog",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "buy",
			Description: "Buy an upgrade for your café",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "item",
					Description:  "The upgrade to buy",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	},
}

func ShopHandler(b *cafebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "buy":
			return handleShopBuy(b, e, data.String("item"))
		default:
			return handleShopList(b, e)
		}
	}
}

func handleShopList(b *cafebot.Bot, e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec, err := syncToNow(ctx, b, e.User().ID.String())
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, "Could not load your café. Please try again later.")
	}

	items := game.ShopCatalog
	totalPages := (len(items) + shopItemsPerPage - 1) / shopItemsPerPage

	return b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * shopItemsPerPage
			end := start + shopItemsPerPage
			if end > len(items) {
				end = len(items)
			}

			var sb strings.Builder
			for _, item := range items[start:end] {
				owned := rec.Shop[item.ID]
				sb.WriteString(fmt.Sprintf("**%s** — 💰 %s\n%s\n", item.Name, utils.FormatNumber(item.Cost), item.Blurb))
				if owned > 0 {
					sb.WriteString(fmt.Sprintf("Owned: %d\n", owned))
				}
				sb.WriteString("\n")
			}

			embed.
				SetTitle("🛒 Café Upgrade Shop").
				SetDescription(sb.String()).
				SetColor(utils.InfoColor).
				SetFooter(fmt.Sprintf("Page %d/%d • Cash: %s", page+1, totalPages, utils.FormatNumber(rec.Cash)), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func handleShopBuy(b *cafebot.Bot, e *handler.CommandEvent, itemID string) error {
	item, ok := game.ShopItemByID(itemID)
	if !ok {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("Unknown shop item %q.", itemID))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var outcome string
	_, err := b.Manager.Update(ctx, e.User().ID.String(), func(rec *game.Record) error {
		hours := b.Engine.ElapsedHours(rec, b.Clock.Now())
		if hours > 0 {
			b.Engine.AdvanceHours(rec, hours, b.RNG)
		}
		var buyErr error
		outcome, buyErr = game.BuyItem(rec, item)
		return buyErr
	})
	if err != nil {
		var rej game.Rejection
		if errors.As(err, &rej) {
			return utils.EH.CreateErrorEmbed(e, rej.Reason)
		}
		return utils.EH.CreateErrorEmbed(e, "Could not complete the purchase. Please try again later.")
	}

	return utils.EH.CreateSuccessEmbed(e, outcome)
}

// ShopAutocompleteHandler fuzzy-matches the item option against the catalog.
func ShopAutocompleteHandler(b *cafebot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "item" {
			return nil
		}

		query := strings.TrimSpace(e.Data.String("item"))

		items := game.ShopSearchItems(game.ShopCatalog)
		choices := make([]discord.AutocompleteChoice, 0, len(items))

		if query == "" {
			for _, item := range items {
				choices = append(choices, discord.AutocompleteChoiceString{
					Name:  fmt.Sprintf("%s (%s)", item.Name, utils.FormatNumber(item.Cost)),
					Value: item.ID,
				})
			}
			return e.AutocompleteResult(choices)
		}

		matches := fuzzy.FindFrom(query, items)
		for _, m := range matches {
			item := items[m.Index]
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  fmt.Sprintf("%s (%s)", item.Name, utils.FormatNumber(item.Cost)),
				Value: item.ID,
			})
		}
		return e.AutocompleteResult(choices)
	}
}
