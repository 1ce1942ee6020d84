package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/netcafe-dev/cafebot/cafebot"
	"github.com/netcafe-dev/cafebot/cafebot/utils"
)

const topEntriesPerPage = 10

var Top = discord.SlashCommandCreate{
	Name:        "top",
	Description: "🏆 The richest café owners",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "by",
			Description: "Ranking criteria",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Cash", Value: "cash"},
				{Name: "Profit (24h)", Value: "profit"},
				{Name: "Reputation", Value: "reputation"},
			},
		},
	},
}

type topEntry struct {
	id    string
	value string
	score float64
}

func TopHandler(b *cafebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		criteria, _ := e.SlashCommandInteractionData().OptString("by")
		if criteria == "" {
			criteria = "cash"
		}

		records, err := b.Manager.Snapshot(ctx)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Could not load the leaderboard. Please try again later.")
		}
		if len(records) == 0 {
			return utils.EH.CreateInfoEmbed(e, "No cafés yet. Run `/cafe` to open yours.")
		}

		entries := make([]topEntry, 0, len(records))
		for id, rec := range records {
			var entry topEntry
			entry.id = id
			switch criteria {
			case "profit":
				profit := rec.ProfitLast24h()
				entry.score = float64(profit)
				entry.value = utils.FormatNumber(profit) + " earned"
			case "reputation":
				entry.score = rec.Reputation
				entry.value = fmt.Sprintf("%s %.1f", utils.FormatStars(rec.Reputation), rec.Reputation)
			default:
				entry.score = float64(rec.Cash)
				entry.value = utils.FormatNumber(rec.Cash) + " cash"
			}
			entries = append(entries, entry)
		}

		sort.Slice(entries, func(i, j int) bool {
			if entries[i].score != entries[j].score {
				return entries[i].score > entries[j].score
			}
			return entries[i].id < entries[j].id
		})

		totalPages := (len(entries) + topEntriesPerPage - 1) / topEntriesPerPage

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * topEntriesPerPage
				end := start + topEntriesPerPage
				if end > len(entries) {
					end = len(entries)
				}

				var sb strings.Builder
				for i, entry := range entries[start:end] {
					sb.WriteString(fmt.Sprintf("**%d.** <@%s> — %s\n", start+i+1, entry.id, entry.value))
				}

				embed.
					SetTitle("🏆 Top Café Owners").
					SetDescription(sb.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Ranked by %s", page+1, totalPages, criteria), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
