package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/utils"
)

// PanelRenderer turns a café record into the interactive status panel: one
// embed plus the action buttons and the full action select menu. Button and
// menu enablement mirrors the action guards so a player can see at a glance
// what they can afford to do.
type PanelRenderer struct{}

func NewPanelRenderer() *PanelRenderer {
	return &PanelRenderer{}
}

// quick-access buttons shown above the select menu
var panelButtons = []game.ActionKind{
	game.ActionAcceptCustomers,
	game.ActionRepairPC,
	game.ActionPayBills,
	game.ActionHireStaff,
}

func (p *PanelRenderer) Embed(rec *game.Record) discord.Embed {
	status := "Closed"
	color := utils.CafeClosedColor
	if rec.IsOpen {
		status = "Open"
		color = utils.CafeOpenColor
	}
	if rec.Alerts.Fire >= 80 || rec.Alerts.Police >= 80 || rec.Alerts.Viruses >= 7 {
		color = utils.AlertColor
	}

	finances := fmt.Sprintf("💰 Cash: **%s**\n🧾 Bills: **%s**\n🏦 Loan: **%s**\n📈 Profit (24h): **%s**",
		utils.FormatNumber(rec.Cash),
		utils.FormatNumber(rec.Bills),
		utils.FormatNumber(rec.Loan),
		utils.FormatNumber(rec.ProfitLast24h()))

	floor := fmt.Sprintf("🖥️ PCs: **%d** (%d broken)\n🌡️ Overheating: **%d**\n🧑‍💻 Customers: **%d/%d**",
		rec.PCs, rec.BrokenPCs, rec.Overheating, len(rec.Customers), rec.WorkingPCs())

	levels := fmt.Sprintf("🌐 Internet: **tier %d/%d**\n⚡ Electricity: **tier %d/%d**\n🔌 Load: %s %d%%",
		rec.InternetLevel, game.TierCount,
		rec.ElectricityLevel, game.TierCount,
		utils.FormatBar(rec.ElectricityLoad(), 100), rec.ElectricityLoad())

	alerts := fmt.Sprintf("🦠 Viruses: %s %d/%d\n🔥 Fire: %s %d\n🚓 Police: %s %d",
		utils.FormatBar(rec.Alerts.Viruses, game.MaxViruses), rec.Alerts.Viruses, game.MaxViruses,
		utils.FormatBar(rec.Alerts.Fire, game.MaxFireAlert), rec.Alerts.Fire,
		utils.FormatBar(rec.Alerts.Police, game.MaxPoliceAlert), rec.Alerts.Police)

	staff := fmt.Sprintf("Total: **%d**\n😴 Lazy: %d · 🤫 Corrupt: %d\n🌟 Skilled: %d · 🛠️ Technicians: %d",
		rec.Staff.Total, rec.Staff.Lazy, rec.Staff.Corrupt, rec.Staff.Skilled, rec.Staff.Technicians)

	reputation := fmt.Sprintf("%s **%.1f**\n_\"%s\"_",
		utils.FormatStars(rec.Reputation), rec.Reputation, rec.LatestReview)

	return discord.Embed{
		Title: "🏪 Internet Café — " + status,
		Color: color,
		Fields: []discord.EmbedField{
			{Name: "Finances", Value: finances, Inline: utils.Ptr(true)},
			{Name: "Floor", Value: floor, Inline: utils.Ptr(true)},
			{Name: "Infrastructure", Value: levels, Inline: utils.Ptr(true)},
			{Name: "Alerts", Value: alerts, Inline: utils.Ptr(true)},
			{Name: "Staff", Value: staff, Inline: utils.Ptr(true)},
			{Name: "Reputation", Value: reputation, Inline: utils.Ptr(true)},
		},
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Simulated up to %s (%s ago)",
				rec.LastTick.UTC().Format(time.RFC1123), utils.FormatDuration(panelAge(rec))),
		},
	}
}

func (p *PanelRenderer) Components(userID string, rec *game.Record) []discord.ContainerComponent {
	toggle := actionButton(game.ActionOpen, userID, rec)
	if rec.IsOpen {
		toggle = actionButton(game.ActionClose, userID, rec)
	}

	buttons := []discord.InteractiveComponent{toggle}
	for _, kind := range panelButtons {
		buttons = append(buttons, actionButton(kind, userID, rec))
	}

	options := make([]discord.StringSelectMenuOption, 0, len(game.Catalog))
	for _, act := range game.Catalog {
		if !act.Enabled(rec) {
			continue
		}
		options = append(options, discord.StringSelectMenuOption{
			Label: act.Label,
			Value: string(act.Kind),
			Emoji: &discord.ComponentEmoji{Name: act.Emoji},
		})
	}

	components := []discord.ContainerComponent{discord.NewActionRow(buttons...)}
	if len(options) > 0 {
		components = append(components, discord.NewActionRow(
			discord.NewStringSelectMenu(menuCustomID(userID), "More actions...", options...).
				WithMinValues(1).
				WithMaxValues(1),
		))
	}
	return components
}

// panelAge is how far the displayed record trails the wall clock. A record
// simulated into the future (clock skew) reads as zero.
func panelAge(rec *game.Record) time.Duration {
	if age := time.Since(rec.LastTick); age > 0 {
		return age
	}
	return 0
}

func actionButton(kind game.ActionKind, userID string, rec *game.Record) discord.ButtonComponent {
	act, _ := game.ActionByKind(kind)
	btn := discord.NewSecondaryButton(act.Emoji+" "+act.Label, actionCustomID(kind, userID))
	switch kind {
	case game.ActionOpen:
		btn = discord.NewSuccessButton(act.Emoji+" "+act.Label, actionCustomID(kind, userID))
	case game.ActionClose:
		btn = discord.NewDangerButton(act.Emoji+" "+act.Label, actionCustomID(kind, userID))
	case game.ActionAcceptCustomers:
		btn = discord.NewPrimaryButton(act.Emoji+" "+act.Label, actionCustomID(kind, userID))
	}
	return btn.WithDisabled(!act.Enabled(rec))
}

func actionCustomID(kind game.ActionKind, userID string) string {
	return fmt.Sprintf("/cafe/action/%s/%s", kind, userID)
}

func menuCustomID(userID string) string {
	return fmt.Sprintf("/cafe/menu/%s", userID)
}

// ParseActionCustomID splits "/cafe/action/<kind>/<userID>". ok is false for
// anything else, including unknown kinds.
func ParseActionCustomID(customID string) (game.ActionKind, string, bool) {
	rest, found := strings.CutPrefix(customID, "/cafe/action/")
	if !found {
		return "", "", false
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	kind := game.ActionKind(parts[0])
	if _, ok := game.ActionByKind(kind); !ok {
		return "", "", false
	}
	return kind, parts[1], true
}

// ParseMenuCustomID splits "/cafe/menu/<userID>".
func ParseMenuCustomID(customID string) (string, bool) {
	return strings.CutPrefix(customID, "/cafe/menu/")
}
