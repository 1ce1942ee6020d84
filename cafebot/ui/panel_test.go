package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/netcafe-dev/cafebot/cafebot/game"
)

func testRecord() *game.Record {
	return game.NewRecord(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestParseActionCustomID(t *testing.T) {
	tests := []struct {
		customID  string
		wantKind  game.ActionKind
		wantOwner string
		wantOK    bool
	}{
		{"/cafe/action/open/123", game.ActionOpen, "123", true},
		{"/cafe/action/buy_pc/456", game.ActionBuyPC, "456", true},
		{"/cafe/action/teleport/123", "", "", false},
		{"/cafe/action/open", "", "", false},
		{"/cafe/menu/123", "", "", false},
		{"/shop/action/open/123", "", "", false},
	}

	for _, tt := range tests {
		kind, owner, ok := ParseActionCustomID(tt.customID)
		if ok != tt.wantOK || kind != tt.wantKind || owner != tt.wantOwner {
			t.Errorf("ParseActionCustomID(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.customID, kind, owner, ok, tt.wantKind, tt.wantOwner, tt.wantOK)
		}
	}
}

func TestParseMenuCustomID(t *testing.T) {
	owner, ok := ParseMenuCustomID("/cafe/menu/789")
	if !ok || owner != "789" {
		t.Errorf("ParseMenuCustomID = (%q, %v), want (789, true)", owner, ok)
	}
	if _, ok := ParseMenuCustomID("/cafe/action/open/789"); ok {
		t.Error("action id parsed as menu id")
	}
}

func TestEmbedReflectsOpenState(t *testing.T) {
	r := NewPanelRenderer()
	rec := testRecord()

	embed := r.Embed(rec)
	if !strings.Contains(embed.Title, "Closed") {
		t.Errorf("closed café title = %q", embed.Title)
	}

	rec.IsOpen = true
	embed = r.Embed(rec)
	if !strings.Contains(embed.Title, "Open") {
		t.Errorf("open café title = %q", embed.Title)
	}
}

func TestComponentsMirrorActionGuards(t *testing.T) {
	r := NewPanelRenderer()
	rec := testRecord()
	// Baseline cash is 40, too little to open (cost 12 is affordable, so the
	// open button must be enabled; repair has nothing broken and must not be).
	components := r.Components("123", rec)
	if len(components) == 0 {
		t.Fatal("no components rendered")
	}

	row, ok := components[0].(discord.ActionRowComponent)
	if !ok {
		t.Fatalf("first component is %T, want action row", components[0])
	}

	byID := map[string]discord.ButtonComponent{}
	for _, c := range row.Components() {
		if btn, isBtn := c.(discord.ButtonComponent); isBtn {
			byID[btn.CustomID] = btn
		}
	}

	openBtn, ok := byID["/cafe/action/open/123"]
	if !ok {
		t.Fatalf("open button missing, got ids %v", keys(byID))
	}
	if openBtn.Disabled {
		t.Error("open button disabled for affordable open")
	}

	repairBtn, ok := byID["/cafe/action/repair_pc/123"]
	if !ok {
		t.Fatalf("repair button missing, got ids %v", keys(byID))
	}
	if !repairBtn.Disabled {
		t.Error("repair button enabled with no broken PCs")
	}
}

func TestSelectMenuOnlyListsEnabledActions(t *testing.T) {
	r := NewPanelRenderer()
	rec := testRecord()

	components := r.Components("123", rec)
	if len(components) < 2 {
		t.Fatal("expected a select menu row")
	}

	row, ok := components[1].(discord.ActionRowComponent)
	if !ok {
		t.Fatalf("second component is %T, want action row", components[1])
	}

	menu, ok := row.Components()[0].(discord.StringSelectMenuComponent)
	if !ok {
		t.Fatalf("component is %T, want string select menu", row.Components()[0])
	}

	listed := map[string]bool{}
	for _, opt := range menu.Options {
		listed[opt.Value] = true
	}

	for _, act := range game.Catalog {
		if act.Enabled(rec) != listed[string(act.Kind)] {
			t.Errorf("action %s: enabled=%v listed=%v", act.Kind, act.Enabled(rec), listed[string(act.Kind)])
		}
	}
}

func keys(m map[string]discord.ButtonComponent) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
