package migration

import (
	"testing"
	"time"
)

func TestLegacyConversionMapsFields(t *testing.T) {
	updated := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	doc := legacyCafe{
		DiscordID:   "123",
		Money:       540,
		Debt:        150,
		UnpaidBills: 12,
		Computers:   6,
		Broken:      2,
		Heat:        3,
		NetLevel:    2,
		PowerLevel:  1,
		Rating:      4.2,
		LastReview:  "Best LAN spot in town.",
		Open:        true,
		Viruses:     4,
		Fire:        30,
		Police:      10,
		Inventory:   map[string]int{"coffee_machine": 2, "discontinued_item": 1},
		UpdatedAt:   updated,
	}
	doc.Staff.Total = 3
	doc.Staff.Lazy = 1
	doc.Staff.Techs = 1

	rec := doc.toRecord()

	if rec.Cash != 540 || rec.Loan != 150 || rec.Bills != 12 {
		t.Errorf("finances not mapped: cash=%d loan=%d bills=%d", rec.Cash, rec.Loan, rec.Bills)
	}
	if rec.PCs != 6 || rec.BrokenPCs != 2 || rec.Overheating != 3 {
		t.Errorf("floor not mapped: pcs=%d broken=%d heat=%d", rec.PCs, rec.BrokenPCs, rec.Overheating)
	}
	if rec.InternetLevel != 2 || rec.ElectricityLevel != 1 {
		t.Errorf("tiers not mapped: net=%d power=%d", rec.InternetLevel, rec.ElectricityLevel)
	}
	if rec.Reputation != 4.2 || rec.LatestReview != "Best LAN spot in town." {
		t.Errorf("reputation not mapped: %v %q", rec.Reputation, rec.LatestReview)
	}
	if !rec.IsOpen {
		t.Error("open flag not mapped")
	}
	if rec.Staff.Total != 3 || rec.Staff.Lazy != 1 || rec.Staff.Technicians != 1 {
		t.Errorf("staff not mapped: %+v", rec.Staff)
	}
	if rec.Alerts.Viruses != 4 || rec.Alerts.Fire != 30 || rec.Alerts.Police != 10 {
		t.Errorf("alerts not mapped: %+v", rec.Alerts)
	}
	if !rec.LastTick.Equal(updated) {
		t.Errorf("LastTick = %v, want %v", rec.LastTick, updated)
	}
}

func TestLegacyConversionDropsUnknownInventory(t *testing.T) {
	doc := legacyCafe{
		DiscordID: "123",
		Inventory: map[string]int{"coffee_machine": 2, "discontinued_item": 5, "gaming_rig": 0},
	}

	rec := doc.toRecord()

	if rec.Shop["coffee_machine"] != 2 {
		t.Errorf("known item dropped: %+v", rec.Shop)
	}
	if _, ok := rec.Shop["discontinued_item"]; ok {
		t.Error("unknown item survived conversion")
	}
	if _, ok := rec.Shop["gaming_rig"]; ok {
		t.Error("zero-count item survived conversion")
	}
}

func TestLegacyConversionClampsOutOfRange(t *testing.T) {
	doc := legacyCafe{
		DiscordID: "123",
		Rating:    9.5,
		Viruses:   40,
		Fire:      300,
		Police:    -5,
	}

	rec := doc.toRecord()

	if rec.Reputation > 5.0 {
		t.Errorf("reputation not clamped: %v", rec.Reputation)
	}
	if rec.Alerts.Viruses > 10 || rec.Alerts.Fire > 100 || rec.Alerts.Police < 0 {
		t.Errorf("alerts not clamped: %+v", rec.Alerts)
	}
}
