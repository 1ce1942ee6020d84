package migration

import (
	"time"

	"github.com/netcafe-dev/cafebot/cafebot/game"
)

// legacyCafe mirrors the document shape of the old Node-era deployment. The
// old bot tracked a flat subset of today's state; anything it never had
// (customers on the floor, the profit log, panel refs) starts empty.
type legacyCafe struct {
	DiscordID   string  `bson:"discord_id"`
	Money       int64   `bson:"money"`
	Debt        int64   `bson:"debt"`
	UnpaidBills int64   `bson:"unpaid_bills"`
	Computers   int     `bson:"computers"`
	Broken      int     `bson:"broken"`
	Heat        int     `bson:"heat"`
	NetLevel    int     `bson:"net_level"`
	PowerLevel  int     `bson:"power_level"`
	Rating      float64 `bson:"rating"`
	LastReview  string  `bson:"last_review"`
	Open        bool    `bson:"open"`

	Staff struct {
		Total   int `bson:"total"`
		Lazy    int `bson:"lazy"`
		Corrupt int `bson:"corrupt"`
		Skilled int `bson:"skilled"`
		Techs   int `bson:"techs"`
	} `bson:"staff"`

	Viruses int `bson:"viruses"`
	Fire    int `bson:"fire"`
	Police  int `bson:"police"`

	Inventory map[string]int `bson:"inventory"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

func (d legacyCafe) toRecord() *game.Record {
	now := d.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}

	rec := game.NewRecord(now)
	rec.Cash = d.Money
	rec.Bills = d.UnpaidBills
	rec.Loan = d.Debt
	rec.PCs = d.Computers
	rec.BrokenPCs = d.Broken
	rec.Overheating = d.Heat
	rec.InternetLevel = d.NetLevel
	rec.ElectricityLevel = d.PowerLevel
	rec.Reputation = d.Rating
	if d.LastReview != "" {
		rec.LatestReview = d.LastReview
	}
	rec.IsOpen = d.Open

	rec.Staff.Total = d.Staff.Total
	rec.Staff.Lazy = d.Staff.Lazy
	rec.Staff.Corrupt = d.Staff.Corrupt
	rec.Staff.Skilled = d.Staff.Skilled
	rec.Staff.Technicians = d.Staff.Techs

	rec.Alerts.Viruses = d.Viruses
	rec.Alerts.Fire = d.Fire
	rec.Alerts.Police = d.Police

	for id, count := range d.Inventory {
		if _, ok := game.ShopItemByID(id); ok && count > 0 {
			rec.Shop[id] = count
		}
	}

	// Clamp everything the old bot let drift out of range.
	rec.Normalize()
	return rec
}
