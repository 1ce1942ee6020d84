package game

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuyItemInsufficientFunds(t *testing.T) {
	rec := NewRecord(testStart)
	rec.Cash = 10
	before := rec.Clone()

	item, _ := ShopItemByID(ItemNeonSign)
	_, err := BuyItem(rec, item)

	var rej Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected a Rejection, got %v", err)
	}
	if !reflect.DeepEqual(before, rec) {
		t.Errorf("rejected purchase mutated the record")
	}
}

func TestBuyItemEffects(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		setup func(r *Record)
		check func(t *testing.T, r *Record)
	}{
		{
			name: "gaming rig adds a PC",
			id:   ItemGamingRig,
			check: func(t *testing.T, r *Record) {
				if r.PCs != 3 {
					t.Errorf("pcs = %d, want 3", r.PCs)
				}
			},
		},
		{
			name:  "air conditioner cools, floored at zero",
			id:    ItemAirConditioner,
			setup: func(r *Record) { r.Overheating = 1 },
			check: func(t *testing.T, r *Record) {
				if r.Overheating != 0 {
					t.Errorf("overheating = %d, want 0", r.Overheating)
				}
			},
		},
		{
			name:  "fiber booster clamps at the top tier",
			id:    ItemFiberBooster,
			setup: func(r *Record) { r.InternetLevel = TierCount - 1 },
			check: func(t *testing.T, r *Record) {
				if r.InternetLevel != TierCount-1 {
					t.Errorf("internet level = %d, want %d", r.InternetLevel, TierCount-1)
				}
			},
		},
		{
			name: "solar panels raise the electricity tier",
			id:   ItemSolarPanels,
			check: func(t *testing.T, r *Record) {
				if r.ElectricityLevel != 1 {
					t.Errorf("electricity level = %d, want 1", r.ElectricityLevel)
				}
			},
		},
		{
			name: "neon sign boosts reputation",
			id:   ItemNeonSign,
			check: func(t *testing.T, r *Record) {
				if !repEq(r.Reputation, 3.2) {
					t.Errorf("reputation = %v, want 3.2", r.Reputation)
				}
			},
		},
		{
			name:  "cctv lowers the police alert, floored at zero",
			id:    ItemCCTV,
			setup: func(r *Record) { r.Alerts.Police = 5 },
			check: func(t *testing.T, r *Record) {
				if r.Alerts.Police != 0 {
					t.Errorf("police alert = %d, want 0", r.Alerts.Police)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord(testStart)
			rec.Cash = 1000
			if tt.setup != nil {
				tt.setup(rec)
			}
			item, ok := ShopItemByID(tt.id)
			if !ok {
				t.Fatalf("item %q missing from catalog", tt.id)
			}
			cashBefore := rec.Cash
			if _, err := BuyItem(rec, item); err != nil {
				t.Fatalf("purchase rejected: %v", err)
			}
			if got, want := rec.Cash, cashBefore-item.Cost; got != want {
				t.Errorf("cash = %d, want %d", got, want)
			}
			if rec.Shop[tt.id] != 1 {
				t.Errorf("owned count = %d, want 1", rec.Shop[tt.id])
			}
			tt.check(t, rec)
		})
	}
}

func TestCoffeeBonusCapsAtThree(t *testing.T) {
	rec := NewRecord(testStart)
	rec.Cash = 10000

	item, _ := ShopItemByID(ItemCoffeeMachine)
	for i := 0; i < 5; i++ {
		if _, err := BuyItem(rec, item); err != nil {
			t.Fatalf("purchase #%d rejected: %v", i+1, err)
		}
	}
	if rec.Shop[ItemCoffeeMachine] != 5 {
		t.Errorf("owned count = %d, want 5", rec.Shop[ItemCoffeeMachine])
	}
	if rec.CoffeeBonus() != 3 {
		t.Errorf("coffee bonus = %d, want 3 (cap)", rec.CoffeeBonus())
	}
}
