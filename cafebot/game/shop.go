package game

import (
	"fmt"
)

// EffectKind enumerates what a shop item does to the record. Each kind
// carries a typed amount; there is no stringly-typed stat addressing.
type EffectKind int

const (
	EffectAddPCs EffectKind = iota
	EffectReduceOverheating
	EffectRaiseInternetTier
	EffectRaiseElectricityTier
	EffectAdjustReputation
	EffectAdjustPoliceAlert
	EffectIncreaseCustomerStay
)

// ItemEffect is the tagged variant payload. Amount is used by the integer
// kinds, Delta by EffectAdjustReputation.
type ItemEffect struct {
	Kind   EffectKind
	Amount int
	Delta  float64
}

// ShopItem is one static catalog entry. The catalog is shared across all
// players; ownership counts live in Record.Shop.
type ShopItem struct {
	ID     string
	Name   string
	Blurb  string
	Cost   int64
	Effect ItemEffect
}

const (
	ItemGamingRig      = "gaming_rig"
	ItemAirConditioner = "air_conditioner"
	ItemFiberBooster   = "fiber_booster"
	ItemSolarPanels    = "solar_panels"
	ItemNeonSign       = "neon_sign"
	ItemCCTV           = "cctv_system"
	ItemCoffeeMachine  = "coffee_machine"
)

// ShopCatalog is the fixed item list, in display order.
var ShopCatalog = []ShopItem{
	{ID: ItemGamingRig, Name: "Gaming Rig", Blurb: "One more seat on the floor.", Cost: 180,
		Effect: ItemEffect{Kind: EffectAddPCs, Amount: 1}},
	{ID: ItemAirConditioner, Name: "Air Conditioner", Blurb: "Takes the edge off the heat.", Cost: 90,
		Effect: ItemEffect{Kind: EffectReduceOverheating, Amount: 2}},
	{ID: ItemFiberBooster, Name: "Fiber Booster", Blurb: "Jumps the line one internet tier.", Cost: 150,
		Effect: ItemEffect{Kind: EffectRaiseInternetTier, Amount: 1}},
	{ID: ItemSolarPanels, Name: "Solar Panels", Blurb: "Jumps the wiring one electricity tier.", Cost: 160,
		Effect: ItemEffect{Kind: EffectRaiseElectricityTier, Amount: 1}},
	{ID: ItemNeonSign, Name: "Neon Sign", Blurb: "Impossible to walk past.", Cost: 75,
		Effect: ItemEffect{Kind: EffectAdjustReputation, Delta: 0.2}},
	{ID: ItemCCTV, Name: "CCTV System", Blurb: "The police like seeing cameras.", Cost: 110,
		Effect: ItemEffect{Kind: EffectAdjustPoliceAlert, Amount: -8}},
	{ID: ItemCoffeeMachine, Name: "Coffee Machine", Blurb: "Customers stay an hour longer.", Cost: 120,
		Effect: ItemEffect{Kind: EffectIncreaseCustomerStay, Amount: 1}},
}

var shopByID = func() map[string]ShopItem {
	m := make(map[string]ShopItem, len(ShopCatalog))
	for _, it := range ShopCatalog {
		m[it.ID] = it
	}
	return m
}()

// ShopItemByID resolves a catalog item. ok is false for unknown ids.
func ShopItemByID(id string) (ShopItem, bool) {
	it, ok := shopByID[id]
	return it, ok
}

// BuyItem is the parameterized purchase action: guard on cash, then increment
// the owned count and apply the item's effect.
func BuyItem(r *Record, item ShopItem) (string, error) {
	if r.Cash < item.Cost {
		return "", reject("%s costs %d, you have %d", item.Name, item.Cost, r.Cash)
	}
	r.Cash -= item.Cost
	r.Shop[item.ID]++
	applyItemEffect(r, item.Effect)
	return fmt.Sprintf("Bought %s for %d.", item.Name, item.Cost), nil
}

func applyItemEffect(r *Record, eff ItemEffect) {
	switch eff.Kind {
	case EffectAddPCs:
		r.PCs += eff.Amount
	case EffectReduceOverheating:
		r.Overheating -= eff.Amount
		if r.Overheating < 0 {
			r.Overheating = 0
		}
	case EffectRaiseInternetTier:
		r.InternetLevel = clampInt(r.InternetLevel+eff.Amount, 0, TierCount-1)
	case EffectRaiseElectricityTier:
		r.ElectricityLevel = clampInt(r.ElectricityLevel+eff.Amount, 0, TierCount-1)
	case EffectAdjustReputation:
		r.review(eff.Delta, "The new gear did not go unnoticed.")
	case EffectAdjustPoliceAlert:
		r.Alerts.Police = clampInt(r.Alerts.Police+eff.Amount, 0, MaxPoliceAlert)
	case EffectIncreaseCustomerStay:
		// Passive: read back through Record.CoffeeBonus at spawn time.
	}
}

// ShopSearchItems implements fuzzy.Source over the catalog for autocomplete.
type ShopSearchItems []ShopItem

func (items ShopSearchItems) Len() int            { return len(items) }
func (items ShopSearchItems) String(i int) string { return items[i].Name }
