package game

import (
	"time"
)

const (
	// TierCount is the number of internet/electricity tiers. Levels index
	// [0, TierCount-1].
	TierCount = 5

	MinReputation = 0.5
	MaxReputation = 5.0

	MaxViruses     = 10
	MaxFireAlert   = 100
	MaxPoliceAlert = 100

	// ProfitWindow is the trailing window the profit log is pruned to,
	// measured in simulated hours against LastTick.
	ProfitWindow = 24 * time.Hour
)

// Customer is one seated patron. Customers are ephemeral: they live inside a
// Record and disappear when HoursLeft reaches zero or the café closes.
type Customer struct {
	Hardcore   bool  `json:"hardcore"`
	Suspicious bool  `json:"suspicious"`
	Angry      bool  `json:"angry"`
	HoursLeft  int   `json:"hours_left"`
	Rate       int64 `json:"rate"`
}

// Alerts tracks the three hazard gauges.
type Alerts struct {
	Viruses int `json:"viruses"`
	Fire    int `json:"fire"`
	Police  int `json:"police"`
}

// Staff tracks headcount buckets. Total is tracked independently from the
// behavior buckets and the two are allowed to drift apart (hiring classifies
// into exactly one bucket, firing drains buckets in a fixed order), so
// Total >= Lazy+Corrupt+Skilled+Technicians does not always hold.
type Staff struct {
	Total       int `json:"total"`
	Lazy        int `json:"lazy"`
	Corrupt     int `json:"corrupt"`
	Skilled     int `json:"skilled"`
	Technicians int `json:"technicians"`
}

// ProfitEntry is one hour's earnings as recorded in the trailing profit log.
type ProfitEntry struct {
	At     time.Time `json:"at"`
	Amount int64     `json:"amount"`
}

// Record is one player's full café state. It is owned by the store; the
// engine and action handlers mutate it only inside a store.Manager critical
// section.
type Record struct {
	Cash  int64 `json:"cash"`
	Bills int64 `json:"bills"`
	Loan  int64 `json:"loan"`

	PCs         int `json:"pcs"`
	BrokenPCs   int `json:"broken_pcs"`
	Overheating int `json:"overheating"`

	InternetLevel    int `json:"internet_level"`
	ElectricityLevel int `json:"electricity_level"`

	Reputation   float64 `json:"reputation"`
	LatestReview string  `json:"latest_review"`

	Alerts Alerts `json:"alerts"`
	IsOpen bool   `json:"is_open"`
	Staff  Staff  `json:"staff"`

	Customers []Customer     `json:"customers"`
	Shop      map[string]int `json:"shop_inventory"`

	ProfitLog []ProfitEntry `json:"profit_log"`

	LastTick time.Time `json:"last_tick"`

	// Presentation refs, opaque to the simulation. The Discord layer keeps
	// the live panel message here so the scheduler can refresh it.
	PanelChannelID string `json:"panel_channel_id,omitempty"`
	PanelMessageID string `json:"panel_message_id,omitempty"`
}

// NewRecord returns the baseline record a player starts with. LastTick is set
// to now so a freshly created café never back-ticks.
func NewRecord(now time.Time) *Record {
	return &Record{
		Cash:         40,
		PCs:          2,
		Reputation:   3.0,
		LatestReview: "Just opened the doors. Nobody has reviewed us yet.",
		Alerts:       Alerts{Fire: 5},
		Customers:    []Customer{},
		Shop:         map[string]int{},
		ProfitLog:    []ProfitEntry{},
		LastTick:     now.UTC(),
	}
}

// WorkingPCs is the capacity currently serving customers.
func (r *Record) WorkingPCs() int {
	if n := r.PCs - r.BrokenPCs; n > 0 {
		return n
	}
	return 0
}

// ElectricityLoad is the current grid load, clamped to [10, 100].
func (r *Record) ElectricityLoad() int {
	return clampInt(40+8*r.PCs-6*r.ElectricityLevel, 10, 100)
}

// CoffeeBonus is the extra customer stay granted by owned coffee machines,
// capped at 3.
func (r *Record) CoffeeBonus() int {
	n := r.Shop[ItemCoffeeMachine]
	if n > 3 {
		n = 3
	}
	return n
}

// Clone returns a deep copy. Views handed outside the store's critical
// section are always clones.
func (r *Record) Clone() *Record {
	cp := *r
	// Copies keep empty-but-non-nil slices non-nil so clones compare and
	// serialize identically to the original.
	if r.Customers != nil {
		cp.Customers = make([]Customer, len(r.Customers))
		copy(cp.Customers, r.Customers)
	}
	if r.ProfitLog != nil {
		cp.ProfitLog = make([]ProfitEntry, len(r.ProfitLog))
		copy(cp.ProfitLog, r.ProfitLog)
	}
	if r.Shop != nil {
		cp.Shop = make(map[string]int, len(r.Shop))
		for k, v := range r.Shop {
			cp.Shop[k] = v
		}
	}
	return &cp
}

// review records a reputation delta plus the narrative that goes with it.
// Reputation is clamped to [MinReputation, MaxReputation] after every delta.
func (r *Record) review(delta float64, text string) {
	r.Reputation += delta
	if r.Reputation < MinReputation {
		r.Reputation = MinReputation
	}
	if r.Reputation > MaxReputation {
		r.Reputation = MaxReputation
	}
	r.LatestReview = text
}

// logProfit appends one hour's earnings and prunes entries older than the
// trailing profit window relative to the given tick time.
func (r *Record) logProfit(at time.Time, amount int64) {
	r.ProfitLog = append(r.ProfitLog, ProfitEntry{At: at, Amount: amount})
	r.pruneProfitLog(at)
}

func (r *Record) pruneProfitLog(now time.Time) {
	cutoff := now.Add(-ProfitWindow)
	kept := r.ProfitLog[:0]
	for _, e := range r.ProfitLog {
		if !e.At.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	r.ProfitLog = kept
}

// ProfitLast24h sums the pruned profit log.
func (r *Record) ProfitLast24h() int64 {
	var sum int64
	for _, e := range r.ProfitLog {
		sum += e.Amount
	}
	return sum
}

// Normalize repairs a record loaded from an older or hand-edited document so
// the rest of the code can rely on its ranges holding. Collection fields may
// arrive nil from JSON.
func (r *Record) Normalize() {
	if r.PCs < 1 {
		r.PCs = 1
	}
	if r.BrokenPCs < 0 {
		r.BrokenPCs = 0
	}
	if r.BrokenPCs > r.PCs {
		r.BrokenPCs = r.PCs
	}
	if r.Overheating < 0 {
		r.Overheating = 0
	}
	if r.Overheating > r.PCs {
		r.Overheating = r.PCs
	}
	r.InternetLevel = clampInt(r.InternetLevel, 0, TierCount-1)
	r.ElectricityLevel = clampInt(r.ElectricityLevel, 0, TierCount-1)
	if r.Reputation < MinReputation {
		r.Reputation = MinReputation
	}
	if r.Reputation > MaxReputation {
		r.Reputation = MaxReputation
	}
	r.Alerts.Viruses = clampInt(r.Alerts.Viruses, 0, MaxViruses)
	r.Alerts.Fire = clampInt(r.Alerts.Fire, 0, MaxFireAlert)
	r.Alerts.Police = clampInt(r.Alerts.Police, 0, MaxPoliceAlert)
	if r.Cash < 0 {
		r.Cash = 0
	}
	if r.Bills < 0 {
		r.Bills = 0
	}
	if r.Loan < 0 {
		r.Loan = 0
	}
	if r.Customers == nil {
		r.Customers = []Customer{}
	}
	if r.Shop == nil {
		r.Shop = map[string]int{}
	}
	if r.ProfitLog == nil {
		r.ProfitLog = []ProfitEntry{}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
