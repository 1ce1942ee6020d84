package game

import (
	"fmt"
)

// Rejection is a guard failure: the record is untouched and the player gets
// the reason back. It is never treated as a fault.
type Rejection struct {
	Reason string
}

func (r Rejection) Error() string { return r.Reason }

func reject(format string, args ...any) error {
	return Rejection{Reason: fmt.Sprintf(format, args...)}
}

// ActionKind enumerates the closed catalog of player actions. Dispatch is by
// kind only; there is no dynamic lookup.
type ActionKind string

const (
	ActionBuyPC              ActionKind = "buy_pc"
	ActionRepairPC           ActionKind = "repair_pc"
	ActionUpgradeInternet    ActionKind = "upgrade_internet"
	ActionUpgradeElectricity ActionKind = "upgrade_electricity"
	ActionAcceptCustomers    ActionKind = "accept_customers"
	ActionKickAngry          ActionKind = "kick_angry"
	ActionBanSuspicious      ActionKind = "ban_suspicious"
	ActionHireStaff          ActionKind = "hire_staff"
	ActionFireStaff          ActionKind = "fire_staff"
	ActionAssignTechnician   ActionKind = "assign_technician"
	ActionBribeStaff         ActionKind = "bribe_staff"
	ActionOpen               ActionKind = "open"
	ActionClose              ActionKind = "close"
	ActionPayBills           ActionKind = "pay_bills"
	ActionTakeLoan           ActionKind = "take_loan"
	ActionClean              ActionKind = "clean"
	ActionImproveService     ActionKind = "improve_service"
	ActionFakeReview         ActionKind = "fake_review"
)

const (
	OpenCost          = 12
	RepairCost        = 40
	HireCost          = 55
	BribeCost         = 30
	CleanCost         = 20
	ImproveCost       = 60
	FakeReviewCost    = 35
	LoanPayout        = 120
	LoanPrincipal     = 150
	RepairBackfireOdd = 0.40
)

// InternetUpgradeCosts[level] is the price of going from level to level+1.
var InternetUpgradeCosts = [TierCount - 1]int64{90, 140, 210, 320}

// ElectricityUpgradeCosts[level] is the price of going from level to level+1.
var ElectricityUpgradeCosts = [TierCount - 1]int64{70, 120, 190, 280}

// PCCost is the price of the next PC at the current fleet size.
func PCCost(pcs int) int64 { return 95 + 30*int64(pcs) }

// Action is one guarded transition from the catalog. Apply is all-or-nothing:
// a Rejection leaves the record bit-for-bit unchanged; success applies exactly
// the documented mutation and returns a player-facing note.
type Action struct {
	Kind  ActionKind
	Label string
	Emoji string

	guard func(r *Record) error
	apply func(r *Record, rng Rand) string
}

// Enabled mirrors the guard for presentation enablement. Handlers always
// re-validate; this is display-only.
func (a Action) Enabled(r *Record) bool { return a.guard(r) == nil }

// Apply validates the guard and applies the effect.
func (a Action) Apply(r *Record, rng Rand) (string, error) {
	if err := a.guard(r); err != nil {
		return "", err
	}
	return a.apply(r, rng), nil
}

// Catalog is the full action set, in panel display order.
var Catalog = []Action{
	{
		Kind: ActionOpen, Label: "Open Café", Emoji: "🔓",
		guard: func(r *Record) error {
			if r.IsOpen {
				return reject("the café is already open")
			}
			if r.Cash < OpenCost {
				return reject("opening up costs %d, you have %d", OpenCost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash -= OpenCost
			r.IsOpen = true
			return "Doors open. Let the downloads begin."
		},
	},
	{
		Kind: ActionClose, Label: "Close Café", Emoji: "🔒",
		guard: func(r *Record) error {
			if !r.IsOpen {
				return reject("the café is already closed")
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.IsOpen = false
			r.Customers = r.Customers[:0]
			return "Everyone out. Lights off."
		},
	},
	{
		Kind: ActionAcceptCustomers, Label: "Accept Customers", Emoji: "🧑‍💻",
		guard: func(r *Record) error {
			if !r.IsOpen {
				return reject("you can only seat customers while open")
			}
			if r.WorkingPCs() <= 0 {
				return reject("no working PCs to seat anyone at")
			}
			return nil
		},
		apply: func(r *Record, rng Rand) string {
			free := r.WorkingPCs() - len(r.Customers)
			n := 1 + rng.Intn(3)
			if n > free {
				n = free
			}
			for i := 0; i < n; i++ {
				r.Customers = append(r.Customers, rollCustomer(r, rng))
			}
			if n <= 0 {
				return "Every working PC is already taken."
			}
			return fmt.Sprintf("%d new customer(s) walked in.", n)
		},
	},
	{
		Kind: ActionBuyPC, Label: "Buy PC", Emoji: "🖥️",
		guard: func(r *Record) error {
			if cost := PCCost(r.PCs); r.Cash < cost {
				return reject("a new PC costs %d, you have %d", cost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			cost := PCCost(r.PCs)
			r.Cash -= cost
			r.PCs++
			r.Overheating++
			return fmt.Sprintf("Bought a new rig for %d. The room runs a little hotter now.", cost)
		},
	},
	{
		Kind: ActionRepairPC, Label: "Repair PC", Emoji: "🔧",
		guard: func(r *Record) error {
			if r.BrokenPCs <= 0 {
				return reject("nothing is broken right now")
			}
			if r.Cash < RepairCost {
				return reject("repairs cost %d, you have %d", RepairCost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, rng Rand) string {
			r.Cash -= RepairCost
			if rng.Float64() < RepairBackfireOdd {
				if r.BrokenPCs < r.PCs {
					r.BrokenPCs++
				}
				r.review(-0.2, "A botched repair took down another machine.")
				return "The repair backfired and fried a second PC."
			}
			r.BrokenPCs--
			return "One PC back in service."
		},
	},
	{
		Kind: ActionUpgradeInternet, Label: "Upgrade Internet", Emoji: "🌐",
		guard: func(r *Record) error {
			if r.InternetLevel >= TierCount-1 {
				return reject("the line is already maxed out")
			}
			if cost := InternetUpgradeCosts[r.InternetLevel]; r.Cash < cost {
				return reject("the next tier costs %d, you have %d", cost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash -= InternetUpgradeCosts[r.InternetLevel]
			r.InternetLevel++
			r.review(+0.1, "Customers noticed the faster connection.")
			return fmt.Sprintf("Internet upgraded to tier %d.", r.InternetLevel)
		},
	},
	{
		Kind: ActionUpgradeElectricity, Label: "Upgrade Electricity", Emoji: "⚡",
		guard: func(r *Record) error {
			if r.ElectricityLevel >= TierCount-1 {
				return reject("the wiring is already maxed out")
			}
			if cost := ElectricityUpgradeCosts[r.ElectricityLevel]; r.Cash < cost {
				return reject("the next tier costs %d, you have %d", cost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash -= ElectricityUpgradeCosts[r.ElectricityLevel]
			r.ElectricityLevel++
			if r.Overheating > 0 {
				r.Overheating--
			}
			return fmt.Sprintf("Electricity upgraded to tier %d.", r.ElectricityLevel)
		},
	},
	{
		Kind: ActionKickAngry, Label: "Kick Angry Customer", Emoji: "🥾",
		guard: func(r *Record) error {
			if !hasCustomer(r, func(c Customer) bool { return c.Angry }) {
				return reject("nobody in here is causing trouble")
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			removeFirstCustomer(r, func(c Customer) bool { return c.Angry })
			r.review(+0.05, "Regulars appreciated you showing a troublemaker the door.")
			return "The troublemaker is gone."
		},
	},
	{
		Kind: ActionBanSuspicious, Label: "Ban Suspicious User", Emoji: "🚷",
		guard: func(r *Record) error {
			if !hasCustomer(r, func(c Customer) bool { return c.Suspicious }) {
				return reject("nobody looks suspicious right now")
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			removeFirstCustomer(r, func(c Customer) bool { return c.Suspicious })
			r.Alerts.Police -= 3
			if r.Alerts.Police < 0 {
				r.Alerts.Police = 0
			}
			return "Banned. Whatever they were up to is no longer your problem."
		},
	},
	{
		Kind: ActionHireStaff, Label: "Hire Staff", Emoji: "🪪",
		guard: func(r *Record) error {
			if r.Cash < HireCost {
				return reject("hiring costs %d, you have %d", HireCost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, rng Rand) string {
			r.Cash -= HireCost
			r.Staff.Total++
			switch roll := rng.Float64(); {
			case roll < 0.40:
				r.Staff.Lazy++
				return "New hire on board. They already asked about break times."
			case roll < 0.65:
				r.Staff.Corrupt++
				return "New hire on board. Keep an eye on the register."
			default:
				r.Staff.Skilled++
				return "New hire on board. This one actually knows computers."
			}
		},
	},
	{
		Kind: ActionFireStaff, Label: "Fire Staff", Emoji: "📦",
		guard: func(r *Record) error {
			if r.Staff.Total <= 0 {
				return reject("there is nobody on payroll")
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Staff.Total--
			switch {
			case r.Staff.Lazy > 0:
				r.Staff.Lazy--
			case r.Staff.Corrupt > 0:
				r.Staff.Corrupt--
			case r.Staff.Skilled > 0:
				r.Staff.Skilled--
			case r.Staff.Technicians > 0:
				r.Staff.Technicians--
			}
			return "One less name on the payroll."
		},
	},
	{
		Kind: ActionAssignTechnician, Label: "Assign Technician", Emoji: "🛠️",
		guard: func(r *Record) error {
			if r.Staff.Skilled <= 0 {
				return reject("no skilled staff available to promote")
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Staff.Skilled--
			r.Staff.Technicians++
			r.review(+0.05, "Machines get fixed faster with a dedicated tech around.")
			return "Skilled worker reassigned to tech duty."
		},
	},
	{
		Kind: ActionBribeStaff, Label: "Bribe Staff", Emoji: "🤫",
		guard: func(r *Record) error {
			if r.Staff.Corrupt <= 0 {
				return reject("nobody on staff needs paying off")
			}
			if r.Cash < BribeCost {
				return reject("keeping them quiet costs %d, you have %d", BribeCost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash -= BribeCost
			r.Alerts.Police -= 4
			if r.Alerts.Police < 0 {
				r.Alerts.Police = 0
			}
			return "Palms greased. The talk dies down."
		},
	},
	{
		Kind: ActionPayBills, Label: "Pay Bills", Emoji: "🧾",
		guard: func(r *Record) error {
			if r.Bills <= 0 {
				return reject("no bills outstanding")
			}
			if r.Cash < r.Bills {
				return reject("the bills come to %d, you have %d", r.Bills, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash -= r.Bills
			r.Bills = 0
			r.IsOpen = true
			r.review(+0.1, "Paid up and back in business.")
			return "Bills settled. The café is open again."
		},
	},
	{
		Kind: ActionTakeLoan, Label: "Take Loan", Emoji: "🏦",
		guard: func(r *Record) error {
			if r.Loan > 0 {
				return reject("you already owe %d", r.Loan)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash += LoanPayout
			r.Loan = LoanPrincipal
			r.Alerts.Police = clampInt(r.Alerts.Police+5, 0, MaxPoliceAlert)
			return fmt.Sprintf("The lender handed over %d. You owe %d, and they know where you work.", int64(LoanPayout), int64(LoanPrincipal))
		},
	},
	{
		Kind: ActionClean, Label: "Clean Café", Emoji: "🧹",
		guard: func(r *Record) error {
			if r.Cash < CleanCost {
				return reject("cleaning supplies cost %d, you have %d", CleanCost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash -= CleanCost
			r.review(+0.15, "Someone posted a photo of the spotless floor. People liked it.")
			return "The place is spotless."
		},
	},
	{
		Kind: ActionImproveService, Label: "Improve Service", Emoji: "✨",
		guard: func(r *Record) error {
			if r.Cash < ImproveCost {
				return reject("the service push costs %d, you have %d", ImproveCost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, rng Rand) string {
			r.Cash -= ImproveCost
			r.review(+0.25, "Word is going around that the staff here actually helps.")
			if r.IsOpen && len(r.Customers) < r.WorkingPCs() {
				r.Customers = append(r.Customers, rollCustomer(r, rng))
				return "Service stepped up — one curious customer wandered in."
			}
			return "Service stepped up."
		},
	},
	{
		Kind: ActionFakeReview, Label: "Fake Review", Emoji: "📝",
		guard: func(r *Record) error {
			if r.Cash < FakeReviewCost {
				return reject("the review farm charges %d, you have %d", FakeReviewCost, r.Cash)
			}
			return nil
		},
		apply: func(r *Record, _ Rand) string {
			r.Cash -= FakeReviewCost
			r.review(+0.35, "\"Best café in town, five stars!\" — totally organic reviewer")
			r.Alerts.Police = clampInt(r.Alerts.Police+10, 0, MaxPoliceAlert)
			return "Glowing reviews, freshly bought. The police alert creeps up."
		},
	},
}

var catalogByKind = func() map[ActionKind]Action {
	m := make(map[ActionKind]Action, len(Catalog))
	for _, a := range Catalog {
		m[a.Kind] = a
	}
	return m
}()

// ActionByKind resolves a catalog entry. ok is false for unknown kinds.
func ActionByKind(kind ActionKind) (Action, bool) {
	a, ok := catalogByKind[kind]
	return a, ok
}

// rollCustomer draws a new customer using the documented odds: hardcore 25%,
// suspicious 15%, angry 20%, rate 2-5 plus the internet tier, stay 1-4 plus
// the coffee bonus.
func rollCustomer(r *Record, rng Rand) Customer {
	return Customer{
		Hardcore:   rng.Float64() < 0.25,
		Suspicious: rng.Float64() < 0.15,
		Angry:      rng.Float64() < 0.20,
		Rate:       int64(2 + rng.Intn(4) + r.InternetLevel),
		HoursLeft:  1 + rng.Intn(4) + r.CoffeeBonus(),
	}
}

func hasCustomer(r *Record, match func(Customer) bool) bool {
	for _, c := range r.Customers {
		if match(c) {
			return true
		}
	}
	return false
}

func removeFirstCustomer(r *Record, match func(Customer) bool) {
	for i, c := range r.Customers {
		if match(c) {
			r.Customers = append(r.Customers[:i], r.Customers[i+1:]...)
			return
		}
	}
}
