package game

import (
	"reflect"
	"testing"
	"time"
)

// scriptRand replays a fixed sequence of rolls. Exhausted sequences return
// values that make every hazard roll fail, keeping tests quiet by default.
type scriptRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptRand) Float64() float64 {
	if s.fi >= len(s.floats) {
		return 0.99
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

func (s *scriptRand) Intn(n int) int {
	if s.ii >= len(s.ints) {
		return 0
	}
	v := s.ints[s.ii]
	s.ii++
	if v >= n {
		v = n - 1
	}
	return v
}

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// repEq compares reputation values with a tolerance for float accumulation.
func repEq(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

func checkInvariants(t *testing.T, r *Record) {
	t.Helper()
	if r.BrokenPCs < 0 || r.BrokenPCs > r.PCs {
		t.Errorf("broken PCs out of range: broken=%d pcs=%d", r.BrokenPCs, r.PCs)
	}
	if r.Reputation < MinReputation || r.Reputation > MaxReputation {
		t.Errorf("reputation out of range: %v", r.Reputation)
	}
	if r.Alerts.Viruses < 0 || r.Alerts.Viruses > MaxViruses {
		t.Errorf("virus alert out of range: %d", r.Alerts.Viruses)
	}
	if r.Alerts.Fire < 0 || r.Alerts.Fire > MaxFireAlert {
		t.Errorf("fire alert out of range: %d", r.Alerts.Fire)
	}
	if r.Alerts.Police < 0 || r.Alerts.Police > MaxPoliceAlert {
		t.Errorf("police alert out of range: %d", r.Alerts.Police)
	}
	if r.Cash < 0 {
		t.Errorf("cash went negative: %d", r.Cash)
	}
	if len(r.Customers) > r.WorkingPCs() {
		t.Errorf("more customers (%d) than working PCs (%d)", len(r.Customers), r.WorkingPCs())
	}
}

func TestAdvanceHoursZeroIsNoOp(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.IsOpen = true
	rec.Customers = []Customer{{HoursLeft: 2, Rate: 3}}
	before := rec.Clone()

	e.AdvanceHours(rec, 0, NewRand(1))

	if !reflect.DeepEqual(before, rec) {
		t.Errorf("AdvanceHours(rec, 0) mutated the record:\nbefore %+v\nafter  %+v", before, rec)
	}
}

func TestBatchedEqualsStepwise(t *testing.T) {
	const hours = 8

	build := func() *Record {
		rec := NewRecord(testStart)
		rec.IsOpen = true
		rec.Cash = 500
		rec.Staff = Staff{Total: 3, Lazy: 1, Corrupt: 1, Skilled: 1}
		rec.Customers = []Customer{
			{HoursLeft: 5, Rate: 4, Hardcore: true},
			{HoursLeft: 3, Rate: 2, Angry: true},
		}
		return rec
	}

	e := NewEngine(time.Hour)

	batched := build()
	e.AdvanceHours(batched, hours, NewRand(42))

	stepwise := build()
	rng := NewRand(42)
	for i := 0; i < hours; i++ {
		e.AdvanceHours(stepwise, 1, rng)
	}

	if !reflect.DeepEqual(batched, stepwise) {
		t.Errorf("batched and stepwise ticking diverged:\nbatched  %+v\nstepwise %+v", batched, stepwise)
	}
}

func TestClosedCafeEvictsCustomersWithoutEarnings(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.IsOpen = false
	rec.Customers = []Customer{{HoursLeft: 4, Rate: 10}, {HoursLeft: 2, Rate: 6}}
	cashBefore := rec.Cash

	e.AdvanceHours(rec, 1, &scriptRand{})

	if len(rec.Customers) != 0 {
		t.Errorf("expected all customers evicted, still have %d", len(rec.Customers))
	}
	if rec.Cash != cashBefore {
		t.Errorf("closed café earned money: cash %d -> %d", cashBefore, rec.Cash)
	}
	if len(rec.ProfitLog) != 0 {
		t.Errorf("closed café logged profit: %+v", rec.ProfitLog)
	}
}

func TestHardcoreCustomerDeparture(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.IsOpen = true
	rec.Reputation = 3.0
	rec.Customers = []Customer{{HoursLeft: 1, Rate: 4, Hardcore: true}}
	cashBefore := rec.Cash

	// Rolls: breakdown misses, virus misses. No overheat roll (the only
	// customer departs before the drift check) and no virus-break roll.
	e.AdvanceHours(rec, 1, &scriptRand{floats: []float64{0.9, 0.9}})

	if len(rec.Customers) != 0 {
		t.Fatalf("customer should have left, still have %d", len(rec.Customers))
	}
	if got, want := rec.Cash, cashBefore+4; got != want {
		t.Errorf("cash = %d, want %d", got, want)
	}
	if got, want := rec.Reputation, 3.05; !repEq(got, want) {
		t.Errorf("reputation = %v, want %v", got, want)
	}
}

func TestAngryCustomerDeparture(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.IsOpen = true
	rec.Reputation = 3.0

	tests := []struct {
		name     string
		customer Customer
		wantRep  float64
	}{
		{"angry", Customer{HoursLeft: 1, Rate: 1, Angry: true}, 2.9},
		{"angry hardcore still counts as angry", Customer{HoursLeft: 1, Rate: 1, Angry: true, Hardcore: true}, 2.9},
		{"neither flag", Customer{HoursLeft: 1, Rate: 1}, 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rec.Clone()
			r.Customers = []Customer{tt.customer}
			e.AdvanceHours(r, 1, &scriptRand{floats: []float64{0.9, 0.9}})
			if !repEq(r.Reputation, tt.wantRep) {
				t.Errorf("reputation = %v, want %v", r.Reputation, tt.wantRep)
			}
		})
	}
}

func TestBillsAccrual(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.Cash = 1000
	rec.Staff.Total = 3

	// load = clamp(40+8*2-0, 10, 100) = 56; hourly = max(3, 56/6) = 9.
	e.AdvanceHours(rec, 1, &scriptRand{})

	if got, want := rec.Bills, int64(9+2*3); got != want {
		t.Errorf("bills = %d, want %d", got, want)
	}
}

func TestAutoClosure(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.IsOpen = true
	rec.Cash = 5
	rec.Bills = 100

	e.AdvanceHours(rec, 1, &scriptRand{})

	if rec.IsOpen {
		t.Errorf("café should have been forced closed at bills=%d cash=%d", rec.Bills, rec.Cash)
	}
}

func TestBreakdownHazard(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.Reputation = 3.0

	// Breakdown roll hits (0.0 < 0.12), virus roll misses.
	e.AdvanceHours(rec, 1, &scriptRand{floats: []float64{0.0, 0.9}})

	if rec.BrokenPCs != 1 {
		t.Errorf("broken PCs = %d, want 1", rec.BrokenPCs)
	}
	if got, want := rec.Reputation, 2.85; !repEq(got, want) {
		t.Errorf("reputation = %v, want %v", got, want)
	}
}

func TestFullyBrokenFleetStaysInRange(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.PCs = 2
	rec.BrokenPCs = 2

	e.AdvanceHours(rec, 3, &scriptRand{floats: []float64{0, 0, 0, 0, 0, 0}})

	checkInvariants(t, rec)
	if rec.BrokenPCs != 2 {
		t.Errorf("broken PCs = %d, want 2 (cap)", rec.BrokenPCs)
	}
}

func TestStaffRepairs(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.PCs = 4
	rec.BrokenPCs = 3
	rec.Overheating = 2
	rec.Staff = Staff{Total: 2, Skilled: 1, Technicians: 1}

	// fixes = 2: breakdown roll misses, then two repairs and two degrees of
	// cooling.
	e.AdvanceHours(rec, 1, &scriptRand{floats: []float64{0.9, 0.9}})

	if rec.BrokenPCs != 1 {
		t.Errorf("broken PCs = %d, want 1", rec.BrokenPCs)
	}
	if rec.Overheating != 0 {
		t.Errorf("overheating = %d, want 0", rec.Overheating)
	}
}

func TestCorruptStaffMischief(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.Cash = 100
	rec.Staff = Staff{Total: 2, Corrupt: 2}

	e.AdvanceHours(rec, 1, &scriptRand{})

	if got, want := rec.Cash, int64(100-12); got != want {
		t.Errorf("cash = %d, want %d", got, want)
	}
	if rec.Alerts.Police != 2 {
		t.Errorf("police alert = %d, want 2", rec.Alerts.Police)
	}
}

func TestVirusOutbreakBreaksPC(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.PCs = 3
	rec.Alerts.Viruses = 7

	// Breakdown roll misses, virus roll hits (8 viruses), outbreak roll hits.
	e.AdvanceHours(rec, 1, &scriptRand{floats: []float64{0.9, 0.0, 0.0}})

	if rec.Alerts.Viruses != 8 {
		t.Errorf("virus alert = %d, want 8", rec.Alerts.Viruses)
	}
	if rec.BrokenPCs != 1 {
		t.Errorf("broken PCs = %d, want 1", rec.BrokenPCs)
	}
}

func TestProfitLogPruned(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.IsOpen = true
	rec.Cash = 100000

	rng := NewRand(7)
	for i := 0; i < 30; i++ {
		e.AdvanceHours(rec, 1, rng)
		if rec.Bills > 0 && rec.Cash >= rec.Bills {
			rec.Cash -= rec.Bills
			rec.Bills = 0
			rec.IsOpen = true
		}
	}

	cutoff := rec.LastTick.Add(-ProfitWindow)
	for _, entry := range rec.ProfitLog {
		if entry.At.Before(cutoff) {
			t.Errorf("profit entry at %v survived past the 24h cutoff %v", entry.At, cutoff)
		}
	}
}

func TestProfitLogPrunedWhileClosed(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.ProfitLog = []ProfitEntry{{At: testStart, Amount: 4}}

	// 30 closed hours log nothing, but the entry must still age out once
	// LastTick moves the 24h window past it.
	e.AdvanceHours(rec, 30, NewRand(7))

	cutoff := rec.LastTick.Add(-ProfitWindow)
	for _, entry := range rec.ProfitLog {
		if entry.At.Before(cutoff) {
			t.Errorf("profit entry at %v survived past the 24h cutoff %v", entry.At, cutoff)
		}
	}
	if got := rec.ProfitLast24h(); got != 0 {
		t.Errorf("ProfitLast24h = %d after the only entry aged out, want 0", got)
	}
}

func TestLastTickAdvancesByExactIntervals(t *testing.T) {
	e := NewEngine(30 * time.Minute)
	rec := NewRecord(testStart)

	e.AdvanceHours(rec, 5, NewRand(1))

	if got, want := rec.LastTick, testStart.Add(5*30*time.Minute); !got.Equal(want) {
		t.Errorf("lastTick = %v, want %v", got, want)
	}
}

func TestElapsedHours(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", testStart, 0},
		{"under one interval", testStart.Add(59 * time.Minute), 0},
		{"one interval", testStart.Add(time.Hour), 1},
		{"three and a half", testStart.Add(3*time.Hour + 30*time.Minute), 3},
		{"clock went backwards", testStart.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ElapsedHours(rec, tt.now); got != tt.want {
				t.Errorf("ElapsedHours = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInvariantsHoldUnderLongRun(t *testing.T) {
	e := NewEngine(time.Hour)
	rec := NewRecord(testStart)
	rec.IsOpen = true
	rec.Cash = 300
	rec.Staff = Staff{Total: 4, Lazy: 1, Corrupt: 2, Skilled: 1}
	rng := NewRand(99)

	for hour := 0; hour < 500; hour++ {
		e.AdvanceHours(rec, 1, rng)
		checkInvariants(t, rec)
	}
}
