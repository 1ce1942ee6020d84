package game

import (
	"time"
)

// Engine advances records through simulated hours. It is the only code path
// allowed to mutate time-driven state. Interval is the wall-clock length of
// one simulated hour; LastTick always advances by exactly Interval per hour,
// never by an observed wall-clock delta, so irregular scheduler cycles cannot
// accumulate drift.
type Engine struct {
	Interval time.Duration
}

func NewEngine(interval time.Duration) Engine {
	if interval <= 0 {
		interval = time.Hour
	}
	return Engine{Interval: interval}
}

// ElapsedHours reports how many whole simulated hours the record is behind
// the given time.
func (e Engine) ElapsedHours(rec *Record, now time.Time) int {
	if d := now.Sub(rec.LastTick); d > 0 {
		return int(d / e.Interval)
	}
	return 0
}

// AdvanceHours applies n single-hour steps in sequence. n <= 0 is a strict
// no-op. Batched and stepwise invocation are equivalent given the same rng
// sequence.
func (e Engine) AdvanceHours(rec *Record, n int, rng Rand) {
	for i := 0; i < n; i++ {
		e.advanceOneHour(rec, rng)
	}
}

// advanceOneHour applies one simulated hour. Random rolls are consumed in a
// fixed order so scripted sources stay aligned: overheat (only while
// customers are seated), breakdown (only while a working PC remains), virus,
// virus breakdown (only at virus alert >= 7).
func (e Engine) advanceOneHour(rec *Record, rng Rand) {
	fixes := rec.Staff.Technicians + rec.Staff.Skilled - rec.Staff.Lazy
	if fixes < 0 {
		fixes = 0
	}
	mischief := rec.Staff.Corrupt - rec.Staff.Skilled
	if mischief < 0 {
		mischief = 0
	}

	// Service & churn.
	if rec.IsOpen {
		var earned int64
		kept := rec.Customers[:0]
		for _, c := range rec.Customers {
			earned += c.Rate
			c.HoursLeft--
			if c.HoursLeft > 0 {
				kept = append(kept, c)
				continue
			}
			switch {
			case c.Angry:
				rec.review(-0.1, "An angry customer stormed out and left a one-star rant.")
			case c.Hardcore:
				rec.review(+0.05, "A hardcore gamer praised the setup on their way out.")
			}
		}
		rec.Customers = kept
		if earned > 0 {
			rec.Cash += earned
		}
		rec.logProfit(rec.LastTick, earned)
	} else if len(rec.Customers) > 0 {
		rec.Customers = rec.Customers[:0]
	}

	// Overheating drift.
	if len(rec.Customers) > 0 && rng.Float64() < 0.25 {
		if rec.Overheating < rec.PCs {
			rec.Overheating++
		}
	}

	// Breakdown hazard.
	if rec.BrokenPCs < rec.PCs {
		excess := rec.Overheating - fixes
		if excess < 0 {
			excess = 0
		}
		if rec.WorkingPCs() <= 0 || rng.Float64() < 0.12+0.02*float64(excess) {
			rec.BrokenPCs++
			rec.review(-0.15, "A PC died mid-session. The review was not kind.")
		}
	}

	// Staff repairs.
	if fixes > 0 {
		rec.BrokenPCs -= fixes
		if rec.BrokenPCs < 0 {
			rec.BrokenPCs = 0
		}
		rec.Overheating -= fixes
		if rec.Overheating < 0 {
			rec.Overheating = 0
		}
	}

	// Corrupt staff skimming the till.
	if mischief > 0 {
		rec.Cash -= int64(6 * mischief)
		if rec.Cash < 0 {
			rec.Cash = 0
		}
		raise := mischief
		if raise > 20 {
			raise = 20
		}
		rec.Alerts.Police = clampInt(rec.Alerts.Police+raise, 0, MaxPoliceAlert)
		rec.review(-0.05, "Rumors of staff pocketing money are making the rounds.")
	}

	// Bills accrual.
	load := rec.ElectricityLoad()
	hourly := int64(load / 6)
	if hourly < 3 {
		hourly = 3
	}
	rec.Bills += hourly + int64(2*rec.Staff.Total)

	// Auto-closure when the debt runs away.
	if rec.Bills > rec.Cash+80 && rec.IsOpen {
		rec.IsOpen = false
		rec.LatestReview = "The café went dark — unpaid bills forced the doors shut."
	}

	// Virus hazard.
	if rng.Float64() < 0.18 && rec.Alerts.Viruses < MaxViruses {
		rec.Alerts.Viruses++
	}
	if rec.Alerts.Viruses >= 7 && rng.Float64() < 0.25 {
		if rec.BrokenPCs < rec.PCs {
			rec.BrokenPCs++
		}
	}

	// Fire risk tracks load and heat.
	rec.Alerts.Fire = clampInt(load+4*rec.Overheating, 5, MaxFireAlert)
	rec.Alerts.Police = clampInt(rec.Alerts.Police, 0, MaxPoliceAlert)

	// A breakdown can take a seat out from under someone; excess customers
	// leave so seating never exceeds working PCs.
	if seats := rec.WorkingPCs(); len(rec.Customers) > seats {
		rec.Customers = rec.Customers[:seats]
	}

	rec.LastTick = rec.LastTick.Add(e.Interval)

	// The profit window trails LastTick, so closed hours age entries out
	// just like open ones.
	rec.pruneProfitLog(rec.LastTick)
}
