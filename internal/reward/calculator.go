// Package reward turns a finished focus session into an earned-reward record.
package reward

import (
	"math"

	"focusquest/internal/config"
	"focusquest/internal/state"
)

// Result is the reward record for one finished session. Experience, currency
// and boss damage are rounded half-up to two decimals. ActiveTime is the
// credited active time in seconds.
type Result struct {
	Experience float64 `json:"experience"`
	Currency   float64 `json:"currency"`
	BossDamage float64 `json:"bossDamage"`
	Critical   bool    `json:"critical"`
	ActiveTime float64 `json:"activeTime"`
}

// Calculator computes session rewards. Clock and Rand are injectable so the
// arithmetic is fully deterministic under test.
type Calculator struct {
	Formulas config.Formulas
	Clock    Clock
	Rand     Rand
}

// NewCalculator fills nil Clock/Rand with the real system sources.
func NewCalculator(f config.Formulas, clock Clock, rng Rand) Calculator {
	if clock == nil {
		clock = RealClock{}
	}
	if rng == nil {
		rng = SystemRand{}
	}
	return Calculator{Formulas: f, Clock: clock, Rand: rng}
}

// CalculateRewards computes the reward record for a session given the
// player's stat bundle. Inputs are assumed pre-validated; a session with no
// credited time yields zero rewards rather than an error.
//
// Effective duration is capped at the planned duration and floored at zero;
// idle time never earns credit. The critical bonus and compromise penalty
// both apply to experience and currency, composing multiplicatively. Boss
// damage is a separate channel: it depends only on effective duration and
// offensive power, untouched by the critical roll or penalty.
func (c Calculator) CalculateRewards(s state.Session, stats state.PlayerStats) Result {
	f := c.Formulas

	elapsedMinutes := c.Clock.Now().Sub(s.StartTime).Minutes()
	activeMinutes := elapsedMinutes - s.IdleSeconds/60
	effective := math.Min(float64(s.Duration), activeMinutes)
	if effective < 0 {
		effective = 0
	}

	experience := effective * f.ExpMultiplier * (1 + stats.Power*f.ExpStatBonus)
	currency := effective * f.CurrencyMultiplier * (1 + stats.PassiveRate*f.CurrencyStatBonus)

	critical := c.CheckCritical(stats.CriticalChance)
	if critical {
		experience *= f.CriticalMultiplier
		currency *= f.CriticalMultiplier
	}
	if s.Compromised {
		experience = c.ApplyCompromisePenalty(experience)
		currency = c.ApplyCompromisePenalty(currency)
	}

	damage := stats.Power * effective * f.BossDamageMultiplier

	return Result{
		Experience: round2(experience),
		Currency:   round2(currency),
		BossDamage: round2(damage),
		Critical:   critical,
		ActiveTime: activeMinutes * 60,
	}
}

// CheckCritical draws once from the uniform source; a hit is draw < chance.
func (c Calculator) CheckCritical(criticalChance float64) bool {
	return c.Rand.Float64() < criticalChance
}

// ApplyCompromisePenalty scales a reward by the penalty multiplier.
func (c Calculator) ApplyCompromisePenalty(value float64) float64 {
	return value * c.Formulas.CompromisePenalty
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
