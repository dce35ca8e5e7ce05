package reward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focusquest/internal/config"
	"focusquest/internal/state"
)

var noCrit = 0.999999 // above any chance used in these tests
var forceCrit = 0.0   // below any positive chance

// fixture: 30 elapsed minutes, 5 idle minutes, 25 planned -> 25 effective.
func testSession(clock *FakeClock) state.Session {
	return state.Session{
		StartTime:   clock.Now().Add(-30 * time.Minute),
		Duration:    25,
		IdleSeconds: 300,
	}
}

func testCalculator(draws ...float64) (Calculator, *FakeClock) {
	clock := NewFakeClock(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	c := NewCalculator(config.Default().Formulas, clock, NewFakeRand(draws...))
	return c, clock
}

func TestCalculateRewards_BaseCase(t *testing.T) {
	c, clock := testCalculator(noCrit)
	stats := state.PlayerStats{Power: 2, CriticalChance: 0.05, PassiveRate: 1}

	res := c.CalculateRewards(testSession(clock), stats)

	f := c.Formulas
	assert.InDelta(t, 25*f.ExpMultiplier*(1+2*f.ExpStatBonus), res.Experience, 0.01)
	assert.InDelta(t, 25*f.CurrencyMultiplier*(1+1*f.CurrencyStatBonus), res.Currency, 0.01)
	assert.InDelta(t, 2*25*f.BossDamageMultiplier, res.BossDamage, 0.01)
	assert.False(t, res.Critical)
	assert.InDelta(t, 25*60, res.ActiveTime, 0.001, "active time reported in seconds")
}

func TestCalculateRewards_ScalesWithEffectiveDuration(t *testing.T) {
	c, clock := testCalculator(noCrit)
	stats := state.PlayerStats{Power: 1}

	short := testSession(clock)
	short.Duration = 10 // plan caps credit at 10 minutes
	long := testSession(clock)

	shortRes := c.CalculateRewards(short, stats)
	longRes := c.CalculateRewards(long, stats)

	assert.InDelta(t, 2.5, longRes.Experience/shortRes.Experience, 0.001)
	assert.InDelta(t, 2.5, longRes.BossDamage/shortRes.BossDamage, 0.001)
}

func TestCalculateRewards_CriticalMultipliesBoth(t *testing.T) {
	stats := state.PlayerStats{Power: 2, CriticalChance: 0.5, PassiveRate: 1}

	base, clock := testCalculator(noCrit)
	plain := base.CalculateRewards(testSession(clock), stats)

	crit, clock := testCalculator(forceCrit)
	hit := crit.CalculateRewards(testSession(clock), stats)

	assert.True(t, hit.Critical)
	assert.False(t, plain.Critical)
	assert.InDelta(t, plain.Experience*1.5, hit.Experience, 0.01)
	assert.InDelta(t, plain.Currency*1.5, hit.Currency, 0.01)
	assert.Equal(t, plain.BossDamage, hit.BossDamage, "damage is a separate channel")
}

func TestCalculateRewards_CompromisePenalty(t *testing.T) {
	stats := state.PlayerStats{Power: 2, PassiveRate: 1}

	c, clock := testCalculator(noCrit)
	clean := c.CalculateRewards(testSession(clock), stats)

	compromised := testSession(clock)
	compromised.Compromised = true
	dirty := c.CalculateRewards(compromised, stats)

	assert.InDelta(t, clean.Experience*0.7, dirty.Experience, 0.01)
	assert.InDelta(t, clean.Currency*0.7, dirty.Currency, 0.01)
	assert.Equal(t, clean.BossDamage, dirty.BossDamage)
}

func TestCalculateRewards_CriticalAndPenaltyCompose(t *testing.T) {
	stats := state.PlayerStats{Power: 2, CriticalChance: 0.5}

	c, clock := testCalculator(noCrit)
	plain := c.CalculateRewards(testSession(clock), stats)

	both, clock := testCalculator(forceCrit)
	s := testSession(clock)
	s.Compromised = true
	res := both.CalculateRewards(s, stats)

	assert.True(t, res.Critical)
	assert.InDelta(t, plain.Experience*1.5*0.7, res.Experience, 0.01)
	assert.Equal(t, plain.BossDamage, res.BossDamage)
}

func TestCalculateRewards_NegativeEffectiveDurationClampsToZero(t *testing.T) {
	c, clock := testCalculator(noCrit)
	s := state.Session{
		StartTime:   clock.Now().Add(-5 * time.Minute),
		Duration:    25,
		IdleSeconds: 3600, // more idle than elapsed
	}
	res := c.CalculateRewards(s, state.PlayerStats{Power: 3})

	assert.Zero(t, res.Experience)
	assert.Zero(t, res.Currency)
	assert.Zero(t, res.BossDamage)
}

func TestCalculateRewards_RoundsToTwoDecimals(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	f := config.Default().Formulas
	c := NewCalculator(f, clock, NewFakeRand(noCrit))

	s := state.Session{
		StartTime: clock.Now().Add(-7*time.Minute - 30*time.Second),
		Duration:  60,
	}
	res := c.CalculateRewards(s, state.PlayerStats{Power: 1, PassiveRate: 1})

	// 7.5 effective minutes: exp = 7.5*10*1.1 = 82.5, cur = 7.5*5*1.1 = 41.25
	assert.Equal(t, 82.5, res.Experience)
	assert.Equal(t, 41.25, res.Currency)
	assert.Equal(t, 450.0, res.ActiveTime)
}

func TestCheckCritical(t *testing.T) {
	c := NewCalculator(config.Default().Formulas, nil, NewFakeRand(0.25))

	assert.True(t, c.CheckCritical(0.3))
	assert.False(t, c.CheckCritical(0.25), "draw equal to chance is a miss")
	assert.False(t, c.CheckCritical(0.1))
	assert.False(t, c.CheckCritical(0), "zero chance never hits")
}

func TestApplyCompromisePenalty(t *testing.T) {
	c := NewCalculator(config.Default().Formulas, nil, nil)
	assert.InDelta(t, 70.0, c.ApplyCompromisePenalty(100), 1e-9)
	assert.Zero(t, c.ApplyCompromisePenalty(0))
}
