// Package progression computes the numeric progression model: boss combat,
// unlock gating, experience and leveling, skill points, passive income.
// Every method is a pure function over its inputs; nothing here does I/O.
package progression

import (
	"math"
	"time"

	"focusquest/internal/catalog"
	"focusquest/internal/config"
	"focusquest/internal/state"
)

// Engine evaluates progression rules against an immutable catalog and
// formula table. The zero value is not usable; construct with both set.
type Engine struct {
	Catalog  *catalog.Catalog
	Formulas config.Formulas
}

// DamageResult reports the outcome of applying damage to the current boss.
// It never mutates progression state; advancing to NextBoss is a separate,
// gated transition (UnlockNextBoss).
type DamageResult struct {
	RemainingResolve float64
	Defeated         bool
	// NextBoss is the boss that would come next after a defeat; nil when the
	// defeated boss was the last one (campaign complete).
	NextBoss *catalog.Boss
	// NextUnlockable reports whether the player's level already meets
	// NextBoss's requirement.
	NextUnlockable bool
}

// DamageBoss applies damage to the current boss's resolve, flooring at zero.
func (e Engine) DamageBoss(damage float64, prog state.Progression, playerLevel int) DamageResult {
	if damage < 0 {
		damage = 0
	}
	remaining := prog.CurrentBossResolve - damage
	if remaining < 0 {
		remaining = 0
	}
	res := DamageResult{
		RemainingResolve: remaining,
		Defeated:         remaining == 0,
	}
	if res.Defeated {
		if next, ok := e.Catalog.Next(prog.CurrentBossIndex); ok {
			res.NextBoss = &next
			res.NextUnlockable = playerLevel >= next.UnlockLevel
		}
	}
	return res
}

// CurrentBoss returns the catalog entry for the progression's boss index,
// clamping out-of-range indices.
func (e Engine) CurrentBoss(prog state.Progression) catalog.Boss {
	return e.Catalog.At(prog.CurrentBossIndex)
}

// UnlockNextBoss advances to the next boss: index+1, resolve reset to the new
// boss's initial value, old index appended to the defeated set. The advance
// happens only when a next boss exists and the player's level meets its
// requirement; otherwise the input is returned unchanged and the bool is
// false. Safe to call opportunistically after any level change.
func (e Engine) UnlockNextBoss(prog state.Progression, playerLevel int) (state.Progression, bool) {
	idx := e.Catalog.Clamp(prog.CurrentBossIndex)
	next, ok := e.Catalog.Next(idx)
	if !ok || playerLevel < next.UnlockLevel {
		return prog, false
	}
	out := prog
	out.CurrentBossIndex = idx + 1
	out.CurrentBossResolve = next.Resolve
	out.DefeatedBosses = appendUnique(prog.DefeatedBosses, idx)
	return out, true
}

// LevelUpResult summarizes an AddExperience call across all level-ups it
// resolved.
type LevelUpResult struct {
	NewLevel           int
	LeveledUp          bool
	SkillPointsGranted int
}

// AddExperience accrues experience and resolves every level-up it pays for.
// Experience never decreases: negative amounts are treated as zero. The loop
// terminates because LevelThreshold is strictly increasing in level.
func (e Engine) AddExperience(amount float64, p state.Player) (state.Player, LevelUpResult) {
	if amount < 0 {
		amount = 0
	}
	out := p
	out.Experience += amount

	granted := 0
	for out.Experience >= float64(e.LevelThreshold(out.Level)) {
		out.Level++
		granted += e.Formulas.SkillPointsPerLevel
	}
	out.SkillPoints = GrantSkillPoints(out.SkillPoints, granted)

	return out, LevelUpResult{
		NewLevel:           out.Level,
		LeveledUp:          out.Level > p.Level,
		SkillPointsGranted: granted,
	}
}

// LevelThreshold returns the total experience required to leave the given
// level: floor(BaseXP * level^LevelExponent). The exact curve is part of the
// save format; reference values are 1→100, 2→282, 5→1118, 10→3162.
func (e Engine) LevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(e.Formulas.BaseXP * math.Pow(float64(level), e.Formulas.LevelExponent)))
}

// GrantSkillPoints is plain addition; there is no cap.
func GrantSkillPoints(current, amount int) int {
	return current + amount
}

// CollectPassiveIncome settles the idle-accrual record: currency earned at
// the player's passive rate since the last collection (capped at the
// configured accrual window) plus anything already accumulated. It returns
// the settled progression and the amount to credit.
func (e Engine) CollectPassiveIncome(prog state.Progression, stats state.PlayerStats, now time.Time) (state.Progression, float64) {
	out := prog
	out.Idle.LastCollectedAt = now
	out.Idle.Accumulated = 0

	last := prog.Idle.LastCollectedAt
	if last.IsZero() || !now.After(last) {
		return out, round2(prog.Idle.Accumulated)
	}

	hours := now.Sub(last).Hours()
	if limit := e.Formulas.PassiveAccrualCapHours; limit > 0 && hours > limit {
		hours = limit
	}
	earned := stats.PassiveRate * hours
	return out, round2(prog.Idle.Accumulated + earned)
}

func appendUnique(src []int, v int) []int {
	out := make([]int, 0, len(src)+1)
	out = append(out, src...)
	for _, existing := range out {
		if existing == v {
			return out
		}
	}
	return append(out, v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
