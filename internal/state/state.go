// Package state owns the canonical root game state: its shape, its total
// defaults, repair of corrupted persisted copies, and the retrying store.
package state

import (
	"encoding/json"
	"math"
	"time"
)

// RootState is the single persisted aggregate, one per installation. All
// mutation flows through the Store.
type RootState struct {
	ID          string                     `json:"id"`
	Player      Player                     `json:"player"`
	Session     *Session                   `json:"session"`
	Break       *Break                     `json:"break"`
	Progression Progression                `json:"progression"`
	Tasks       map[string]json.RawMessage `json:"tasks"`
	Settings    Settings                   `json:"settings"`
	Statistics  Statistics                 `json:"statistics"`
}

type Player struct {
	Level            int         `json:"level"`
	Experience       float64     `json:"experience"`
	Currency         float64     `json:"currency"`
	Stats            PlayerStats `json:"stats"`
	SkillPoints      int         `json:"skillPoints"`
	OwnedCosmetics   []string    `json:"ownedCosmetics"`
	SelectedCosmetic string      `json:"selectedCosmetic"`
}

type PlayerStats struct {
	Power          float64 `json:"power"`
	CriticalChance float64 `json:"criticalChance"` // fraction in [0,1]
	PassiveRate    float64 `json:"passiveRate"`    // currency per idle hour
}

// Session describes a running focus session. Absent (nil) when none is active.
type Session struct {
	StartTime     time.Time `json:"startTime"`
	Duration      int       `json:"duration"` // planned, minutes
	TaskID        string    `json:"taskId"`
	Active        bool      `json:"active"`
	Paused        bool      `json:"paused"`
	Compromised   bool      `json:"compromised"`
	IdleSeconds   float64   `json:"idleSeconds"`
	ActiveSeconds float64   `json:"activeSeconds"`
}

// Break describes a running break. Absent (nil) when none is active.
type Break struct {
	StartTime time.Time `json:"startTime"`
	Duration  int       `json:"duration"` // minutes
	Active    bool      `json:"active"`
}

type Progression struct {
	CurrentBossIndex   int         `json:"currentBossIndex"`
	CurrentBossResolve float64     `json:"currentBossResolve"`
	DefeatedBosses     []int       `json:"defeatedBosses"`
	Idle               IdleAccrual `json:"idle"`
}

type IdleAccrual struct {
	LastCollectedAt time.Time `json:"lastCollectedAt"`
	Accumulated     float64   `json:"accumulated"`
}

// Settings is user preference data; the store validates its type shape only.
type Settings struct {
	FocusDuration   int      `json:"focusDuration"` // minutes
	ShortBreak      int      `json:"shortBreak"`
	LongBreak       int      `json:"longBreak"`
	DailyGoal       int      `json:"dailyGoal"` // sessions per day
	BlockedSites    []string `json:"blockedSites"`
	AllowedSites    []string `json:"allowedSites"`
	NotificationsOn bool     `json:"notificationsOn"`
	StrictMode      bool     `json:"strictMode"`
}

type Statistics struct {
	Sessions        int       `json:"sessions"`
	FocusMinutes    float64   `json:"focusMinutes"`
	CurrentStreak   int       `json:"currentStreak"`
	BestStreak      int       `json:"bestStreak"`
	BossesDefeated  int       `json:"bossesDefeated"`
	TotalExperience float64   `json:"totalExperience"`
	TotalCurrency   float64   `json:"totalCurrency"`
	LastSessionAt   time.Time `json:"lastSessionAt"`
}

// DefaultState returns a fully-populated first-run state. firstBossResolve
// seeds the opening fight from the catalog.
func DefaultState(firstBossResolve float64) *RootState {
	return &RootState{
		Player:      defaultPlayer(),
		Session:     nil,
		Break:       nil,
		Progression: defaultProgression(firstBossResolve),
		Tasks:       map[string]json.RawMessage{},
		Settings:    defaultSettings(),
		Statistics:  Statistics{},
	}
}

func defaultPlayer() Player {
	return Player{
		Level:      1,
		Experience: 0,
		Currency:   0,
		Stats: PlayerStats{
			Power:          1,
			CriticalChance: 0.05,
			PassiveRate:    0,
		},
		SkillPoints:      0,
		OwnedCosmetics:   []string{},
		SelectedCosmetic: "",
	}
}

func defaultProgression(firstBossResolve float64) Progression {
	return Progression{
		CurrentBossIndex:   0,
		CurrentBossResolve: firstBossResolve,
		DefeatedBosses:     []int{},
		Idle:               IdleAccrual{},
	}
}

func defaultSettings() Settings {
	return Settings{
		FocusDuration:   25,
		ShortBreak:      5,
		LongBreak:       15,
		DailyGoal:       4,
		BlockedSites:    []string{},
		AllowedSites:    []string{},
		NotificationsOn: true,
		StrictMode:      false,
	}
}

// Clone returns a deep copy.
func (s *RootState) Clone() *RootState {
	out := *s
	if s.Session != nil {
		sess := *s.Session
		out.Session = &sess
	}
	if s.Break != nil {
		br := *s.Break
		out.Break = &br
	}
	out.Player.OwnedCosmetics = cloneStrings(s.Player.OwnedCosmetics)
	out.Progression.DefeatedBosses = cloneInts(s.Progression.DefeatedBosses)
	out.Settings.BlockedSites = cloneStrings(s.Settings.BlockedSites)
	out.Settings.AllowedSites = cloneStrings(s.Settings.AllowedSites)
	out.Tasks = make(map[string]json.RawMessage, len(s.Tasks))
	for k, v := range s.Tasks {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		out.Tasks[k] = raw
	}
	return &out
}

func cloneStrings(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func cloneInts(src []int) []int {
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Patch is a top-level shallow merge: each non-nil field replaces its
// sub-record wholesale. ClearSession/ClearBreak distinguish "set to absent"
// from "leave alone" for the two nullable records.
type Patch struct {
	Player       *Player
	Session      *Session
	ClearSession bool
	Break        *Break
	ClearBreak   bool
	Progression  *Progression
	Tasks        map[string]json.RawMessage
	Settings     *Settings
	Statistics   *Statistics
}

func (s *RootState) apply(p Patch) {
	if p.Player != nil {
		s.Player = *p.Player
	}
	if p.ClearSession {
		s.Session = nil
	} else if p.Session != nil {
		sess := *p.Session
		s.Session = &sess
	}
	if p.ClearBreak {
		s.Break = nil
	} else if p.Break != nil {
		br := *p.Break
		s.Break = &br
	}
	if p.Progression != nil {
		s.Progression = *p.Progression
	}
	if p.Tasks != nil {
		s.Tasks = p.Tasks
	}
	if p.Settings != nil {
		s.Settings = *p.Settings
	}
	if p.Statistics != nil {
		s.Statistics = *p.Statistics
	}
}

// RecordSession folds a finished session into the cumulative counters.
// Streaks count consecutive calendar days with at least one session.
func (s Statistics) RecordSession(now time.Time, focusMinutes, experience, currency float64) Statistics {
	out := s
	out.Sessions++
	out.FocusMinutes += focusMinutes
	out.TotalExperience = round2(out.TotalExperience + experience)
	out.TotalCurrency = round2(out.TotalCurrency + currency)

	switch {
	case s.LastSessionAt.IsZero():
		out.CurrentStreak = 1
	case sameDay(s.LastSessionAt, now):
		// streak unchanged
	case sameDay(s.LastSessionAt.AddDate(0, 0, 1), now):
		out.CurrentStreak++
	default:
		out.CurrentStreak = 1
	}
	if out.CurrentStreak > out.BestStreak {
		out.BestStreak = out.CurrentStreak
	}
	out.LastSessionAt = now
	return out
}

// RecordBossDefeat bumps the lifetime boss counter.
func (s Statistics) RecordBossDefeat() Statistics {
	out := s
	out.BossesDefeated++
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
