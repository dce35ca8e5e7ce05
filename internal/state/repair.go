package state

import (
	"encoding/json"
	"time"

	"focusquest/internal/catalog"
)

// Repair turns an arbitrary persisted blob into a well-formed RootState.
// Every field is checked independently: a value of the right type is kept
// verbatim, anything else is replaced by its default. A sub-record that is
// not an object at all is defaulted wholesale. The returned count is the
// number of substitutions made; repairing a well-formed state reports zero.
//
// Repair is total and idempotent. It never fails.
func Repair(raw []byte, cat *catalog.Catalog) (*RootState, int) {
	var v any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			v = nil
		}
	}
	return RepairValue(v, cat)
}

// RepairValue is Repair over an already-decoded JSON value.
func RepairValue(v any, cat *catalog.Catalog) (*RootState, int) {
	r := &repairer{}
	root, ok := v.(map[string]any)
	if !ok {
		r.fixes++
	}

	st := &RootState{
		ID:          r.str(root, "id", ""),
		Player:      r.player(root["player"]),
		Session:     r.session(root["session"]),
		Break:       r.breakRecord(root["break"]),
		Progression: r.progression(root["progression"], cat),
		Tasks:       r.tasks(root["tasks"]),
		Settings:    r.settings(root["settings"]),
		Statistics:  r.statistics(root["statistics"]),
	}
	st.normalize(cat)
	return st, r.fixes
}

// normalize enforces the invariants the generic per-field type check cannot
// see: the boss index stays inside the catalog, resolve and the critical
// chance stay in range, and the level floor is 1.
func (s *RootState) normalize(cat *catalog.Catalog) {
	s.Progression.CurrentBossIndex = cat.Clamp(s.Progression.CurrentBossIndex)
	if s.Progression.CurrentBossResolve < 0 {
		s.Progression.CurrentBossResolve = 0
	}
	if s.Player.Level < 1 {
		s.Player.Level = 1
	}
	if s.Player.Stats.CriticalChance < 0 {
		s.Player.Stats.CriticalChance = 0
	}
	if s.Player.Stats.CriticalChance > 1 {
		s.Player.Stats.CriticalChance = 1
	}
}

type repairer struct {
	fixes int
}

func (r *repairer) player(v any) Player {
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
	}
	d := defaultPlayer()
	return Player{
		Level:            r.intField(m, "level", d.Level),
		Experience:       r.num(m, "experience", d.Experience),
		Currency:         r.num(m, "currency", d.Currency),
		Stats:            r.playerStats(m["stats"]),
		SkillPoints:      r.intField(m, "skillPoints", d.SkillPoints),
		OwnedCosmetics:   r.strings(m, "ownedCosmetics", d.OwnedCosmetics),
		SelectedCosmetic: r.str(m, "selectedCosmetic", d.SelectedCosmetic),
	}
}

func (r *repairer) playerStats(v any) PlayerStats {
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
	}
	d := defaultPlayer().Stats
	return PlayerStats{
		Power:          r.num(m, "power", d.Power),
		CriticalChance: r.num(m, "criticalChance", d.CriticalChance),
		PassiveRate:    r.num(m, "passiveRate", d.PassiveRate),
	}
}

// session and break are nullable: absent or null is a valid "not running"
// value, not corruption.
func (r *repairer) session(v any) *Session {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
		return nil
	}
	return &Session{
		StartTime:     r.timeField(m, "startTime", time.Time{}),
		Duration:      r.intField(m, "duration", 0),
		TaskID:        r.str(m, "taskId", ""),
		Active:        r.boolField(m, "active", false),
		Paused:        r.boolField(m, "paused", false),
		Compromised:   r.boolField(m, "compromised", false),
		IdleSeconds:   r.num(m, "idleSeconds", 0),
		ActiveSeconds: r.num(m, "activeSeconds", 0),
	}
}

func (r *repairer) breakRecord(v any) *Break {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
		return nil
	}
	return &Break{
		StartTime: r.timeField(m, "startTime", time.Time{}),
		Duration:  r.intField(m, "duration", 0),
		Active:    r.boolField(m, "active", false),
	}
}

func (r *repairer) progression(v any, cat *catalog.Catalog) Progression {
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
	}
	d := defaultProgression(cat.At(0).Resolve)
	idle, ok := m["idle"].(map[string]any)
	if !ok {
		r.fixes++
	}
	return Progression{
		CurrentBossIndex:   r.intField(m, "currentBossIndex", d.CurrentBossIndex),
		CurrentBossResolve: r.num(m, "currentBossResolve", d.CurrentBossResolve),
		DefeatedBosses:     r.ints(m, "defeatedBosses", d.DefeatedBosses),
		Idle: IdleAccrual{
			LastCollectedAt: r.timeField(idle, "lastCollectedAt", time.Time{}),
			Accumulated:     r.num(idle, "accumulated", 0),
		},
	}
}

// tasks is opaque to the engine; the only contract is lossless round-trip of
// whatever object was stored.
func (r *repairer) tasks(v any) map[string]json.RawMessage {
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
		return map[string]json.RawMessage{}
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, entry := range m {
		raw, err := json.Marshal(entry)
		if err != nil {
			r.fixes++
			continue
		}
		out[k] = raw
	}
	return out
}

func (r *repairer) settings(v any) Settings {
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
	}
	d := defaultSettings()
	return Settings{
		FocusDuration:   r.intField(m, "focusDuration", d.FocusDuration),
		ShortBreak:      r.intField(m, "shortBreak", d.ShortBreak),
		LongBreak:       r.intField(m, "longBreak", d.LongBreak),
		DailyGoal:       r.intField(m, "dailyGoal", d.DailyGoal),
		BlockedSites:    r.strings(m, "blockedSites", d.BlockedSites),
		AllowedSites:    r.strings(m, "allowedSites", d.AllowedSites),
		NotificationsOn: r.boolField(m, "notificationsOn", d.NotificationsOn),
		StrictMode:      r.boolField(m, "strictMode", d.StrictMode),
	}
}

func (r *repairer) statistics(v any) Statistics {
	m, ok := v.(map[string]any)
	if !ok {
		r.fixes++
	}
	return Statistics{
		Sessions:        r.intField(m, "sessions", 0),
		FocusMinutes:    r.num(m, "focusMinutes", 0),
		CurrentStreak:   r.intField(m, "currentStreak", 0),
		BestStreak:      r.intField(m, "bestStreak", 0),
		BossesDefeated:  r.intField(m, "bossesDefeated", 0),
		TotalExperience: r.num(m, "totalExperience", 0),
		TotalCurrency:   r.num(m, "totalCurrency", 0),
		LastSessionAt:   r.timeField(m, "lastSessionAt", time.Time{}),
	}
}

// Field pickers: each is a typed predicate + default pair. A lookup in a nil
// map misses, so a wholesale-defaulted parent record repairs every child.

func (r *repairer) str(m map[string]any, key, def string) string {
	v, ok := m[key].(string)
	if !ok {
		r.fixes++
		return def
	}
	return v
}

// num matches any JSON number.
func (r *repairer) num(m map[string]any, key string, def float64) float64 {
	v, ok := m[key].(float64)
	if !ok {
		r.fixes++
		return def
	}
	return v
}

// intField matches any JSON number and truncates the fraction.
func (r *repairer) intField(m map[string]any, key string, def int) int {
	v, ok := m[key].(float64)
	if !ok {
		r.fixes++
		return def
	}
	return int(v)
}

func (r *repairer) boolField(m map[string]any, key string, def bool) bool {
	v, ok := m[key].(bool)
	if !ok {
		r.fixes++
		return def
	}
	return v
}

// timeField accepts an RFC 3339 string or an epoch-millisecond number (the
// original extension stored Date.now() values).
func (r *repairer) timeField(m map[string]any, key string, def time.Time) time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	case float64:
		return time.UnixMilli(int64(v)).UTC()
	}
	r.fixes++
	return def
}

func (r *repairer) strings(m map[string]any, key string, def []string) []string {
	arr, ok := m[key].([]any)
	if !ok {
		r.fixes++
		return cloneStrings(def)
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			r.fixes++
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *repairer) ints(m map[string]any, key string, def []int) []int {
	arr, ok := m[key].([]any)
	if !ok {
		r.fixes++
		return cloneInts(def)
	}
	out := make([]int, 0, len(arr))
	for _, e := range arr {
		n, ok := e.(float64)
		if !ok {
			r.fixes++
			continue
		}
		out = append(out, int(n))
	}
	return out
}
