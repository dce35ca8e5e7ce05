package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_IsDeep(t *testing.T) {
	orig := DefaultState(100)
	orig.Session = &Session{Duration: 25, TaskID: "t1"}
	orig.Player.OwnedCosmetics = []string{"hat"}
	orig.Progression.DefeatedBosses = []int{0, 1}
	orig.Tasks = map[string]json.RawMessage{"t1": json.RawMessage(`{"a":1}`)}

	cp := orig.Clone()
	cp.Session.TaskID = "changed"
	cp.Player.OwnedCosmetics[0] = "crown"
	cp.Progression.DefeatedBosses[0] = 9
	cp.Tasks["t1"] = json.RawMessage(`{"a":2}`)
	cp.Tasks["t2"] = json.RawMessage(`{}`)

	assert.Equal(t, "t1", orig.Session.TaskID)
	assert.Equal(t, []string{"hat"}, orig.Player.OwnedCosmetics)
	assert.Equal(t, []int{0, 1}, orig.Progression.DefeatedBosses)
	assert.JSONEq(t, `{"a":1}`, string(orig.Tasks["t1"]))
	assert.NotContains(t, orig.Tasks, "t2")
}

func TestDefaultState_SerializesComplete(t *testing.T) {
	st := DefaultState(100)
	b, err := json.Marshal(st)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"id", "player", "session", "break", "progression", "tasks", "settings", "statistics"} {
		assert.Contains(t, m, key)
	}
}

func TestStatistics_RecordSession(t *testing.T) {
	day1 := time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)

	var s Statistics
	s = s.RecordSession(day1, 25, 300.125, 137.5)
	assert.Equal(t, 1, s.Sessions)
	assert.Equal(t, 25.0, s.FocusMinutes)
	assert.Equal(t, 300.13, s.TotalExperience, "totals rounded to two decimals")
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.BestStreak)

	t.Run("same day keeps streak", func(t *testing.T) {
		out := s.RecordSession(day1.Add(3*time.Hour), 25, 10, 10)
		assert.Equal(t, 1, out.CurrentStreak)
		assert.Equal(t, 2, out.Sessions)
	})

	t.Run("next day extends streak", func(t *testing.T) {
		out := s.RecordSession(day1.AddDate(0, 0, 1), 25, 10, 10)
		assert.Equal(t, 2, out.CurrentStreak)
		assert.Equal(t, 2, out.BestStreak)
	})

	t.Run("gap resets streak but keeps best", func(t *testing.T) {
		out := s.RecordSession(day1.AddDate(0, 0, 1), 25, 10, 10)
		out = out.RecordSession(day1.AddDate(0, 0, 5), 25, 10, 10)
		assert.Equal(t, 1, out.CurrentStreak)
		assert.Equal(t, 2, out.BestStreak)
	})
}

func TestStatistics_RecordBossDefeat(t *testing.T) {
	var s Statistics
	s = s.RecordBossDefeat().RecordBossDefeat()
	assert.Equal(t, 2, s.BossesDefeated)
}
