package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config bundles the formula table and storage settings consumed by the core.
type Config struct {
	Formulas Formulas `yaml:"formulas" json:"formulas"`
	Storage  Storage  `yaml:"storage" json:"storage"`
}

// Formulas holds the numeric progression constants. The engine and reward
// calculator read these and never mutate them.
type Formulas struct {
	// Leveling curve: threshold(level) = floor(BaseXP * level^LevelExponent)
	BaseXP        float64 `yaml:"base_xp" json:"base_xp" env:"FOCUSQUEST_BASE_XP"`
	LevelExponent float64 `yaml:"level_exponent" json:"level_exponent" env:"FOCUSQUEST_LEVEL_EXPONENT"`

	// Skill points granted per level gained
	SkillPointsPerLevel int `yaml:"skill_points_per_level" json:"skill_points_per_level" env:"FOCUSQUEST_SKILL_POINTS_PER_LEVEL"`

	// Session rewards per effective focused minute
	ExpMultiplier      float64 `yaml:"exp_multiplier" json:"exp_multiplier" env:"FOCUSQUEST_EXP_MULTIPLIER"`
	CurrencyMultiplier float64 `yaml:"currency_multiplier" json:"currency_multiplier" env:"FOCUSQUEST_CURRENCY_MULTIPLIER"`
	ExpStatBonus       float64 `yaml:"exp_stat_bonus" json:"exp_stat_bonus" env:"FOCUSQUEST_EXP_STAT_BONUS"`
	CurrencyStatBonus  float64 `yaml:"currency_stat_bonus" json:"currency_stat_bonus" env:"FOCUSQUEST_CURRENCY_STAT_BONUS"`

	// Reward adjustments
	CriticalMultiplier float64 `yaml:"critical_multiplier" json:"critical_multiplier" env:"FOCUSQUEST_CRITICAL_MULTIPLIER"`
	CompromisePenalty  float64 `yaml:"compromise_penalty" json:"compromise_penalty" env:"FOCUSQUEST_COMPROMISE_PENALTY"`

	// Boss combat
	BossDamageMultiplier float64 `yaml:"boss_damage_multiplier" json:"boss_damage_multiplier" env:"FOCUSQUEST_BOSS_DAMAGE_MULTIPLIER"`

	// Passive income accrues for at most this many hours between collections
	PassiveAccrualCapHours float64 `yaml:"passive_accrual_cap_hours" json:"passive_accrual_cap_hours" env:"FOCUSQUEST_PASSIVE_ACCRUAL_CAP_HOURS"`
}

// Storage holds settings for the persistence layer.
type Storage struct {
	DataDir        string        `yaml:"data_dir" json:"data_dir" env:"FOCUSQUEST_DATA_DIR"`
	StateKey       string        `yaml:"state_key" json:"state_key" env:"FOCUSQUEST_STATE_KEY"`
	MaxAttempts    int           `yaml:"max_attempts" json:"max_attempts" env:"FOCUSQUEST_MAX_ATTEMPTS"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" json:"retry_base_delay" env:"FOCUSQUEST_RETRY_BASE_DELAY"`
}

// Default returns the reference tuning.
func Default() Config {
	return Config{
		Formulas: Formulas{
			BaseXP:                 100,
			LevelExponent:          1.5,
			SkillPointsPerLevel:    1,
			ExpMultiplier:          10,
			CurrencyMultiplier:     5,
			ExpStatBonus:           0.1,
			CurrencyStatBonus:      0.1,
			CriticalMultiplier:     1.5,
			CompromisePenalty:      0.7,
			BossDamageMultiplier:   2,
			PassiveAccrualCapHours: 8,
		},
		Storage: Storage{
			DataDir:        "data",
			StateKey:       "focusquest_state",
			MaxAttempts:    3,
			RetryBaseDelay: 100 * time.Millisecond,
		},
	}
}

// Casual returns a gentler tuning for casual players.
func Casual() Config {
	cfg := Default()
	cfg.Formulas.ExpMultiplier = 14
	cfg.Formulas.CurrencyMultiplier = 7
	cfg.Formulas.CompromisePenalty = 0.85
	cfg.Formulas.PassiveAccrualCapHours = 12
	return cfg
}

// Hard returns a stingier tuning for experienced players.
func Hard() Config {
	cfg := Default()
	cfg.Formulas.ExpMultiplier = 7
	cfg.Formulas.CurrencyMultiplier = 3.5
	cfg.Formulas.CompromisePenalty = 0.5
	cfg.Formulas.PassiveAccrualCapHours = 4
	return cfg
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}
