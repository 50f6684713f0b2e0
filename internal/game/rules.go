package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRules wraps every rules validation failure.
var ErrInvalidRules = errors.New("invalid rules")

// HealthFormula computes opponent health as Base + PerLevel*level.
type HealthFormula struct {
	Base     int `yaml:"base" json:"base"`
	PerLevel int `yaml:"per_level" json:"per_level"`
}

// At evaluates the formula for a level.
func (f HealthFormula) At(level int) int {
	return f.Base + f.PerLevel*level
}

// Rules holds the numeric tuning of a game. Values are data, not logic.
type Rules struct {
	BoardSize          int `yaml:"board_size" json:"board_size"`
	MaxSeeds           int `yaml:"max_seeds" json:"max_seeds"`
	MaxHand            int `yaml:"max_hand" json:"max_hand"`
	StartingHealth     int `yaml:"starting_health" json:"starting_health"`
	StartingSeeds      int `yaml:"starting_seeds" json:"starting_seeds"`
	StartingHandSize   int `yaml:"starting_hand_size" json:"starting_hand_size"`
	MenuOpponentHealth int `yaml:"menu_opponent_health" json:"menu_opponent_health"`

	SeedIncome     int `yaml:"seed_income" json:"seed_income"`
	DeathSeedBonus int `yaml:"death_seed_bonus" json:"death_seed_bonus"`

	TrapDamage      int `yaml:"trap_damage" json:"trap_damage"`
	AuraHealthBonus int `yaml:"aura_health_bonus" json:"aura_health_bonus"`

	ObstacleChanceFirstLevel float64 `yaml:"obstacle_chance_first_level" json:"obstacle_chance_first_level"`
	ObstacleChance           float64 `yaml:"obstacle_chance" json:"obstacle_chance"`
	SpawnChanceBase          float64 `yaml:"spawn_chance_base" json:"spawn_chance_base"`
	SpawnChancePerLevel      float64 `yaml:"spawn_chance_per_level" json:"spawn_chance_per_level"`
	SpawnChanceBoss          float64 `yaml:"spawn_chance_boss" json:"spawn_chance_boss"`
	SpawnChanceMax           float64 `yaml:"spawn_chance_max" json:"spawn_chance_max"`
	SpawnCostCap             int     `yaml:"spawn_cost_cap" json:"spawn_cost_cap"`
	DrawCostCap              int     `yaml:"draw_cost_cap" json:"draw_cost_cap"`

	BossEvery      int           `yaml:"boss_every" json:"boss_every"`
	OpponentHealth HealthFormula `yaml:"opponent_health" json:"opponent_health"`
	BossHealth     HealthFormula `yaml:"boss_health" json:"boss_health"`

	MaxSacrificeRefund int `yaml:"max_sacrifice_refund" json:"max_sacrifice_refund"`
}

// DefaultRules returns the standard tuning.
func DefaultRules() Rules {
	return Rules{
		BoardSize:          4,
		MaxSeeds:           10,
		MaxHand:            5,
		StartingHealth:     12,
		StartingSeeds:      1,
		StartingHandSize:   3,
		MenuOpponentHealth: 6,

		SeedIncome:     1,
		DeathSeedBonus: 2,

		TrapDamage:      3,
		AuraHealthBonus: 2,

		ObstacleChanceFirstLevel: 0.3,
		ObstacleChance:           0.15,
		SpawnChanceBase:          0.4,
		SpawnChancePerLevel:      0.1,
		SpawnChanceBoss:          0.3,
		SpawnChanceMax:           0.95,
		SpawnCostCap:             5,
		DrawCostCap:              5,

		BossEvery:      5,
		OpponentHealth: HealthFormula{Base: 5, PerLevel: 4},
		BossHealth:     HealthFormula{Base: 10, PerLevel: 8},

		MaxSacrificeRefund: 3,
	}
}

// LoadRules reads YAML rules from path, overlaid on DefaultRules.
// An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	r := DefaultRules()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse rules YAML %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return r, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Validate rejects tunings the engine cannot run with.
func (r Rules) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"board_size", r.BoardSize},
		{"max_seeds", r.MaxSeeds},
		{"max_hand", r.MaxHand},
		{"starting_health", r.StartingHealth},
		{"boss_every", r.BossEvery},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidRules, p.name, p.value)
		}
	}
	nonNegative := []struct {
		name  string
		value int
	}{
		{"starting_seeds", r.StartingSeeds},
		{"starting_hand_size", r.StartingHandSize},
		{"seed_income", r.SeedIncome},
		{"death_seed_bonus", r.DeathSeedBonus},
		{"trap_damage", r.TrapDamage},
		{"aura_health_bonus", r.AuraHealthBonus},
		{"spawn_cost_cap", r.SpawnCostCap},
		{"draw_cost_cap", r.DrawCostCap},
		{"max_sacrifice_refund", r.MaxSacrificeRefund},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidRules, p.name, p.value)
		}
	}
	if r.StartingSeeds > r.MaxSeeds {
		return fmt.Errorf("%w: starting_seeds %d exceeds max_seeds %d", ErrInvalidRules, r.StartingSeeds, r.MaxSeeds)
	}
	if r.StartingHandSize > r.MaxHand {
		return fmt.Errorf("%w: starting_hand_size %d exceeds max_hand %d", ErrInvalidRules, r.StartingHandSize, r.MaxHand)
	}
	for name, p := range map[string]float64{
		"obstacle_chance_first_level": r.ObstacleChanceFirstLevel,
		"obstacle_chance":             r.ObstacleChance,
		"spawn_chance_base":           r.SpawnChanceBase,
		"spawn_chance_boss":           r.SpawnChanceBoss,
		"spawn_chance_max":            r.SpawnChanceMax,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %g", ErrInvalidRules, name, p)
		}
	}
	return nil
}

// IsBossLevel reports whether level is a boss level.
func (r Rules) IsBossLevel(level int) bool {
	return level > 0 && level%r.BossEvery == 0
}

// OpponentHealthAt returns the opponent's starting health for a level.
func (r Rules) OpponentHealthAt(level int) int {
	if r.IsBossLevel(level) {
		return r.BossHealth.At(level)
	}
	return r.OpponentHealth.At(level)
}

// ObstacleChanceAt returns the per-slot obstacle probability for a level.
func (r Rules) ObstacleChanceAt(level int) float64 {
	if level <= 1 {
		return r.ObstacleChanceFirstLevel
	}
	return r.ObstacleChance
}

// SpawnChanceAt returns the monster spawn probability for a level.
func (r Rules) SpawnChanceAt(level int) float64 {
	if r.IsBossLevel(level) {
		return r.SpawnChanceBoss
	}
	return min(r.SpawnChanceMax, r.SpawnChanceBase+r.SpawnChancePerLevel*float64(level))
}

// SpawnCostCapAt returns the highest cost the warden may spawn on a level.
func (r Rules) SpawnCostCapAt(level int) int {
	return min(r.SpawnCostCap, level/2+1)
}

// DrawCostCapAt returns the highest cost the wanderer may draw.
func (r Rules) DrawCostCapAt(turn, level int) int {
	return min(r.DrawCostCap, turn+level)
}

// SacrificeRefund returns the seeds gained by sacrificing a card of the given cost.
func (r Rules) SacrificeRefund(cost int) int {
	refund := 1
	switch {
	case cost >= 3:
		refund = 3
	case cost >= 2:
		refund = 2
	}
	return min(refund, r.MaxSacrificeRefund)
}
