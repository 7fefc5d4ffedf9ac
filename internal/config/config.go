// Package config loads the Candy Rush game configuration from YAML and
// applies difficulty presets.
package config

import (
	"errors"
	"fmt"

	"github.com/nikniq/nq-candyrush/internal/match3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// CandyConfig is the full game configuration.
type CandyConfig struct {
	Board      CandyBoard       `yaml:"board"`
	Scoring    CandyScoring     `yaml:"scoring"`
	Pacing     CandyPacing      `yaml:"pacing"`
	Versus     CandyVersus      `yaml:"versus"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
}

// CandyBoard sets the board geometry.
type CandyBoard struct {
	Width   int `yaml:"width"`
	Symbols int `yaml:"symbols"`
}

// CandyScoring sets how clears are scored.
type CandyScoring struct {
	PointsPerTile int    `yaml:"points_per_tile"`
	CascadeBonus  bool   `yaml:"cascade_bonus"`
	Policy        string `yaml:"policy"` // "maximal" or "windows"
}

// CandyPacing sets how long each resolution stage stays on screen.
type CandyPacing struct {
	ClearMS   int `yaml:"clear_ms"`   // matched tiles flash before removal
	CascadeMS int `yaml:"cascade_ms"` // pause after refill before the next check
	RejectMS  int `yaml:"reject_ms"`  // a rejected swap is shown before reverting
	PassiveMS int `yaml:"passive_ms"` // interval of the idle board check
}

// CandyVersus configures online matches.
type CandyVersus struct {
	DurationSeconds int `yaml:"duration_seconds"`
}

// DefaultCandyConfig returns the built-in configuration.
func DefaultCandyConfig() CandyConfig {
	return CandyConfig{
		Board: CandyBoard{
			Width:   8,
			Symbols: 6,
		},
		Scoring: CandyScoring{
			PointsPerTile: 10,
			Policy:        "maximal",
		},
		Pacing: CandyPacing{
			ClearMS:   380,
			CascadeMS: 160,
			RejectMS:  180,
			PassiveMS: 400,
		},
		Versus: CandyVersus{
			DurationSeconds: 120,
		},
		Difficulty: DifficultyNormal,
	}
}

// Validate reports the first malformed value.
func (c CandyConfig) Validate() error {
	if c.Board.Width < match3.MinRun || c.Board.Width > 16 {
		return fmt.Errorf("config: board.width %d out of range 3..16: %w", c.Board.Width, ErrInvalid)
	}
	if c.Board.Symbols < 2 || c.Board.Symbols > len(SymbolGlyphs) {
		return fmt.Errorf("config: board.symbols %d out of range 2..%d: %w", c.Board.Symbols, len(SymbolGlyphs), ErrInvalid)
	}
	if c.Scoring.PointsPerTile < 0 {
		return fmt.Errorf("config: scoring.points_per_tile is negative: %w", ErrInvalid)
	}
	if _, err := match3.ParsePolicy(c.Scoring.Policy); err != nil {
		return fmt.Errorf("config: scoring.policy: %w", errors.Join(ErrInvalid, err))
	}
	for name, ms := range map[string]int{
		"clear_ms":   c.Pacing.ClearMS,
		"cascade_ms": c.Pacing.CascadeMS,
		"reject_ms":  c.Pacing.RejectMS,
		"passive_ms": c.Pacing.PassiveMS,
	} {
		if ms < 0 {
			return fmt.Errorf("config: pacing.%s is negative: %w", name, ErrInvalid)
		}
	}
	if c.Versus.DurationSeconds <= 0 {
		return fmt.Errorf("config: versus.duration_seconds must be positive: %w", ErrInvalid)
	}
	return nil
}

// Engine converts the configuration into engine parameters.
func (c CandyConfig) Engine(seed int64) (match3.Config, error) {
	policy, err := match3.ParsePolicy(c.Scoring.Policy)
	if err != nil {
		return match3.Config{}, fmt.Errorf("config: %w", err)
	}
	return match3.Config{
		Width:         c.Board.Width,
		Symbols:       c.Board.Symbols,
		PointsPerTile: c.Scoring.PointsPerTile,
		Policy:        policy,
		CascadeBonus:  c.Scoring.CascadeBonus,
		Seed:          seed,
	}, nil
}

// Ticks converts a duration in milliseconds to whole ticks, rounding up.
// Any positive duration lasts at least one tick.
func Ticks(ms, tickRate int) int {
	if ms <= 0 || tickRate <= 0 {
		return 0
	}
	return (ms*tickRate + 999) / 1000
}

// SymbolGlyphs are the candies drawn for symbols 1..n.
var SymbolGlyphs = []string{"●", "▲", "■", "◆", "★", "♥", "♣", "✚"}

// DifficultyPreset is a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	// DifficultyFixed keeps the board settings from the config file.
	DifficultyFixed DifficultyPreset = "fixed"
)

// Presets lists the selectable presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset parses a preset name.
func ParsePreset(s string) (DifficultyPreset, error) {
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q: %w", s, ErrInvalid)
}

// SymbolsForPreset returns the alphabet size of a preset, 0 for fixed.
// More symbols make matches rarer.
func SymbolsForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 5
	case DifficultyNormal:
		return 6
	case DifficultyHard:
		return 7
	}
	return 0
}

// ApplyPreset adjusts cfg for a difficulty preset.
func ApplyPreset(cfg *CandyConfig, preset DifficultyPreset) {
	cfg.Difficulty = preset
	if n := SymbolsForPreset(preset); n > 0 {
		cfg.Board.Symbols = n
	}
	if preset == DifficultyHard {
		cfg.Scoring.CascadeBonus = false
	}
	if preset == DifficultyEasy {
		cfg.Scoring.CascadeBonus = true
	}
}
