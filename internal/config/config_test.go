package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("parse(embedded) failed: %v", err)
	}
	if cfg != DefaultCandyConfig() {
		t.Errorf("embedded default differs from DefaultCandyConfig:\n%+v\n%+v", cfg, DefaultCandyConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candy.yaml")
	data := []byte("board:\n  width: 6\n  symbols: 4\nscoring:\n  policy: windows\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Board.Width != 6 || cfg.Board.Symbols != 4 {
		t.Errorf("board = %+v, expected 6x6 with 4 symbols", cfg.Board)
	}
	if cfg.Scoring.PointsPerTile != 10 {
		t.Errorf("unset fields should keep defaults, got points_per_tile=%d", cfg.Scoring.PointsPerTile)
	}

	eng, err := cfg.Engine(7)
	if err != nil {
		t.Fatalf("Engine() failed: %v", err)
	}
	if eng.Width != 6 || eng.Seed != 7 || eng.Policy.String() != "windows" {
		t.Errorf("Engine() = %+v", eng)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board:\n  width: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() of width 2 = %v, expected ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CandyConfig)
	}{
		{"narrow board", func(c *CandyConfig) { c.Board.Width = 2 }},
		{"one symbol", func(c *CandyConfig) { c.Board.Symbols = 1 }},
		{"too many symbols", func(c *CandyConfig) { c.Board.Symbols = 40 }},
		{"negative points", func(c *CandyConfig) { c.Scoring.PointsPerTile = -5 }},
		{"unknown policy", func(c *CandyConfig) { c.Scoring.Policy = "diagonal" }},
		{"negative pacing", func(c *CandyConfig) { c.Pacing.ClearMS = -1 }},
		{"zero versus duration", func(c *CandyConfig) { c.Versus.DurationSeconds = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultCandyConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		symbols int
	}{
		{DifficultyEasy, 5},
		{DifficultyNormal, 6},
		{DifficultyHard, 7},
		{DifficultyFixed, 4},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultCandyConfig()
			cfg.Board.Symbols = 4
			ApplyPreset(&cfg, tc.preset)
			if cfg.Board.Symbols != tc.symbols {
				t.Errorf("symbols = %d, expected %d", cfg.Board.Symbols, tc.symbols)
			}
			if cfg.Difficulty != tc.preset {
				t.Errorf("difficulty = %q", cfg.Difficulty)
			}
		})
	}

	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset(nightmare) should fail")
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		ms, rate, expected int
	}{
		{380, 30, 12},
		{160, 30, 5},
		{180, 30, 6},
		{400, 30, 12},
		{1, 30, 1},
		{0, 30, 0},
	}
	for _, tc := range tests {
		if got := Ticks(tc.ms, tc.rate); got != tc.expected {
			t.Errorf("Ticks(%d, %d) = %d, expected %d", tc.ms, tc.rate, got, tc.expected)
		}
	}
}
