// candyrush is a match-3 puzzle game for the terminal.
//
// Usage:
//
//	candyrush menu            - Pick a mode interactively
//	candyrush play [game]     - Play a game directly (candy, candy_endless)
//	candyrush serve           - Host the game and online versus over SSH
//	candyrush scores [game]   - Show high scores
//	candyrush levels          - List campaign levels
//	candyrush list            - List available games
//
// Global flags:
//
//	--fps <rate>          - Tick rate (default: 30)
//	--seed <value>        - RNG seed for reproducible boards
//	--db <path>           - Scores database (default: ~/.candyrush/scores.db)
//	--config <path>       - Game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--levels <dir>        - Load campaign levels from a directory
//	--mute                - Disable the terminal bell
//	--debug               - Verbose logging
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/games/candy/levels"
	"github.com/nikniq/nq-candyrush/internal/storage"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagMute       bool
	flagDebug      bool
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "candyrush",
	Short: "Candy Rush - match three in your terminal",
	Long: `Candy Rush is a match-3 puzzle game for the terminal.

Swap two neighbouring candies to line up three or more of a kind.
Matches clear, candies fall, and new ones drop in from the top.

Examples:
  candyrush menu
  candyrush play candy --level 03-candy-cascade
  candyrush play candy_endless --difficulty hard
  candyrush serve --ssh :2222
  candyrush scores candy`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.candyrush/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLevelsDir, "levels", "", "Directory with campaign level files")
	pf.BoolVar(&flagMute, "mute", false, "Disable the terminal bell")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
}

// newLogger creates the process logger. Interactive commands log only
// warnings unless --debug or --log-file is given.
func newLogger(interactive bool) (*log.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	} else if interactive && !flagDebug {
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "candyrush",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)
	return logger, closer, nil
}

// loadSettings reads the game config, applies --difficulty and --levels,
// and installs both as the candy package defaults.
func loadSettings() (config.CandyConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	candy.SetConfig(cfg)

	if flagLevelsDir != "" {
		list, err := levels.NewLoader(flagLevelsDir).LoadAll()
		if err != nil {
			return cfg, fmt.Errorf("load levels: %w", err)
		}
		if len(list) == 0 {
			return cfg, fmt.Errorf("no valid levels in %s", flagLevelsDir)
		}
		candy.SetLevels(list)
	}
	return cfg, nil
}

// runtimeConfig sizes the game to the local terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database; play continues without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores disabled", "db", flagDBPath, "err", err)
		return nil
	}
	return store
}
