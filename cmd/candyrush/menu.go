package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikniq/nq-candyrush/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the interactive menu",
	Long: `Start Candy Rush in interactive menu mode.

Pick campaign or endless play, a start level and a difficulty.
After a game you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate
  Left/Right   - Change difficulty
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  candyrush menu
  candyrush menu --fps 60
  candyrush menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closer, err := newLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	base, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	cues := tui.NewCueSink(os.Stdout, flagMute, logger)

	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = result.Config
		if result.Quit {
			return
		}

		switch result.Item.Kind {
		case tui.MenuItemScores:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if !goBack {
				return
			}

		case tui.MenuItemGame:
			sel, quit, err := tui.RunCandyModeSelector(cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if quit {
				return
			}
			if sel == nil {
				continue
			}

			game, err := sel.NewGame(base)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
				return
			}
			runCfg := cfg
			if runCfg.Seed == 0 {
				runCfg.Seed = time.Now().UnixNano()
			}
			back, err := tui.Run(game, store, runCfg, tui.Options{Cues: cues, Logger: logger})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if !back {
				return
			}
		}
	}
}
