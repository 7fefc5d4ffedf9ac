package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/platform/tui"
	"github.com/nikniq/nq-candyrush/internal/registry"
)

var flagLevel string

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game (default: candy).

Games:
  candy          - Campaign: reach each level's goal within its move limit
  candy_endless  - Endless: play until no move is left

Controls:
  Arrows/WASD    - Move cursor
  Space/Enter    - Select candy, select a neighbour to swap
  H              - Hint
  P              - Pause
  R              - Restart (after game over)
  B/Esc          - Back (when paused or over)
  Ctrl+S         - Save screenshot
  Q/Ctrl+C       - Quit

Examples:
  candyrush play
  candyrush play candy --level 02-sugar-rush
  candyrush play candy_endless --difficulty hard --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Campaign level id to start from")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "candy"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'candyrush list' to see available games.")
		os.Exit(1)
	}

	logger, closer, err := newLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if _, err := loadSettings(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	if flagLevel != "" {
		g, ok := game.(*candy.Game)
		if !ok || gameID != "candy" {
			fmt.Fprintln(os.Stderr, "Error: --level only applies to the campaign")
			os.Exit(1)
		}
		if !hasLevel(flagLevel) {
			fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", flagLevel)
			fmt.Fprintln(os.Stderr, "Run 'candyrush levels' to see the campaign.")
			os.Exit(1)
		}
		g.Configure(nil, flagLevel)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	opts := tui.Options{
		Cues:   tui.NewCueSink(os.Stdout, flagMute, logger),
		Logger: logger,
	}
	if _, err := tui.Run(game, store, runtimeConfig(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func hasLevel(id string) bool {
	for _, lvl := range candy.CampaignLevels() {
		if lvl.ID == id {
			return true
		}
	}
	return false
}
