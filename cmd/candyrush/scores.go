package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikniq/nq-candyrush/internal/registry"
	"github.com/nikniq/nq-candyrush/internal/storage"
)

var (
	flagScoresLevel string
	flagScoresLimit int
	flagClear       bool
	flagMatches     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top scores for a game (default: candy).

Examples:
  candyrush scores
  candyrush scores candy_endless
  candyrush scores candy --level 02-sugar-rush
  candyrush scores --matches
  candyrush scores candy --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresLevel, "level", "", "Only runs that ended on this campaign level")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores of the game")
	scoresCmd.Flags().BoolVar(&flagMatches, "matches", false, "Show recent online versus results")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := "candy"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !flagMatches && !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'candyrush list' to see available games.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagMatches:
		err = printMatches(store)
	case flagClear:
		if err = store.ClearScores(gameID); err == nil {
			fmt.Printf("Cleared scores of %s\n", gameID)
		}
	default:
		err = printRuns(store, gameID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printRuns(store *storage.Store, gameID string) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	var runs []storage.Run
	if flagScoresLevel != "" {
		runs, err = store.LevelScores(gameID, flagScoresLevel, flagScoresLimit)
	} else {
		runs, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n\n", game.Title())
	if len(runs) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'candyrush play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-18s  %-5s  %-5s  %s\n", "Rank", "Score", "Level", "Moves", "Chain", "Date")
	fmt.Printf("  %-4s  %-8s  %-18s  %-5s  %-5s  %s\n", "----", "-----", "-----", "-----", "-----", "----")
	for i, r := range runs {
		level := r.Level
		if level == "" {
			level = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-18s  %-5d  x%-4d  %s\n",
			i+1, r.Score, level, r.Moves, r.BestChain, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if st, err := store.GetGameStats(gameID); err == nil && st != nil && st.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  |  Games: %d  |  Average: %.0f  |  Longest chain: x%d\n",
			st.HighScore, st.GamesCount, st.AvgScore, st.BestChain)
	}
	return nil
}

func printMatches(store *storage.Store) error {
	matches, err := store.RecentOnlineMatches(flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Recent Versus Matches\n\n")
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		return nil
	}

	fmt.Printf("  %-8s  %-9s  %-11s  %-5s  %s\n", "Match", "Score", "End", "Time", "Date")
	fmt.Printf("  %-8s  %-9s  %-11s  %-5s  %s\n", "-----", "-----", "---", "----", "----")
	for _, m := range matches {
		short := m.MatchID
		if len(short) > 8 {
			short = short[:8]
		}
		fmt.Printf("  %-8s  %4d-%-4d  %-11s  %2d:%02d  %s\n",
			short, m.Score1, m.Score2, m.EndReason, m.Duration/60, m.Duration%60,
			m.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
