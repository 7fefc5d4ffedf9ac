package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikniq/nq-candyrush/internal/games/candy/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List campaign levels",
	Long: `List the levels of the campaign.

The builtin pack is listed unless --levels points at a directory of
level YAML files. Invalid files in a directory are skipped.

Examples:
  candyrush levels
  candyrush levels --levels ./my-levels`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	loader := levels.Builtin()
	if flagLevelsDir != "" {
		loader = levels.NewLoader(flagLevelsDir)
	}

	list, err := loader.LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Println("No levels found.")
		return
	}

	fmt.Printf("  %-18s  %-16s  %-5s  %-7s  %-6s  %-5s  %s\n", "ID", "Name", "Size", "Symbols", "Goal", "Moves", "Board")
	fmt.Printf("  %-18s  %-16s  %-5s  %-7s  %-6s  %-5s  %s\n", "--", "----", "----", "-------", "----", "-----", "-----")
	for _, lvl := range list {
		moves := "-"
		if lvl.Moves > 0 {
			moves = fmt.Sprint(lvl.Moves)
		}
		board := "random"
		if lvl.HasBoard() {
			board = "fixed"
		}
		fmt.Printf("  %-18s  %-16s  %dx%-3d  %-7d  %-6d  %-5s  %s\n",
			lvl.ID, lvl.Name, lvl.Width, lvl.Width, lvl.Symbols, lvl.Target, moves, board)
	}
}
