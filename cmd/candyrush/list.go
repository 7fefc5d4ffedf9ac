package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows the registered games and the online versus mode.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	maxIDLen := len(candy.VersusID)
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Println("Available games:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, candy.VersusID, "Candy Rush Versus (online, via 'candyrush serve')")

	fmt.Println()
	fmt.Println("Run 'candyrush play <id>' to play a game.")
}
