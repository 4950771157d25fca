package main

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fatori-v/fi-controller/internal/area"
	"github.com/fatori-v/fi-controller/internal/profile"
)

// #endregion

// #region profiles

func runProfiles(cmd *cobra.Command, args []string) {
	fmt.Println("Area profiles:")
	for _, name := range area.Names() {
		fmt.Printf("  %-12s %s\n", name, area.Describe(name))
	}
	fmt.Println()
	fmt.Println("Time profiles:")
	for _, name := range profile.Names() {
		fmt.Printf("  %-12s %s\n", name, profile.Describe(name))
	}
}

// #endregion
