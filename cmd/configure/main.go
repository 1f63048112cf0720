package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dayplanhq/dayplan/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "dayplan-configure",
		Short: "Admin tool for the Dayplan API",
		Long:  "CLI tool for inspecting user data, clearing session slots, and checking dependencies",
	}

	rootCmd.AddCommand(commands.NewInspectCmd())
	rootCmd.AddCommand(commands.NewClearSessionCmd())
	rootCmd.AddCommand(commands.NewPingCmd())
	rootCmd.AddCommand(commands.NewTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
