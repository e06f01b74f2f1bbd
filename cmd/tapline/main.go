// Package main provides the entry point for the Tapline content engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tapline",
	Short: "Tapline compliant content engine",
	Long:  "Tapline generates short, policy-clean social media posts for UK hospitality venues: one model call per request, deterministic normalization, and a zero-tolerance lint pass on the result.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
