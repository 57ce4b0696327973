// Package main provides the entry point for the accessibility analyzer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "a11y_agent",
	Short: "Markup accessibility compliance analyzer",
	Long: "a11y_agent scans HTML for common accessibility problems, scores it from 0 to 100 " +
		"and explains each finding with a suggested fix. Run it once from the command line or as an HTTP API.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
