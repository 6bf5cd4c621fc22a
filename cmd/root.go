package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Companion - episode question answering for the daily research digest",
	Long: `Companion answers natural language questions about episodes of the daily
research-paper digest.

It retrieves episode chunks with a fused dense + lexical search, generates a
persona-flavored answer with inline paper citations, and verifies the result
with an independent critic pass before returning it.`,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
