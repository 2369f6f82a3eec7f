// Package main provides the resume-wizard command line entry point: the HTTP
// API server plus an interactive terminal wizard that drives it.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "resume_wizard",
	Short: "Resume Wizard",
	Long:  "Resume Wizard collects resume data through a guided multi-step editor, tailors it to a target job posting with AI assistance, and renders the arranged result as a preview document.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the command logger. Verbose commands get development
// output; everything else stays quiet so prompts are readable.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
