package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/cmd/intentctl/commands"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/cli"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	if _, err := logging.InitLoggerFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
	}
	if !cli.IsTerminal() {
		color.NoColor = true
	}

	rootCmd := &cobra.Command{
		Use:   "intentctl",
		Short: "Botlive intent router control CLI",
		Long: `intentctl drives the centroid intent router offline: it measures
classification accuracy over the labeled corpus, extracts the most
confidently wrong predictions, and routes single messages for inspection.

Common workflows:
  intentctl validate                 # Corpus accuracy, global and per intent
  intentctl errors --top 10          # Most confident misclassifications
  intentctl route "c'est combien ?"  # Route one message with top-k breakdown`,
		Version: fmt.Sprintf("%s (commit: %s)", version, gitCommit),
	}

	rootCmd.PersistentFlags().StringP("config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().String("corpus", "", "Override the corpus path from the config")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format: table, json, yaml")

	rootCmd.AddCommand(commands.NewValidateCmd())
	rootCmd.AddCommand(commands.NewErrorsCmd())
	rootCmd.AddCommand(commands.NewRouteCmd())

	if err := rootCmd.Execute(); err != nil {
		cli.Error("%v", err)
		os.Exit(1)
	}
}
