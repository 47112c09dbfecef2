// Package commands implements the intentctl subcommands.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/centroid"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/cli"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/config"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/embedding"
)

// loadConfig reads the config file from the --config flag, falling back to
// the tuned defaults when the file does not exist. --corpus overrides the
// corpus path either way.
func loadConfig(cmd *cobra.Command) (*config.RouterConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")
	corpusPath, _ := cmd.Flags().GetString("corpus")

	var cfg *config.RouterConfig
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Parse(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if corpusPath != "" {
		cfg.CorpusPath = corpusPath
	}
	return cfg, nil
}

// buildRouter constructs the router from the resolved config.
func buildRouter(ctx context.Context, cmd *cobra.Command) (*centroid.Router, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	embedder := embedding.NewOpenAIEmbedder(cfg.Embedding.Endpoint, cfg.Embedding.APIKey(), cfg.Embedding.Model)

	router, err := centroid.NewRouter(ctx, cfg, embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to build centroid router: %w", err)
	}
	return router, nil
}

// printStructured renders v as JSON or YAML for the --output flag. It
// returns false when the format is "table" so callers render their own.
func printStructured(cmd *cobra.Command, v interface{}) (bool, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "json":
		return true, cli.PrintJSON(v)
	case "yaml":
		return true, cli.PrintYAML(v)
	case "table", "":
		return false, nil
	default:
		return true, fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
	}
}
