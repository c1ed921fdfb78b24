// Package main provides the docsight command line: PDF outlines, persona analysis and the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/config"
	"github.com/jonathan/docsight/internal/logger"
)

var (
	configPath string
	verbose    bool
	logLevel   string

	// populated by loadRuntime before every subcommand
	appConfig config.Config
	log       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "docsight",
	Short: "PDF outline extraction and persona-driven section ranking",
	Long: `docsight extracts heading outlines from PDFs and ranks the sections of a document
collection by relevance to a persona and the task they need to accomplish.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print progress summaries and debug logs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime reads the config file (or the defaults) and builds the logger.
func loadRuntime(_ *cobra.Command, _ []string) error {
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		appConfig = *cfg
	} else {
		appConfig = config.Default()
	}
	applyEnv(&appConfig)

	level := logLevel
	if level == "" {
		level = appConfig.Logging.Level
	}
	l, err := logger.NewLogger(appConfig.Logging.Env, logger.CLILevel(verbose, level))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log = l
	return nil
}

// applyEnv fills secrets the config left blank from the environment.
func applyEnv(cfg *config.Config) {
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Encoder.APIKey == "" {
		switch cfg.Encoder.Provider {
		case "openai":
			cfg.Encoder.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Encoder.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
}
