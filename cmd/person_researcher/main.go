// Package main provides the entry point for the person researcher CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/person-researcher/internal/config"
	"github.com/jonathan/person-researcher/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const serviceName = "person-researcher"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "person_researcher",
	Short:         "Person Researcher CLI and HTTP API Server",
	Long:          "Person Researcher finds LinkedIn and Wikipedia profiles for a name and builds a one-page dossier with a summary, fun facts, career timeline, roast, praise and similar people.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
}

// loadConfig loads configuration and installs the default slog logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
