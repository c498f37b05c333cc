package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/toyrobot/internal/config"
	"github.com/aretw0/toyrobot/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "toyrobot",
	Short: "Toy robot simulator on a 5x5 table",
	Long: `toyrobot drives a robot around a square table and records every position it
takes in an append-only log. The log lives behind an HTTP API (serve) or in a
local store; the interactive client (run) and the MCP server (mcp) drive the robot.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().Int("grid-size", 0, "Side of the square table")
}

// loadConfig layers the persistent flags over the file and environment settings.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}
	if cmd.Flags().Changed("grid-size") {
		cfg.GridSize, _ = cmd.Flags().GetInt("grid-size")
	}
	return cfg, cfg.Validate()
}

// newLogger builds the logger for cfg. Interactive commands pass quiet to keep the
// terminal clean unless debug logging was asked for.
func newLogger(cfg config.Config, quiet bool) (*slog.Logger, error) {
	if quiet && cfg.Log.Level != "debug" {
		return logging.NewNop(), nil
	}
	return logging.NewFromConfig(cfg.Log.Level, cfg.Log.Format)
}
