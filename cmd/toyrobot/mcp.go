package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/toyrobot/internal/cli"
	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/pkg/adapters/mcp"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/robot"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the robot as MCP tools (place, left, right, move, report, history) so
AI agents can drive it.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("server") {
			cfg.Client.ServerURL, _ = cmd.Flags().GetString("server")
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		local, _ := cmd.Flags().GetBool("local")

		// Stdout carries JSON-RPC; logs go to stderr only.
		log.SetOutput(os.Stderr)
		lvl, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := logging.New(lvl)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		recorder, err := cli.NewRecorder(ctx, cfg, local, logger)
		if err != nil {
			return fmt.Errorf("error initializing position log: %w", err)
		}
		defer recorder.Close()

		bot := robot.New(recorder,
			robot.WithGrid(domain.Grid{Size: cfg.GridSize}),
			robot.WithLogger(logger),
		)
		defer bot.Close()
		if err := bot.Load(ctx); err != nil {
			logger.Warn("Could not load the last position", "error", err)
		}

		srv := mcp.NewServer(bot, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("Starting toyrobot MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting toyrobot MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("server", "", "Base URL of the toyrobot server")
	mcpCmd.Flags().Bool("local", false, "Record to the configured local store instead of a server")
	mcpCmd.MarkFlagsMutuallyExclusive("server", "local")
}
