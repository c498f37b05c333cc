package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/toyrobot/internal/cli"
	"github.com/aretw0/toyrobot/pkg/client"
	"github.com/aretw0/toyrobot/pkg/domain"
)

type recentSource interface {
	Recent(ctx context.Context, limit int) ([]domain.Record, error)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print recently recorded positions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("server") {
			cfg.Client.ServerURL, _ = cmd.Flags().GetString("server")
		}
		limit, _ := cmd.Flags().GetInt("limit")
		local, _ := cmd.Flags().GetBool("local")

		logger, err := newLogger(cfg, true)
		if err != nil {
			return err
		}

		var src recentSource
		if local {
			mgr, err := cli.NewManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer mgr.Close()
			src = mgr
		} else {
			c, err := client.New(cfg.Client.ServerURL, client.WithTimeout(cfg.Client.Timeout))
			if err != nil {
				return err
			}
			src = c
		}

		records, err := src.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		cli.PrintHistory(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("server", "", "Base URL of the toyrobot server")
	historyCmd.Flags().Bool("local", false, "Read the configured local store instead of a server")
	historyCmd.Flags().IntP("limit", "n", 100, "Number of records to print (at most 100)")
	historyCmd.MarkFlagsMutuallyExclusive("server", "local")
}
