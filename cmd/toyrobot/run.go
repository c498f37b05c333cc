package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/toyrobot/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the robot interactively",
	Long: `Starts an interactive session. Type PLACE X,Y, LEFT, RIGHT, MOVE (or just Enter)
and REPORT. Positions are recorded through the HTTP API unless --local is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("server") {
			cfg.Client.ServerURL, _ = cmd.Flags().GetString("server")
		}
		local, _ := cmd.Flags().GetBool("local")
		quiet, _ := cmd.Flags().GetBool("quiet")

		logger, err := newLogger(cfg, true)
		if err != nil {
			return err
		}

		return cli.Execute(cli.RunOptions{
			Config: cfg,
			Local:  local,
			Quiet:  quiet,
		}, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("server", "", "Base URL of the toyrobot server")
	runCmd.Flags().Bool("local", false, "Record to the configured local store instead of a server")
	runCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
	runCmd.MarkFlagsMutuallyExclusive("server", "local")
}
