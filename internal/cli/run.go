package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/toyrobot/internal/config"
	"github.com/aretw0/toyrobot/internal/presentation/tui"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/robot"
)

// RunOptions contains the configuration for the run command.
type RunOptions struct {
	Config config.Config
	Local  bool
	Quiet  bool
}

// Execute starts an interactive session on stdin/stdout.
func Execute(opts RunOptions, logger *slog.Logger) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	recorder, err := NewRecorder(sigCtx, opts.Config, opts.Local, logger)
	if err != nil {
		return fmt.Errorf("error initializing position log: %w", err)
	}
	defer recorder.Close()

	bot := robot.New(recorder,
		robot.WithGrid(domain.Grid{Size: opts.Config.GridSize}),
		robot.WithLogger(logger),
	)
	defer bot.Close()

	if err := bot.Load(sigCtx); err != nil {
		logger.Warn("Could not load the last position", "error", err)
	}

	profile := tui.Profile(os.Stdout)
	if !opts.Quiet {
		tui.PrintBanner(os.Stdout, profile)
		if opts.Local {
			PrintSystemMessage(os.Stdout, "Recording to the local %s store.", opts.Config.Store.Driver)
		} else {
			PrintSystemMessage(os.Stdout, "Recording to %s.", opts.Config.Client.ServerURL)
		}
		PrintSystemMessage(os.Stdout, "Type HELP for commands.")
	}

	session := NewSession(bot,
		WithProfile(profile),
		WithSessionLogger(logger),
	)
	if err := session.Run(sigCtx); err != nil {
		return err
	}

	_ = bot.Close()
	if failed := bot.Failures(); failed > 0 {
		PrintSystemMessage(os.Stdout, "%d position(s) could not be recorded.", failed)
	}
	return nil
}
