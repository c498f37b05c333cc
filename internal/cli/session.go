package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"

	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/internal/presentation/tui"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/robot"
)

const notPlacedMessage = "Robot is not placed"

const helpMarkdown = `# Toy Robot

The robot lives on a square table. Row 0 is at the bottom and column 0 on the left.

| Command | Effect |
|---|---|
| ` + "`PLACE X,Y`" + ` | put the robot at X,Y facing NORTH |
| ` + "`LEFT`" + ` / ` + "`RIGHT`" + ` | turn 90 degrees |
| ` + "`MOVE`" + ` or an empty line | step forward; the edge stops the robot |
| ` + "`REPORT`" + ` | print the recorded position |
| ` + "`HISTORY`" + ` | list recent positions |
| ` + "`GRID`" + ` | redraw the table |
| ` + "`QUIT`" + ` | leave |
`

// Session is the interactive read-eval loop around a Robot.
type Session struct {
	bot     *robot.Robot
	in      io.Reader
	out     io.Writer
	profile termenv.Profile
	render  func(string) (string, error)
	logger  *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) SessionOption {
	return func(s *Session) {
		s.in = in
		s.out = out
	}
}

// WithProfile sets the colour profile used to draw the grid.
func WithProfile(p termenv.Profile) SessionOption {
	return func(s *Session) {
		s.profile = p
	}
}

// WithRenderer sets the markdown renderer for HELP.
func WithRenderer(render func(string) (string, error)) SessionOption {
	return func(s *Session) {
		s.render = render
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session reading stdin and writing plain text to stdout.
func NewSession(bot *robot.Robot, opts ...SessionOption) *Session {
	s := &Session{
		bot:     bot,
		in:      os.Stdin,
		out:     os.Stdout,
		profile: termenv.Ascii,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.render == nil {
		s.render = tui.NewRenderer(s.profile == termenv.Ascii)
	}
	return s
}

// Run reads commands until QUIT, end of input or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.drawGrid()
	for {
		fmt.Fprint(s.out, "> ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(s.out)
			select {
			case err := <-scanErr:
				return err
			default:
				return nil
			}
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		if s.Execute(ctx, cmd) {
			return nil
		}
	}
}

// Execute runs one command and reports whether the session should end.
func (s *Session) Execute(ctx context.Context, cmd Command) bool {
	switch cmd.Kind {
	case CmdPlace:
		if err := s.bot.Place(cmd.X, cmd.Y); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		s.drawGrid()

	case CmdLeft, CmdRight, CmdMove:
		var moved bool
		switch cmd.Kind {
		case CmdLeft:
			moved = s.bot.Left()
		case CmdRight:
			moved = s.bot.Right()
		default:
			moved = s.bot.Move()
		}
		if !moved {
			fmt.Fprintf(s.out, "%s. Use PLACE X,Y first.\n", notPlacedMessage)
			return false
		}
		s.drawGrid()

	case CmdReport:
		s.report(ctx)

	case CmdHistory:
		records, err := s.bot.History(ctx)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		PrintHistory(s.out, records)

	case CmdGrid:
		s.drawGrid()

	case CmdHelp:
		out, err := s.render(helpMarkdown)
		if err != nil {
			out = helpMarkdown
		}
		fmt.Fprint(s.out, out)

	case CmdQuit:
		return true
	}
	return false
}

func (s *Session) report(ctx context.Context) {
	rec, err := s.bot.Report(ctx)
	switch {
	case errors.Is(err, domain.ErrNotPlaced):
		fmt.Fprintln(s.out, notPlacedMessage)
	case err != nil:
		s.logger.Error("Report failed", "error", err)
		fmt.Fprintf(s.out, "Error: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Output: %s\n", rec.Position())
	}
}

func (s *Session) drawGrid() {
	pos, placed := s.bot.Position()
	fmt.Fprint(s.out, tui.RenderGrid(s.bot.Grid(), pos, placed, s.profile))
}
