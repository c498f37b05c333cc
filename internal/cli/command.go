package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind identifies a REPL command.
type CommandKind int

const (
	CmdPlace CommandKind = iota + 1
	CmdLeft
	CmdRight
	CmdMove
	CmdReport
	CmdHistory
	CmdGrid
	CmdHelp
	CmdQuit
)

var commandNames = map[string]CommandKind{
	"place":   CmdPlace,
	"left":    CmdLeft,
	"right":   CmdRight,
	"move":    CmdMove,
	"report":  CmdReport,
	"history": CmdHistory,
	"grid":    CmdGrid,
	"help":    CmdHelp,
	"?":       CmdHelp,
	"quit":    CmdQuit,
	"exit":    CmdQuit,
	"q":       CmdQuit,
}

// ErrUnknownCommand is returned for input that names no command.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a parsed REPL line. X and Y are only set for CmdPlace.
type Command struct {
	Kind CommandKind
	X, Y int
}

// ParseCommand parses one line of input. Keywords are case-insensitive and an
// empty line means MOVE.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CmdMove}, nil
	}

	name, args, _ := strings.Cut(line, " ")
	kind, ok := commandNames[strings.ToLower(name)]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	args = strings.TrimSpace(args)
	if kind != CmdPlace {
		if args != "" {
			return Command{}, fmt.Errorf("%s takes no arguments", strings.ToUpper(name))
		}
		return Command{Kind: kind}, nil
	}

	x, y, err := parseCoords(args)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdPlace, X: x, Y: y}, nil
}

// parseCoords accepts "X,Y" with optional spaces around the comma.
func parseCoords(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New("usage: PLACE X,Y")
	}

	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return 0, 0, errors.New("x and y must be numbers")
	}
	return x, y, nil
}
