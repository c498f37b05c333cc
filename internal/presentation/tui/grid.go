// Package tui draws the terminal surface of the toyrobot client.
package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/toyrobot/pkg/domain"
)

const (
	robotColor = "#f472b6"
	axisColor  = "#818cf8"
	emptyCell  = "."
)

// Profile returns the colour profile for f: full colour on a terminal, Ascii otherwise.
func Profile(f *os.File) termenv.Profile {
	if !IsTerminal(f) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).Profile
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Glyph is the arrow drawn for a robot facing d.
func Glyph(d domain.Direction) string {
	switch d {
	case domain.North:
		return "^"
	case domain.East:
		return ">"
	case domain.South:
		return "v"
	case domain.West:
		return "<"
	default:
		return "?"
	}
}

// RenderGrid draws g with row Size-1 on top, marking the robot when placed.
func RenderGrid(g domain.Grid, pos domain.Position, placed bool, p termenv.Profile) string {
	var b strings.Builder
	width := len(strconv.Itoa(g.Size - 1))

	for y := g.Size - 1; y >= 0; y-- {
		b.WriteString(p.String(pad(strconv.Itoa(y), width)).Foreground(p.Color(axisColor)).String())
		for x := 0; x < g.Size; x++ {
			b.WriteString("  ")
			cell := pad(emptyCell, width)
			if placed && pos.X == x && pos.Y == y {
				cell = p.String(pad(Glyph(pos.Direction), width)).Foreground(p.Color(robotColor)).Bold().String()
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat(" ", width))
	for x := 0; x < g.Size; x++ {
		b.WriteString("  ")
		b.WriteString(p.String(pad(strconv.Itoa(x), width)).Foreground(p.Color(axisColor)).String())
	}
	b.WriteByte('\n')
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
