package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the toyrobot banner, coloured according to p.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{"  _____              ____       _           _   ", "#818cf8"},
		{" |_   _|__  _   _   |  _ \\ ___ | |__   ___ | |_ ", "#a78bfa"},
		{"   | |/ _ \\| | | |  | |_) / _ \\| '_ \\ / _ \\| __|", "#c084fc"},
		{"   | | (_) | |_| |  |  _ < (_) | |_) | (_) | |_ ", "#e879f9"},
		{"   |_|\\___/ \\__, |  |_| \\_\\___/|_.__/ \\___/ \\__|", "#f472b6"},
		{"            |___/                               ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
