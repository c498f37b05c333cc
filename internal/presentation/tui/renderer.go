package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Plain output uses the notty style so nothing but text reaches pipes and files.
func NewRenderer(plain bool) func(string) (string, error) {
	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
