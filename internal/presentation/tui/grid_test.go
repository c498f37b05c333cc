package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toyrobot/pkg/domain"
)

func TestRenderGrid_Unplaced(t *testing.T) {
	out := RenderGrid(domain.DefaultGrid, domain.Position{}, false, termenv.Ascii)

	want := strings.Join([]string{
		"4  .  .  .  .  .",
		"3  .  .  .  .  .",
		"2  .  .  .  .  .",
		"1  .  .  .  .  .",
		"0  .  .  .  .  .",
		"   0  1  2  3  4",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestRenderGrid_Robot(t *testing.T) {
	out := RenderGrid(domain.DefaultGrid, domain.Position{X: 1, Y: 3, Direction: domain.East}, true, termenv.Ascii)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "3  .  >  .  .  .", lines[1])
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderGrid_Colour(t *testing.T) {
	out := RenderGrid(domain.DefaultGrid, domain.Position{X: 0, Y: 0, Direction: domain.South}, true, termenv.ANSI256)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "v")
}

func TestRenderGrid_WideAxis(t *testing.T) {
	out := RenderGrid(domain.Grid{Size: 11}, domain.Position{X: 10, Y: 10, Direction: domain.West}, true, termenv.Ascii)
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "10"))
	assert.True(t, strings.HasSuffix(lines[0], " <"))
	assert.True(t, strings.HasPrefix(lines[10], " 0"))
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, "^", Glyph(domain.North))
	assert.Equal(t, ">", Glyph(domain.East))
	assert.Equal(t, "v", Glyph(domain.South))
	assert.Equal(t, "<", Glyph(domain.West))
	assert.Equal(t, "?", Glyph(domain.Direction(0)))
}

func TestPrintBanner_Plain(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, termenv.Ascii)
	assert.Contains(t, buf.String(), "|_|")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewRenderer_Plain(t *testing.T) {
	render := NewRenderer(true)
	out, err := render("# Commands\n\n- `MOVE`\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands")
	assert.Contains(t, out, "MOVE")
}
