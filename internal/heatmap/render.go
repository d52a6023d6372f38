package heatmap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetutor/internal/keyboard"
)

// unitWidth is the cell width of a 1u key.
const unitWidth = 4

var (
	levelColors = map[Level]lipgloss.Color{
		LevelNone:  lipgloss.Color("#3A3A3A"),
		LevelBest:  lipgloss.Color("#2E7D32"),
		LevelGood:  lipgloss.Color("#7CB342"),
		LevelFair:  lipgloss.Color("#D4A017"),
		LevelPoor:  lipgloss.Color("#E65100"),
		LevelWorst: lipgloss.Color("#B71C1C"),
	}
	gameErrorColors = map[Level]lipgloss.Color{
		LevelNone:  lipgloss.Color("#3A3A3A"),
		LevelBest:  lipgloss.Color("#F4A3A3"),
		LevelGood:  lipgloss.Color("#E57373"),
		LevelFair:  lipgloss.Color("#E53935"),
		LevelPoor:  lipgloss.Color("#C62828"),
		LevelWorst: lipgloss.Color("#8E0000"),
	}
	levelGlyphs = map[Level]string{
		LevelNone:  " ",
		LevelBest:  ".",
		LevelGood:  ":",
		LevelFair:  "+",
		LevelPoor:  "*",
		LevelWorst: "#",
	}
	keyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Align(lipgloss.Center)
)

// RenderOptions controls Render output.
type RenderOptions struct {
	Scheme Scheme
	// Color enables background colors; otherwise each key carries a
	// level glyph so the map reads in plain text.
	Color bool
}

// Render draws the QWERTY layout with every key banded under opts.Scheme.
func Render(h Heatmap, opts RenderOptions) string {
	lines := make([]string, 0, len(keyboard.QWERTY.Rows)+2)
	for _, row := range keyboard.QWERTY.Rows {
		cells := make([]string, 0, len(row.Keys))
		for _, key := range row.Keys {
			cells = append(cells, renderKey(key, h.Level(key.Code, opts.Scheme), opts))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	lines = append(lines, "", Legend(opts))
	return strings.Join(lines, "\n")
}

func renderKey(key keyboard.Key, level Level, opts RenderOptions) string {
	width := max(int(key.Width*unitWidth+0.5), 2)
	label := key.Label
	if !opts.Color {
		label = runewidth.Truncate(label, width-3, "") + levelGlyphs[level]
		return runewidth.FillRight("["+label, width-1) + "]"
	}
	label = runewidth.Truncate(label, width-1, "")
	return keyStyle.Width(width).Background(paletteFor(opts.Scheme)[level]).Render(label)
}

func paletteFor(scheme Scheme) map[Level]lipgloss.Color {
	if scheme == SchemeGameErrors {
		return gameErrorColors
	}
	return levelColors
}

// Legend describes the bands of opts.Scheme from best to worst.
func Legend(opts RenderOptions) string {
	var parts []string
	for l := LevelBest; l <= LevelWorst; l++ {
		name := legendLabel(opts.Scheme, l)
		if opts.Color {
			swatch := lipgloss.NewStyle().Background(paletteFor(opts.Scheme)[l]).Render("  ")
			parts = append(parts, swatch+" "+name)
			continue
		}
		parts = append(parts, levelGlyphs[l]+" "+name)
	}
	return string(opts.Scheme) + ": " + strings.Join(parts, "  ")
}

func legendLabel(scheme Scheme, l Level) string {
	switch scheme {
	case SchemeSpeed:
		return [...]string{"", "<=100ms", "<=200ms", "<=350ms", "<=500ms", "slower"}[l]
	case SchemeAccuracy:
		return [...]string{"", ">=98%", ">=95%", ">=90%", ">=80%", "lower"}[l]
	case SchemeGameErrors:
		return [...]string{"", "<=20%", "<=40%", "<=60%", "<=80%", "most"}[l]
	default:
		return [...]string{"", "0%", "<=5%", "<=10%", "<=20%", ">20%"}[l]
	}
}
