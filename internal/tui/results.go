package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/typing"
)

// resultKeys is how many of the session's weakest keys the table lists.
const resultKeys = 5

type results struct {
	summary string
	board   string
	keys    table.Model
	wrong   string
}

func newResults(r typing.Report, scheme heatmap.Scheme) results {
	m := r.Metrics
	summary := fmt.Sprintf("%d WPM · %d CPM · %d%% accuracy · %.1fs\nmistakes %d · backspaces %d (%d%%)",
		m.WordsPerMinute, m.CharactersPerMinute, m.AccuracyPercentage, m.ElapsedSeconds,
		m.Mistakes, m.Backspaces, m.BackspaceRatioPercent)

	hm := heatmap.Project(r.Keystrokes)
	weakest := hm.Weakest(resultKeys, 1)
	rows := make([]table.Row, 0, len(weakest))
	for _, k := range weakest {
		rows = append(rows, table.Row{
			k.KeyLabel,
			fmt.Sprintf("%d", k.TotalPresses),
			fmt.Sprintf("%d", k.ErrorCount),
			fmt.Sprintf("%.0f", k.AverageSpeedMs),
		})
	}
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	keys := table.New(
		table.WithColumns([]table.Column{
			{Title: "Key", Width: 8},
			{Title: "Presses", Width: 8},
			{Title: "Errors", Width: 7},
			{Title: "Avg ms", Width: 7},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
		table.WithStyles(styles),
	)

	return results{
		summary: summary,
		board:   heatmap.Render(hm, heatmap.RenderOptions{Scheme: scheme, Color: true}),
		keys:    keys,
		wrong:   wrongLine(r.WrongCharacters),
	}
}

func wrongLine(entries []typing.WrongCharacterEntry) string {
	if len(entries) == 0 {
		return "No mistakes."
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s×%d", visibleChar(e.ExpectedChar), e.ErrorCount))
	}
	return "Missed: " + strings.Join(parts, " ")
}

func visibleChar(ch string) string {
	switch ch {
	case " ":
		return "␣"
	case "\n":
		return string(newlineGlyph)
	case "\t":
		return string(tabGlyph)
	}
	return ch
}

func (r results) view() string {
	sections := []string{titleStyle.Render(r.summary), r.board}
	if len(r.keys.Rows()) > 0 {
		sections = append(sections, r.keys.View())
	}
	sections = append(sections, footerStyle.Render(r.wrong), footerStyle.Render("enter: next text · ctrl+r: retry"))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}
