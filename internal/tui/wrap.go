package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetutor/internal/typing"
)

const (
	wrongSpaceGlyph = '•'
	newlineGlyph    = '↵'
	tabGlyph        = '→'
)

type styledRune struct {
	s         string
	width     int
	isSpace   bool
	lineBreak bool
}

func buildStyledRunes(cells []typing.Cell) []styledRune {
	words := findWords(cells)
	cursorIndex := typing.Ledger(cells).CursorIndex()
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(cells))
	for i, cell := range cells {
		displayed := displayRune(cell.Original)
		style := pendingStyle
		switch cell.Class {
		case typing.Correct:
			style = correctStyle
		case typing.Incorrect:
			style = incorrectStyle
			if isBlank(cell.Original) && !isBlank(cell.Typed) {
				displayed = wrongSpaceGlyph
			}
		case typing.Cursor:
			style = cursorStyle
		default:
			if !isBlank(cell.Original) && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		out = append(out, styledRune{
			s:         style.Render(string(displayed)),
			width:     runewidth.RuneWidth(displayed),
			isSpace:   isBlank(cell.Original),
			lineBreak: cell.Original == '\n',
		})
	}
	return out
}

func displayRune(r rune) rune {
	switch r {
	case '\n':
		return newlineGlyph
	case '\t':
		return tabGlyph
	}
	return r
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

type wordRange struct {
	start int
	end   int
}

func findWords(cells []typing.Cell) []wordRange {
	words := []wordRange{}
	start := -1
	for i, c := range cells {
		if isBlank(c.Original) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(cells)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
		if item.lineBreak {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, and always
// after a newline cell.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(items []styledRune) {
		for _, item := range items {
			out.WriteString(item.s)
		}
		out.WriteRune('\n')
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(line)
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
		if item.lineBreak {
			flush(line)
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
		}
	}
	for _, item := range line {
		out.WriteString(item.s)
	}
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// deleteLastWord drops trailing blanks and then the word before them.
func deleteLastWord(input []rune) []rune {
	end := len(input)
	for end > 0 && isBlank(input[end-1]) {
		end--
	}
	for end > 0 && !isBlank(input[end-1]) {
		end--
	}
	return input[:end]
}
