// Package content produces target texts for practice sessions from local
// files and built-in character sets.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects where a target text comes from.
type Mode string

const (
	ModeQuote    Mode = "quote"
	ModeCode     Mode = "code"
	ModeRandom   Mode = "random"
	ModeAlphabet Mode = "alphabet"
	ModeNumpad   Mode = "numpad"
	ModeWords    Mode = "words"
	ModeCustom   Mode = "custom"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeWords, ModeQuote, ModeCode, ModeRandom, ModeAlphabet, ModeNumpad, ModeCustom}

var (
	ErrUnknownMode  = errors.New("unknown mode")
	ErrEmptyQuote   = errors.New("quote text is empty")
	ErrEmptyContent = errors.New("content is empty")
	ErrNoQuotes     = errors.New("no valid quotes found")
	ErrNoSource     = errors.New("no source given")
)

// ParseMode accepts a mode name, case-insensitively. Empty means words.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeWords, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// NeedsSource reports whether a mode reads a file or literal text.
func (m Mode) NeedsSource() bool {
	switch m {
	case ModeQuote, ModeCode, ModeCustom:
		return true
	default:
		return false
	}
}
