package content

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Named character sets for random drills.
var CharSets = map[string]string{
	"lowercase": "abcdefghijklmnopqrstuvwxyz",
	"uppercase": "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"numbers":   "0123456789",
	"special":   "!@#$%^&*()_+-=[]{}|;:',.<>?/`~",
	"all":       "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+-=[]{}|;:',.<>?/`~",
	"numpad":    "1234567890/*-+",
}

const (
	// DefaultRandomLength is the length of a random drill.
	DefaultRandomLength = 50
	// AlphabetText is the fixed alphabet drill.
	AlphabetText = "abcdefghijklmnopqrstuvwxyz"
	// NumpadText is the fixed numpad drill.
	NumpadText = "1234567890/*-+"
)

// CharSetNames returns the named sets, sorted.
func CharSetNames() []string {
	names := make([]string, 0, len(CharSets))
	for name := range CharSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveCharSet maps a set name to its characters. A value that names no
// set is taken as a literal character list; empty means "all".
func ResolveCharSet(value string) (string, error) {
	if value == "" {
		return CharSets["all"], nil
	}
	if chars, ok := CharSets[strings.ToLower(value)]; ok {
		return chars, nil
	}
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: blank character set", ErrEmptyContent)
	}
	return value, nil
}

// RandomChars draws length runes uniformly from chars.
func RandomChars(rnd *rand.Rand, chars string, length int) string {
	pool := []rune(chars)
	if len(pool) == 0 {
		return ""
	}
	if length <= 0 {
		length = DefaultRandomLength
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteRune(pool[rnd.Intn(len(pool))])
	}
	return b.String()
}
