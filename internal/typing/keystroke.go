package typing

import (
	"sort"

	"github.com/verte-zerg/typetutor/internal/keyboard"
)

// KeystrokeRecord is one forward-typed character.
type KeystrokeRecord struct {
	Key                string
	KeyCode            string
	TimestampMs        int64
	Correct            bool
	ExpectedChar       string
	ActualChar         string
	TimeSinceLastKeyMs int64
	// Position is where the expected key sits on the layout.
	Position keyboard.Position
}

// HeatmapChar is the character whose physical key a record is charged to:
// the expected one, or the typed one past the end of the target.
func (r KeystrokeRecord) HeatmapChar() string {
	if r.ExpectedChar != "" {
		return r.ExpectedChar
	}
	return r.ActualChar
}

func newKeystroke(actual rune, expected string, timestampMs, sinceMs int64) KeystrokeRecord {
	rec := KeystrokeRecord{
		Key:                string(actual),
		TimestampMs:        timestampMs,
		Correct:            expected != "" && string(actual) == expected,
		ExpectedChar:       expected,
		ActualChar:         string(actual),
		TimeSinceLastKeyMs: sinceMs,
	}
	rec.KeyCode = keyboard.KeyCodeForString(rec.HeatmapChar())
	if pos, ok := keyboard.KeyPosition(rec.KeyCode); ok {
		rec.Position = pos
	}
	return rec
}

// CharStat summarizes the keystrokes aimed at one expected character.
type CharStat struct {
	Char               string
	Attempts           int
	Errors             int
	AvgTimeBetweenKeys float64
}

// CharacterStats groups keystrokes by expected character, sorted by char.
func CharacterStats(records []KeystrokeRecord) []CharStat {
	type acc struct {
		attempts int
		errors   int
		sumMs    int64
	}
	byChar := map[string]*acc{}
	for _, rec := range records {
		if rec.ExpectedChar == "" {
			continue
		}
		a, ok := byChar[rec.ExpectedChar]
		if !ok {
			a = &acc{}
			byChar[rec.ExpectedChar] = a
		}
		a.attempts++
		if !rec.Correct {
			a.errors++
		}
		a.sumMs += rec.TimeSinceLastKeyMs
	}
	out := make([]CharStat, 0, len(byChar))
	for ch, a := range byChar {
		out = append(out, CharStat{
			Char:               ch,
			Attempts:           a.attempts,
			Errors:             a.errors,
			AvgTimeBetweenKeys: float64(a.sumMs) / float64(a.attempts),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}
