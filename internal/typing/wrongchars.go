package typing

import "sort"

// WrongCharacterEntry records where a target character was mistyped.
type WrongCharacterEntry struct {
	ExpectedChar string
	ErrorCount   int
	// Positions holds distinct target indices, ascending.
	Positions []int
}

type wrongEntry struct {
	count     int
	positions map[int]struct{}
}

// WrongCharacters accumulates mistyped target characters for one session.
// Backspacing never removes an entry; only a session reset clears it.
// The zero value is ready to use.
type WrongCharacters struct {
	entries map[rune]*wrongEntry
}

func (w *WrongCharacters) record(expected rune, index int) {
	if w.entries == nil {
		w.entries = map[rune]*wrongEntry{}
	}
	entry, ok := w.entries[expected]
	if !ok {
		entry = &wrongEntry{positions: map[int]struct{}{}}
		w.entries[expected] = entry
	}
	entry.count++
	entry.positions[index] = struct{}{}
}

// Len returns the number of distinct mistyped characters.
func (w *WrongCharacters) Len() int {
	return len(w.entries)
}

// List returns every entry once, sorted by expected character.
func (w *WrongCharacters) List() []WrongCharacterEntry {
	chars := make([]rune, 0, len(w.entries))
	for r := range w.entries {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	out := make([]WrongCharacterEntry, 0, len(chars))
	for _, r := range chars {
		entry := w.entries[r]
		positions := make([]int, 0, len(entry.positions))
		for p := range entry.positions {
			positions = append(positions, p)
		}
		sort.Ints(positions)
		out = append(out, WrongCharacterEntry{
			ExpectedChar: string(r),
			ErrorCount:   entry.count,
			Positions:    positions,
		})
	}
	return out
}
