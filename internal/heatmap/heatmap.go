// Package heatmap projects keystroke logs onto the physical keyboard.
package heatmap

import (
	"sort"

	"github.com/verte-zerg/typetutor/internal/keyboard"
	"github.com/verte-zerg/typetutor/internal/typing"
)

// KeyStat aggregates the presses charged to one physical key.
type KeyStat struct {
	KeyCode        string
	KeyLabel       string
	Position       keyboard.Position
	TotalPresses   int
	ErrorCount     int
	AverageSpeedMs float64
}

// ErrorRate returns ErrorCount/TotalPresses, or 0 for an unpressed key.
func (k KeyStat) ErrorRate() float64 {
	if k.TotalPresses == 0 {
		return 0
	}
	return float64(k.ErrorCount) / float64(k.TotalPresses)
}

// Accuracy returns the share of correct presses as a percentage.
func (k KeyStat) Accuracy() float64 {
	if k.TotalPresses == 0 {
		return 0
	}
	return float64(k.TotalPresses-k.ErrorCount) * 100 / float64(k.TotalPresses)
}

// Heatmap is keyed by key code.
type Heatmap map[string]KeyStat

// NewKeyStat returns an empty stat for code with its label and position filled in.
func NewKeyStat(code string) KeyStat {
	key, ok := keyboard.KeyByCode(code)
	if !ok {
		return KeyStat{KeyCode: code, KeyLabel: code}
	}
	return KeyStat{KeyCode: code, KeyLabel: key.Label, Position: key.Position}
}

// Project folds records into per-key stats keyed by each record's KeyCode.
// The reconciler charges a record to the key of its expected character
// regardless of shift state, so 'a' and 'A' both land on KeyA.
// AverageSpeedMs is the exact running mean of TimeSinceLastKeyMs.
func Project(records []typing.KeystrokeRecord) Heatmap {
	hm := Heatmap{}
	for _, rec := range records {
		code := rec.KeyCode
		if code == "" {
			code = keyboard.UnknownKeyCode
		}
		st, ok := hm[code]
		if !ok {
			st = NewKeyStat(code)
		}
		st.TotalPresses++
		if !rec.Correct {
			st.ErrorCount++
		}
		st.AverageSpeedMs += (float64(rec.TimeSinceLastKeyMs) - st.AverageSpeedMs) / float64(st.TotalPresses)
		hm[code] = st
	}
	return hm
}

// Merge returns a new heatmap holding both h and other. Speeds are
// combined as a press-weighted mean.
func (h Heatmap) Merge(other Heatmap) Heatmap {
	out := make(Heatmap, len(h)+len(other))
	for code, st := range h {
		out[code] = st
	}
	for code, st := range other {
		cur, ok := out[code]
		if !ok {
			out[code] = st
			continue
		}
		total := cur.TotalPresses + st.TotalPresses
		if total > 0 {
			cur.AverageSpeedMs = (cur.AverageSpeedMs*float64(cur.TotalPresses) +
				st.AverageSpeedMs*float64(st.TotalPresses)) / float64(total)
		}
		cur.TotalPresses = total
		cur.ErrorCount += st.ErrorCount
		out[code] = cur
	}
	return out
}

// Keys returns the stats sorted by key code.
func (h Heatmap) Keys() []KeyStat {
	out := make([]KeyStat, 0, len(h))
	for _, st := range h {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KeyCode < out[j].KeyCode })
	return out
}

// MaxErrors returns the largest per-key error count.
func (h Heatmap) MaxErrors() int {
	most := 0
	for _, st := range h {
		most = max(most, st.ErrorCount)
	}
	return most
}

// Totals returns presses and errors summed over every key.
func (h Heatmap) Totals() (presses, errors int) {
	for _, st := range h {
		presses += st.TotalPresses
		errors += st.ErrorCount
	}
	return presses, errors
}

// Weakest returns up to n keys with at least minPresses presses, highest
// error rate first.
func (h Heatmap) Weakest(n, minPresses int) []KeyStat {
	return h.ranked(n, minPresses, func(a, b float64) bool { return a > b })
}

// Strongest returns up to n keys with at least minPresses presses, lowest
// error rate first.
func (h Heatmap) Strongest(n, minPresses int) []KeyStat {
	return h.ranked(n, minPresses, func(a, b float64) bool { return a < b })
}

// ranked orders eligible keys by error rate, then by press count so the
// better-sampled key wins a tie.
func (h Heatmap) ranked(n, minPresses int, before func(a, b float64) bool) []KeyStat {
	out := make([]KeyStat, 0, len(h))
	for _, st := range h {
		if st.TotalPresses < minPresses || st.KeyCode == keyboard.UnknownKeyCode {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].ErrorRate(), out[j].ErrorRate()
		if ri != rj {
			return before(ri, rj)
		}
		if out[i].TotalPresses != out[j].TotalPresses {
			return out[i].TotalPresses > out[j].TotalPresses
		}
		return out[i].KeyCode < out[j].KeyCode
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
