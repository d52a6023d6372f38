package heatmap

import "github.com/verte-zerg/typetutor/internal/keyboard"

// GroupStat totals the presses charged to a group of keys.
type GroupStat struct {
	Name    string
	Presses int
	Errors  int
}

// ErrorRate returns Errors/Presses, or 0 for an unpressed group.
func (g GroupStat) ErrorRate() float64 {
	if g.Presses == 0 {
		return 0
	}
	return float64(g.Errors) / float64(g.Presses)
}

// ByHand totals the heatmap per hand, left first.
func (h Heatmap) ByHand() []GroupStat {
	out := make([]GroupStat, 0, len(keyboard.Hands))
	for _, hand := range keyboard.Hands {
		out = append(out, h.group(string(hand), keyboard.KeysByHand(hand)))
	}
	return out
}

// ByFinger totals the heatmap per finger across both hands.
func (h Heatmap) ByFinger() []GroupStat {
	out := make([]GroupStat, 0, len(keyboard.Fingers))
	for _, f := range keyboard.Fingers {
		out = append(out, h.group(string(f), keyboard.KeysByFinger(f)))
	}
	return out
}

func (h Heatmap) group(name string, keys []keyboard.Key) GroupStat {
	g := GroupStat{Name: name}
	for _, key := range keys {
		st := h[key.Code]
		g.Presses += st.TotalPresses
		g.Errors += st.ErrorCount
	}
	return g
}
