package typing

import "time"

// State is everything Reconcile reads and writes for one target text.
// Reconcile is its only writer.
type State struct {
	target   []rune
	ledger   Ledger
	counters Counters
	log      []KeystrokeRecord
	wrong    WrongCharacters

	lastKeyAt time.Time
	startedAt time.Time
}

// NewState initializes reconciliation state for target.
func NewState(target string) *State {
	runes := []rune(target)
	return &State{
		target: runes,
		ledger: newLedger(runes),
	}
}

// Target returns the target text.
func (st *State) Target() string { return string(st.target) }

// TargetLen returns the target length in runes.
func (st *State) TargetLen() int { return len(st.target) }

// Ledger returns the live ledger. Callers must not modify it.
func (st *State) Ledger() Ledger { return st.ledger }

// Counters returns the current counters.
func (st *State) Counters() Counters { return st.counters }

// Keystrokes returns the keystroke log in append order.
func (st *State) Keystrokes() []KeystrokeRecord { return st.log }

// WrongCharacters returns the session's wrong-character aggregator.
func (st *State) WrongCharacters() *WrongCharacters { return &st.wrong }

// StartedAt returns when the first non-empty input arrived, or the zero time.
func (st *State) StartedAt() time.Time { return st.startedAt }

// Result is the outcome of one Reconcile call.
type Result struct {
	Counters   Counters
	IsComplete bool
}

// Reconcile brings st in line with the input buffer changing from
// previous to current at time now.
//
// Shrinking input counts the length delta as backspaces and resets the
// cells past the new end. Growing input logs one keystroke per new rune,
// charging mismatches to the wrong-character aggregator. Every cell and
// the correct/mistake counts are then derived again from current, so the
// result never depends on how the buffer got there. Runes past the end of
// the target stay in the log but never reach the ledger or counters.
func Reconcile(st *State, current, previous string, now time.Time) Result {
	if st == nil || len(st.target) == 0 {
		return Result{}
	}
	cur := []rune(current)
	prev := []rune(previous)
	targetLen := len(st.target)

	if len(cur) < len(prev) {
		st.counters.Backspaces += len(prev) - len(cur)
		for i := len(cur); i < len(prev) && i < targetLen; i++ {
			st.ledger[i].Typed = NoRune
			st.ledger[i].Class = Untyped
		}
	} else {
		st.recordKeystrokes(cur, len(prev), now)
	}

	st.recompute(cur)

	if len(cur) > 0 && st.startedAt.IsZero() {
		st.startedAt = now
	}

	return Result{
		Counters:   st.counters,
		IsComplete: len(cur) == targetLen,
	}
}

func (st *State) recordKeystrokes(cur []rune, from int, now time.Time) {
	for i := from; i < len(cur); i++ {
		expected := ""
		if i < len(st.target) {
			expected = string(st.target[i])
		}
		var sinceMs int64
		if !st.lastKeyAt.IsZero() {
			sinceMs = now.Sub(st.lastKeyAt).Milliseconds()
			if sinceMs < 0 {
				sinceMs = 0
			}
		}
		st.lastKeyAt = now

		rec := newKeystroke(cur[i], expected, now.UnixMilli(), sinceMs)
		st.log = append(st.log, rec)

		if i < len(st.target) && cur[i] != st.target[i] {
			st.wrong.record(st.target[i], i)
		}
	}
}

func (st *State) recompute(cur []rune) {
	correct, mistakes := 0, 0
	for i := range st.ledger {
		cell := &st.ledger[i]
		switch {
		case i < len(cur):
			cell.Typed = cur[i]
			if cur[i] == cell.Original {
				cell.Class = Correct
				correct++
			} else {
				cell.Class = Incorrect
				mistakes++
			}
		case i == len(cur):
			cell.Typed = NoRune
			cell.Class = Cursor
		default:
			cell.Typed = NoRune
			cell.Class = Untyped
		}
	}
	st.counters.Correct = correct
	st.counters.Mistakes = mistakes
	st.counters.Typed = min(len(cur), len(st.target))
}
