// Package typing implements the incremental input reconciler and the
// typing session state machine built on it.
//
// A session holds a fixed target text and a ledger with one cell per
// target rune. Every change of the host's input buffer is passed to
// Reconcile, which rolls back cells on backspace, logs newly typed
// runes, and then recomputes every cell and counter from scratch.
package typing

// Classification is the display state of a ledger cell.
type Classification uint8

// Cell classifications.
const (
	Untyped Classification = iota
	Correct
	Incorrect
	Cursor
)

func (c Classification) String() string {
	switch c {
	case Untyped:
		return "untyped"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Cursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// NoRune marks a cell that has not been typed.
const NoRune rune = -1

// Cell is the state of one target character.
type Cell struct {
	Original rune
	Typed    rune
	Class    Classification
}

// HasTyped reports whether the cell holds a typed rune.
func (c Cell) HasTyped() bool {
	return c.Typed != NoRune
}

// Ledger is index-aligned with the target text.
type Ledger []Cell

// NewLedger builds a ledger for target with the cursor on the first cell.
func NewLedger(target string) Ledger {
	return newLedger([]rune(target))
}

func newLedger(target []rune) Ledger {
	ledger := make(Ledger, len(target))
	for i, r := range target {
		ledger[i] = Cell{Original: r, Typed: NoRune, Class: Untyped}
	}
	if len(ledger) > 0 {
		ledger[0].Class = Cursor
	}
	return ledger
}

// Classes returns the classification of every cell.
func (l Ledger) Classes() []Classification {
	out := make([]Classification, len(l))
	for i, c := range l {
		out[i] = c.Class
	}
	return out
}

// CursorIndex returns the cursor cell index, or -1 when there is none.
func (l Ledger) CursorIndex() int {
	for i, c := range l {
		if c.Class == Cursor {
			return i
		}
	}
	return -1
}

// Clone returns a copy safe to hand to renderers.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// Counters are the running session counts.
type Counters struct {
	Typed      int
	Correct    int
	Mistakes   int
	Backspaces int
}
