package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetutor/internal/keyboard"
)

var t0 = time.UnixMilli(1_700_000_000_000)

func at(ms int64) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestNewLedger(t *testing.T) {
	ledger := NewLedger("abc")
	require.Len(t, ledger, 3)
	assert.Equal(t, []Classification{Cursor, Untyped, Untyped}, ledger.Classes())
	for _, c := range ledger {
		assert.False(t, c.HasTyped())
	}
	assert.Equal(t, 'b', ledger[1].Original)

	assert.Empty(t, NewLedger(""))
}

func TestReconcileSimpleCompletion(t *testing.T) {
	st := NewState("abc")

	res := Reconcile(st, "a", "", at(0))
	assert.Equal(t, 1, res.Counters.Typed)
	assert.Equal(t, 1, res.Counters.Correct)
	assert.Equal(t, []Classification{Correct, Cursor, Untyped}, st.Ledger().Classes())
	assert.False(t, res.IsComplete)

	res = Reconcile(st, "ab", "a", at(100))
	assert.Equal(t, 2, res.Counters.Typed)
	assert.Equal(t, 2, res.Counters.Correct)

	res = Reconcile(st, "abc", "ab", at(200))
	assert.Equal(t, 3, res.Counters.Typed)
	assert.Equal(t, 3, res.Counters.Correct)
	assert.True(t, res.IsComplete)
	assert.Equal(t, -1, st.Ledger().CursorIndex())
}

func TestReconcileIncorrectThenBackspace(t *testing.T) {
	st := NewState("abc")

	res := Reconcile(st, "z", "", at(0))
	assert.Equal(t, []Classification{Incorrect, Cursor, Untyped}, st.Ledger().Classes())
	assert.Equal(t, 1, res.Counters.Mistakes)
	wrong := st.WrongCharacters().List()
	require.Len(t, wrong, 1)
	assert.Equal(t, WrongCharacterEntry{ExpectedChar: "a", ErrorCount: 1, Positions: []int{0}}, wrong[0])

	res = Reconcile(st, "", "z", at(50))
	assert.Equal(t, 1, res.Counters.Backspaces)
	assert.Equal(t, 0, res.Counters.Mistakes)
	assert.Equal(t, []Classification{Cursor, Untyped, Untyped}, st.Ledger().Classes())
	assert.False(t, st.Ledger()[0].HasTyped())

	wrong = st.WrongCharacters().List()
	require.Len(t, wrong, 1)
	assert.Equal(t, 1, wrong[0].ErrorCount)
}

func TestReconcilePasteBatch(t *testing.T) {
	st := NewState("abc")
	res := Reconcile(st, "abc", "", at(10))

	assert.True(t, res.IsComplete)
	log := st.Keystrokes()
	require.Len(t, log, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, log[i].ActualChar)
		assert.Equal(t, want, log[i].ExpectedChar)
		assert.True(t, log[i].Correct)
		assert.Equal(t, int64(0), log[i].TimeSinceLastKeyMs)
	}
	assert.Equal(t, "KeyB", log[1].KeyCode)
	assert.True(t, res.IsComplete)
}

func TestReconcileIdempotentOnNoChange(t *testing.T) {
	st := NewState("hello")
	Reconcile(st, "hx", "", at(0))
	before := st.Ledger().Clone()
	counters := st.Counters()
	logLen := len(st.Keystrokes())

	res := Reconcile(st, "hx", "hx", at(500))
	assert.Equal(t, counters, res.Counters)
	assert.Equal(t, before, st.Ledger())
	assert.Len(t, st.Keystrokes(), logLen)
	assert.Equal(t, 1, st.WrongCharacters().List()[0].ErrorCount)
}

func TestReconcileBackspaceRetypeRoundTrip(t *testing.T) {
	target := "the quick\tbrown\nfox"
	runes := []rune(target)
	for n := 1; n <= len(runes); n++ {
		prefix := string(runes[:n])
		shorter := string(runes[:n-1])

		single := NewState(target)
		Reconcile(single, prefix, "", at(0))

		trip := NewState(target)
		Reconcile(trip, prefix, "", at(0))
		Reconcile(trip, shorter, prefix, at(10))
		Reconcile(trip, prefix, shorter, at(20))

		assert.Equal(t, single.Ledger().Classes(), trip.Ledger().Classes(), "prefix %q", prefix)
		assert.Equal(t, single.Counters().Correct, trip.Counters().Correct)
		assert.Equal(t, 1, trip.Counters().Backspaces)
	}
}

func TestReconcileCounterInvariant(t *testing.T) {
	st := NewState("abcd")
	inputs := []string{"x", "xb", "x", "", "ab", "abzz", "abz", "abcdef", "ab"}
	prev := ""
	for i, in := range inputs {
		res := Reconcile(st, in, prev, at(int64(i*100)))
		want := min(len([]rune(in)), 4)
		assert.Equal(t, want, res.Counters.Correct+res.Counters.Mistakes, "input %q", in)
		assert.Equal(t, want, res.Counters.Typed, "input %q", in)
		cursors := 0
		for _, c := range st.Ledger() {
			if c.Class == Cursor {
				cursors++
			}
		}
		if len([]rune(in)) >= 4 {
			assert.Zero(t, cursors, "input %q", in)
		} else {
			assert.Equal(t, 1, cursors, "input %q", in)
		}
		prev = in
	}
}

func TestReconcileCompletionBoundary(t *testing.T) {
	st := NewState("ab")
	assert.False(t, Reconcile(st, "a", "", at(0)).IsComplete)
	assert.True(t, Reconcile(st, "ab", "a", at(1)).IsComplete)

	res := Reconcile(st, "abc", "ab", at(2))
	assert.False(t, res.IsComplete)
	assert.Equal(t, 2, res.Counters.Typed)
	assert.Len(t, st.Ledger(), 2)

	log := st.Keystrokes()
	last := log[len(log)-1]
	assert.Equal(t, "", last.ExpectedChar)
	assert.False(t, last.Correct)
	assert.Equal(t, "KeyC", last.KeyCode)
	assert.Equal(t, 0, st.WrongCharacters().Len())
}

func TestReconcileWrongCharacterPositionsAreASet(t *testing.T) {
	st := NewState("abc")
	Reconcile(st, "az", "", at(0))
	Reconcile(st, "az", "az", at(10))
	Reconcile(st, "a", "az", at(20))
	Reconcile(st, "az", "a", at(30))

	wrong := st.WrongCharacters().List()
	require.Len(t, wrong, 1)
	assert.Equal(t, "b", wrong[0].ExpectedChar)
	assert.Equal(t, 2, wrong[0].ErrorCount)
	assert.Equal(t, []int{1}, wrong[0].Positions)
}

func TestReconcileBackspaceKeepsWrongCharacterUntilRetyped(t *testing.T) {
	st := NewState("abc")
	Reconcile(st, "x", "", at(0))
	Reconcile(st, "", "x", at(10))
	Reconcile(st, "a", "", at(20))

	wrong := st.WrongCharacters().List()
	require.Len(t, wrong, 1)
	assert.Equal(t, []int{0}, wrong[0].Positions)
	assert.Equal(t, Correct, st.Ledger()[0].Class)
}

func TestReconcileWholesaleReplacement(t *testing.T) {
	st := NewState("abc")
	Reconcile(st, "xbc", "", at(0))
	assert.Equal(t, []Classification{Incorrect, Correct, Correct}, st.Ledger().Classes())

	res := Reconcile(st, "abc", "xbc", at(10))
	assert.Equal(t, []Classification{Correct, Correct, Correct}, st.Ledger().Classes())
	assert.Equal(t, 3, res.Counters.Correct)
	assert.Len(t, st.Keystrokes(), 3)
}

func TestReconcileNewlineAndTabCompareLiterally(t *testing.T) {
	st := NewState("a\n\tb")
	Reconcile(st, "a ", "", at(0))
	assert.Equal(t, Incorrect, st.Ledger()[1].Class)
	Reconcile(st, "a", "a ", at(10))
	Reconcile(st, "a\n\t", "a", at(20))
	assert.Equal(t, []Classification{Correct, Correct, Correct, Cursor}, st.Ledger().Classes())
	assert.Equal(t, "Enter", st.Keystrokes()[1].KeyCode)
}

func TestReconcileTiming(t *testing.T) {
	st := NewState("abcd")
	Reconcile(st, "a", "", at(1000))
	Reconcile(st, "ab", "a", at(1250))
	Reconcile(st, "abc", "ab", at(1100))

	log := st.Keystrokes()
	require.Len(t, log, 3)
	assert.Equal(t, int64(0), log[0].TimeSinceLastKeyMs)
	assert.Equal(t, int64(250), log[1].TimeSinceLastKeyMs)
	assert.Equal(t, int64(0), log[2].TimeSinceLastKeyMs, "negative gaps clamp to zero")
	assert.Equal(t, at(1000).UnixMilli(), log[0].TimestampMs)
	assert.Equal(t, at(1000), st.StartedAt())
}

func TestReconcileEmptyTarget(t *testing.T) {
	st := NewState("")
	res := Reconcile(st, "abc", "", at(0))
	assert.Equal(t, Result{}, res)
	assert.Empty(t, st.Ledger())
	assert.Empty(t, st.Keystrokes())
	assert.True(t, st.StartedAt().IsZero())

	assert.Equal(t, Result{}, Reconcile(nil, "a", "", at(0)))
}

func TestReconcileMultibyteRunes(t *testing.T) {
	st := NewState("héllo")
	res := Reconcile(st, "hé", "", at(0))
	assert.Equal(t, 2, res.Counters.Correct)
	assert.Equal(t, Cursor, st.Ledger()[2].Class)
	assert.Equal(t, keyboard.UnknownKeyCode, st.Keystrokes()[1].KeyCode)
}

func TestCharacterStats(t *testing.T) {
	st := NewState("aab")
	Reconcile(st, "a", "", at(0))
	Reconcile(st, "ax", "a", at(200))
	Reconcile(st, "axb", "ax", at(300))

	got := CharacterStats(st.Keystrokes())
	require.Len(t, got, 2)
	assert.Equal(t, CharStat{Char: "a", Attempts: 2, Errors: 1, AvgTimeBetweenKeys: 100}, got[0])
	assert.Equal(t, CharStat{Char: "b", Attempts: 1, Errors: 0, AvgTimeBetweenKeys: 100}, got[1])
}
