package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestSessionCompletesOnceAndLatchesMetrics(t *testing.T) {
	clock := &fakeClock{now: t0}
	var reports []Report
	s := NewSession("abcde", WithClock(clock.Now), WithSink(SinkFunc(func(r Report) {
		reports = append(reports, r)
	})))

	for _, in := range []string{"a", "ab", "abc", "abcd"} {
		clock.advance(time.Second)
		s.OnTextInputChanged(in)
	}
	_, ok := s.Metrics()
	assert.False(t, ok)
	assert.Empty(t, reports)

	clock.advance(time.Second)
	res := s.OnTextInputChanged("abcde")
	require.True(t, res.IsComplete)
	require.Len(t, reports, 1)

	m, ok := s.Metrics()
	require.True(t, ok)
	assert.Equal(t, 4.0, m.ElapsedSeconds)
	assert.Equal(t, 75, m.CharactersPerMinute)
	assert.Equal(t, 15, m.WordsPerMinute)
	assert.Equal(t, 100, m.AccuracyPercentage)

	report := reports[0]
	assert.Len(t, report.ID, 26)
	assert.Equal(t, "abcde", report.Target)
	assert.Equal(t, t0.Add(time.Second), report.StartedAt)
	assert.Equal(t, t0.Add(5*time.Second), report.EndedAt)
	assert.Len(t, report.Keystrokes, 5)
	assert.Len(t, report.CharacterStats, 5)

	// Backspace and retype again: no second notification, metrics unchanged.
	clock.advance(10 * time.Second)
	s.OnTextInputChanged("abcd")
	s.OnTextInputChanged("abcdx")
	assert.Len(t, reports, 1)
	again, _ := s.Metrics()
	assert.Equal(t, m, again)
	assert.Equal(t, 1, s.Counters().Mistakes)
}

func TestSessionWithoutSink(t *testing.T) {
	s := NewSession("ok")
	s.OnTextInputChanged("ok")
	assert.True(t, s.IsComplete())
	report, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, 2, report.Counters.Correct)
}

func TestSessionReset(t *testing.T) {
	clock := &fakeClock{now: t0}
	calls := 0
	s := NewSession("ab", WithClock(clock.Now), WithSink(SinkFunc(func(Report) { calls++ })))
	s.OnTextInputChanged("x")
	s.OnTextInputChanged("xb")
	require.True(t, s.IsComplete())

	s.Reset()
	assert.False(t, s.IsComplete())
	assert.Equal(t, "", s.Input())
	assert.Equal(t, "ab", s.Target())
	assert.Equal(t, Counters{}, s.Counters())
	assert.Empty(t, s.Keystrokes())
	assert.Empty(t, s.WrongCharacters())
	assert.True(t, s.StartedAt().IsZero())
	assert.Equal(t, []Classification{Cursor, Untyped}, Ledger(s.DisplaySnapshot()).Classes())

	s.OnTextInputChanged("ab")
	assert.Equal(t, 2, calls)
}

func TestSessionResetWithText(t *testing.T) {
	s := NewSession("abc")
	s.OnTextInputChanged("ab")

	s.ResetWithText("xy")
	assert.Equal(t, "xy", s.Target())
	assert.Equal(t, 2, s.TargetLen())
	assert.Len(t, s.DisplaySnapshot(), 2)
	assert.True(t, s.OnTextInputChanged("xy").IsComplete)
}

func TestSessionNormalizesToNFC(t *testing.T) {
	decomposed := "cafe\u0301"
	s := NewSession(decomposed)
	assert.Equal(t, 4, s.TargetLen())

	res := s.OnTextInputChanged("caf\u00e9")
	assert.True(t, res.IsComplete)
	assert.Equal(t, 4, res.Counters.Correct)
}

func TestSessionSnapshotIsACopy(t *testing.T) {
	s := NewSession("ab")
	snap := s.DisplaySnapshot()
	snap[0].Class = Incorrect
	assert.Equal(t, Cursor, s.DisplaySnapshot()[0].Class)
}

func TestSessionEmptyTargetNeverCompletes(t *testing.T) {
	calls := 0
	s := NewSession("", WithSink(SinkFunc(func(Report) { calls++ })))
	res := s.OnTextInputChanged("")
	assert.False(t, res.IsComplete)
	s.OnTextInputChanged("abc")
	assert.False(t, s.IsComplete())
	assert.Zero(t, calls)
}
