package typing

import (
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/typetutor/internal/metrics"
)

// Report is everything a completed session hands to its stats sink.
type Report struct {
	ID              string
	Target          string
	StartedAt       time.Time
	EndedAt         time.Time
	Metrics         metrics.SessionMetrics
	Counters        Counters
	Keystrokes      []KeystrokeRecord
	WrongCharacters []WrongCharacterEntry
	CharacterStats  []CharStat
}

// StatsSink receives a report once per completed session.
type StatsSink interface {
	SessionCompleted(Report)
}

// SinkFunc adapts a function to StatsSink.
type SinkFunc func(Report)

// SessionCompleted calls f.
func (f SinkFunc) SessionCompleted(r Report) { f(r) }

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSink sets the sink notified on completion.
func WithSink(sink StatsSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// Session owns the input buffer and reconciliation state for one target.
// It is not safe for concurrent use; the UI event loop is its only caller.
type Session struct {
	state *State
	input string
	clock func() time.Time
	sink  StatsSink

	complete bool
	report   Report
}

// NewSession starts a session for target. Target and input are compared
// in NFC so composed and decomposed input match.
func NewSession(target string, opts ...Option) *Session {
	s := &Session{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.ResetWithText(target)
	return s
}

// OnTextInputChanged reconciles the session with the new buffer value.
// Metrics are latched, and the sink notified, the first time the buffer
// length reaches the target length.
func (s *Session) OnTextInputChanged(newValue string) Result {
	newValue = norm.NFC.String(newValue)
	now := s.clock()
	res := Reconcile(s.state, newValue, s.input, now)
	s.input = newValue
	if res.IsComplete && !s.complete {
		s.finish(now)
	}
	return res
}

func (s *Session) finish(now time.Time) {
	s.complete = true
	counters := s.state.Counters()
	started := s.state.StartedAt()
	m := metrics.Compute(metrics.Input{
		Correct:      counters.Correct,
		TargetLength: s.state.TargetLen(),
		Mistakes:     counters.Mistakes,
		Backspaces:   counters.Backspaces,
		StartedAt:    started,
		EndedAt:      now,
	})
	keystrokes := append([]KeystrokeRecord(nil), s.state.Keystrokes()...)
	s.report = Report{
		ID:              ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Target:          s.state.Target(),
		StartedAt:       started,
		EndedAt:         now,
		Metrics:         m,
		Counters:        counters,
		Keystrokes:      keystrokes,
		WrongCharacters: s.state.WrongCharacters().List(),
		CharacterStats:  CharacterStats(keystrokes),
	}
	if s.sink != nil {
		s.sink.SessionCompleted(s.report)
	}
}

// DisplaySnapshot returns a copy of the ledger for rendering.
func (s *Session) DisplaySnapshot() []Cell {
	return s.state.Ledger().Clone()
}

// Counters returns the current counters.
func (s *Session) Counters() Counters {
	return s.state.Counters()
}

// Metrics returns the latched metrics once the session is complete.
func (s *Session) Metrics() (metrics.SessionMetrics, bool) {
	if !s.complete {
		return metrics.SessionMetrics{}, false
	}
	return s.report.Metrics, true
}

// Report returns the completion report once the session is complete.
func (s *Session) Report() (Report, bool) {
	return s.report, s.complete
}

// IsComplete reports whether the session has reached its target length.
func (s *Session) IsComplete() bool {
	return s.complete
}

// WrongCharacters lists the session's mistyped target characters.
func (s *Session) WrongCharacters() []WrongCharacterEntry {
	return s.state.WrongCharacters().List()
}

// Keystrokes returns the keystroke log.
func (s *Session) Keystrokes() []KeystrokeRecord {
	return s.state.Keystrokes()
}

// Input returns the last buffer value seen.
func (s *Session) Input() string {
	return s.input
}

// Target returns the target text.
func (s *Session) Target() string {
	return s.state.Target()
}

// TargetLen returns the target length in runes.
func (s *Session) TargetLen() int {
	return s.state.TargetLen()
}

// StartedAt returns when typing started, or the zero time.
func (s *Session) StartedAt() time.Time {
	return s.state.StartedAt()
}

// Reset starts over on the current target.
func (s *Session) Reset() {
	s.ResetWithText(s.Target())
}

// ResetWithText replaces all state with a fresh session for target.
func (s *Session) ResetWithText(target string) {
	s.state = NewState(norm.NFC.String(target))
	s.input = ""
	s.complete = false
	s.report = Report{}
}
