package metrics

import (
	"math"
	"testing"
	"time"
)

func TestComputeFullMinute(t *testing.T) {
	start := time.Unix(1000, 0)
	m := Compute(Input{
		Correct:      60,
		TargetLength: 60,
		StartedAt:    start,
		EndedAt:      start.Add(60 * time.Second),
	})
	if m.CharactersPerMinute != 60 {
		t.Fatalf("expected 60 CPM, got %d", m.CharactersPerMinute)
	}
	if m.WordsPerMinute != 12 {
		t.Fatalf("expected 12 WPM, got %d", m.WordsPerMinute)
	}
	if m.AccuracyPercentage != 100 {
		t.Fatalf("expected 100%% accuracy, got %d", m.AccuracyPercentage)
	}
	if m.ElapsedSeconds != 60 {
		t.Fatalf("expected 60s elapsed, got %v", m.ElapsedSeconds)
	}
}

func TestComputeRounds(t *testing.T) {
	start := time.Unix(0, 0)
	m := Compute(Input{
		Correct:      7,
		TargetLength: 9,
		Mistakes:     2,
		Backspaces:   3,
		StartedAt:    start,
		EndedAt:      start.Add(4 * time.Second),
	})
	if m.CharactersPerMinute != 105 {
		t.Fatalf("expected 105 CPM, got %d", m.CharactersPerMinute)
	}
	if m.WordsPerMinute != 21 {
		t.Fatalf("expected 21 WPM, got %d", m.WordsPerMinute)
	}
	if m.AccuracyPercentage != 78 {
		t.Fatalf("expected 78%% accuracy, got %d", m.AccuracyPercentage)
	}
	if m.BackspaceRatioPercent != 33 {
		t.Fatalf("expected 33%% backspace ratio, got %d", m.BackspaceRatioPercent)
	}
	if m.Mistakes != 2 || m.Backspaces != 3 {
		t.Fatalf("expected counters to pass through, got %+v", m)
	}
}

func TestComputeWithoutStart(t *testing.T) {
	m := Compute(Input{Correct: 5, TargetLength: 5, EndedAt: time.Now()})
	if m.ElapsedSeconds != 0 || m.CharactersPerMinute != 0 || m.WordsPerMinute != 0 {
		t.Fatalf("expected zero rates without a start time, got %+v", m)
	}
	if m.AccuracyPercentage != 100 {
		t.Fatalf("expected accuracy to still be computed, got %d", m.AccuracyPercentage)
	}
}

func TestComputeEmptyTarget(t *testing.T) {
	start := time.Unix(0, 0)
	m := Compute(Input{StartedAt: start, EndedAt: start})
	if m != (SessionMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", m)
	}
}

func TestRates(t *testing.T) {
	wpm, cpm, acc := Rates(50, 10, 60000)
	if math.Abs(wpm-10) > 1e-9 || math.Abs(cpm-50) > 1e-9 {
		t.Fatalf("unexpected rates: wpm=%v cpm=%v", wpm, cpm)
	}
	if math.Abs(acc-50.0/60.0) > 1e-9 {
		t.Fatalf("unexpected accuracy %v", acc)
	}
	if w, c, a := Rates(10, 0, 0); w != 0 || c != 0 || a != 0 {
		t.Fatalf("expected zero rates for zero duration")
	}
}
