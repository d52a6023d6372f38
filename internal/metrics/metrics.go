// Package metrics derives speed and accuracy numbers for typing sessions.
package metrics

import (
	"math"
	"time"
)

// CharsPerWord is the standard typing-test word length.
const CharsPerWord = 5

// Input holds what a finished session contributes to its metrics.
type Input struct {
	Correct      int
	TargetLength int
	Mistakes     int
	Backspaces   int
	// StartedAt is zero when typing never started.
	StartedAt time.Time
	EndedAt   time.Time
}

// SessionMetrics are the final numbers for one completed session.
type SessionMetrics struct {
	CharactersPerMinute   int
	WordsPerMinute        int
	AccuracyPercentage    int
	ElapsedSeconds        float64
	Mistakes              int
	Backspaces            int
	BackspaceRatioPercent int
}

// Compute derives session metrics. Rates are based on correct characters;
// words are CharsPerWord characters over the same elapsed time. A session
// with no elapsed time or no target reports zero rates.
func Compute(in Input) SessionMetrics {
	m := SessionMetrics{
		Mistakes:   in.Mistakes,
		Backspaces: in.Backspaces,
	}
	if !in.StartedAt.IsZero() && in.EndedAt.After(in.StartedAt) {
		m.ElapsedSeconds = float64(in.EndedAt.Sub(in.StartedAt).Milliseconds()) / 1000
	}
	if m.ElapsedSeconds > 0 {
		perSecond := float64(in.Correct) / m.ElapsedSeconds
		m.CharactersPerMinute = roundInt(perSecond * 60)
		m.WordsPerMinute = roundInt(perSecond / CharsPerWord * 60)
	}
	if in.TargetLength > 0 {
		m.AccuracyPercentage = roundInt(float64(in.Correct) / float64(in.TargetLength) * 100)
		m.BackspaceRatioPercent = roundInt(float64(in.Backspaces) / float64(in.TargetLength) * 100)
	}
	return m
}

func roundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// Rates computes float WPM, CPM and accuracy for stored sessions, where
// accuracy is correct over all typed characters.
func Rates(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / CharsPerWord) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}
