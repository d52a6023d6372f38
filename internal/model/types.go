// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Mode       string
	Source     string
	Length     int
	Chars      string
	Lang       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
	QuotesDir  string
	Scheme     string
	MinPresses int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang       string
	Mode       string
	Since      *time.Time
	Last       int
	Top        int
	MinPresses int
}

// SessionRecord captures a completed typing session.
type SessionRecord struct {
	ID           string
	Mode         string
	Source       string
	Lang         string
	TargetLength int
	StartedAt    time.Time
	EndedAt      time.Time
	DurationMs   int64
	Correct      int
	Mistakes     int
	Backspaces   int
	CPM          int
	WPM          int
	Accuracy     int
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// KeyStats stores per-key stats for a session.
type KeyStats struct {
	KeyCode    string
	Presses    int
	Errors     int
	SpeedSumMs int64
}

// WrongChar stores one mistyped target character for a session.
type WrongChar struct {
	Char       string
	ErrorCount int
	Positions  []int
}

// Aggregated per-char stats for selection or reporting.

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// KeyAggregate aggregates key stats across sessions.
type KeyAggregate struct {
	KeyCode    string
	Presses    int
	Errors     int
	SpeedSumMs int64
}

// WrongCharAggregate totals mistakes for one target character.
type WrongCharAggregate struct {
	Char       string
	ErrorCount int
	Sessions   int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  string
	Mode       string
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	Backspaces int
	DurationMs int64
}
