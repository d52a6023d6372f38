package heatmap

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a heat band, from LevelNone (no data) up to LevelWorst.
type Level int

const (
	LevelNone Level = iota
	LevelBest
	LevelGood
	LevelFair
	LevelPoor
	LevelWorst
)

var levelNames = [...]string{"none", "best", "good", "fair", "poor", "worst"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Scheme selects which measurement a heatmap is colored by.
type Scheme string

const (
	SchemeErrors     Scheme = "errors"
	SchemeSpeed      Scheme = "speed"
	SchemeAccuracy   Scheme = "accuracy"
	SchemeGameErrors Scheme = "game-errors"
)

// Schemes lists every supported scheme.
var Schemes = []Scheme{SchemeErrors, SchemeSpeed, SchemeAccuracy, SchemeGameErrors}

// ErrUnknownScheme is returned by ParseScheme for names outside Schemes.
var ErrUnknownScheme = errors.New("unknown heatmap scheme")

// ParseScheme accepts a scheme name, case-insensitively. Empty means errors.
func ParseScheme(s string) (Scheme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SchemeErrors, nil
	}
	for _, sc := range Schemes {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// ErrorBand bands a key by error rate: 0%, up to 5%, 10%, 20%, above.
func ErrorBand(errorCount, totalPresses int) Level {
	if totalPresses <= 0 {
		return LevelNone
	}
	rate := float64(errorCount) / float64(totalPresses)
	switch {
	case rate == 0:
		return LevelBest
	case rate <= 0.05:
		return LevelGood
	case rate <= 0.1:
		return LevelFair
	case rate <= 0.2:
		return LevelPoor
	default:
		return LevelWorst
	}
}

// SpeedBand bands a key by mean inter-key time in milliseconds.
func SpeedBand(averageMs float64) Level {
	switch {
	case averageMs <= 0:
		return LevelNone
	case averageMs <= 100:
		return LevelBest
	case averageMs <= 200:
		return LevelGood
	case averageMs <= 350:
		return LevelFair
	case averageMs <= 500:
		return LevelPoor
	default:
		return LevelWorst
	}
}

// AccuracyBand bands a key by the share of correct presses.
func AccuracyBand(errorCount, totalPresses int) Level {
	if totalPresses <= 0 {
		return LevelNone
	}
	acc := float64(totalPresses-errorCount) * 100 / float64(totalPresses)
	switch {
	case acc >= 98:
		return LevelBest
	case acc >= 95:
		return LevelGood
	case acc >= 90:
		return LevelFair
	case acc >= 80:
		return LevelPoor
	default:
		return LevelWorst
	}
}

// GameErrorBand bands an error count in fifths of the session maximum.
func GameErrorBand(errorCount, maxErrors int) Level {
	if errorCount <= 0 {
		return LevelNone
	}
	if maxErrors <= 0 {
		maxErrors = 1
	}
	intensity := min(float64(errorCount)/float64(maxErrors), 1)
	switch {
	case intensity <= 0.2:
		return LevelBest
	case intensity <= 0.4:
		return LevelGood
	case intensity <= 0.6:
		return LevelFair
	case intensity <= 0.8:
		return LevelPoor
	default:
		return LevelWorst
	}
}

// Level bands the key with the given code under scheme. Keys absent from
// the heatmap are LevelNone.
func (h Heatmap) Level(code string, scheme Scheme) Level {
	st, ok := h[code]
	if !ok {
		return LevelNone
	}
	switch scheme {
	case SchemeSpeed:
		return SpeedBand(st.AverageSpeedMs)
	case SchemeAccuracy:
		return AccuracyBand(st.ErrorCount, st.TotalPresses)
	case SchemeGameErrors:
		return GameErrorBand(st.ErrorCount, h.MaxErrors())
	default:
		return ErrorBand(st.ErrorCount, st.TotalPresses)
	}
}
