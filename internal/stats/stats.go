// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/metrics"
	"github.com/verte-zerg/typetutor/internal/model"
	"github.com/verte-zerg/typetutor/internal/store"
	"github.com/verte-zerg/typetutor/internal/typing"
)

const sparkChars = " .:-=+*#%@"

// Meta describes where a session's text came from.
type Meta struct {
	Mode   string
	Source string
	Lang   string
}

// SessionFromReport converts a completed session report into store rows.
func SessionFromReport(r typing.Report, meta Meta) store.Session {
	m := r.Metrics
	sess := store.Session{
		Record: model.SessionRecord{
			ID:           r.ID,
			Mode:         meta.Mode,
			Source:       meta.Source,
			Lang:         meta.Lang,
			TargetLength: len([]rune(r.Target)),
			StartedAt:    r.StartedAt,
			EndedAt:      r.EndedAt,
			DurationMs:   int64(math.Round(m.ElapsedSeconds * 1000)),
			Correct:      r.Counters.Correct,
			Mistakes:     r.Counters.Mistakes,
			Backspaces:   r.Counters.Backspaces,
			CPM:          m.CharactersPerMinute,
			WPM:          m.WordsPerMinute,
			Accuracy:     m.AccuracyPercentage,
		},
	}
	for _, cs := range r.CharacterStats {
		sess.Chars = append(sess.Chars, model.CharStats{
			Char:         cs.Char,
			Correct:      cs.Attempts - cs.Errors,
			Incorrect:    cs.Errors,
			LatencySumMs: int64(math.Round(cs.AvgTimeBetweenKeys * float64(cs.Attempts))),
			LatencyCount: int64(cs.Attempts),
		})
	}
	for _, ks := range heatmap.Project(r.Keystrokes).Keys() {
		sess.Keys = append(sess.Keys, model.KeyStats{
			KeyCode:    ks.KeyCode,
			Presses:    ks.TotalPresses,
			Errors:     ks.ErrorCount,
			SpeedSumMs: int64(math.Round(ks.AverageSpeedMs * float64(ks.TotalPresses))),
		})
	}
	for _, wc := range r.WrongCharacters {
		sess.Wrong = append(sess.Wrong, model.WrongChar{
			Char:       wc.ExpectedChar,
			ErrorCount: wc.ErrorCount,
			Positions:  append([]int(nil), wc.Positions...),
		})
	}
	return sess
}

// HeatmapFromAggregates rebuilds a heatmap from stored key sums.
func HeatmapFromAggregates(aggs []model.KeyAggregate) heatmap.Heatmap {
	hm := heatmap.Heatmap{}
	for _, agg := range aggs {
		if agg.Presses <= 0 {
			continue
		}
		st := heatmap.NewKeyStat(agg.KeyCode)
		st.TotalPresses = agg.Presses
		st.ErrorCount = agg.Errors
		st.AverageSpeedMs = float64(agg.SpeedSumMs) / float64(agg.Presses)
		hm[agg.KeyCode] = st
	}
	return hm
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for sessions. now anchors the relative
// time of the last session.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, now time.Time) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	var backspaces int
	bestWPM := 0.0
	wpms := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, cpm, acc := metrics.Rates(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalCPM += cpm
		totalAcc += acc
		backspaces += s.Backspaces
		bestWPM = math.Max(bestWPM, wpm)
		wpms[i] = wpm
	}
	count := float64(len(sessions))
	last := sessions[len(sessions)-1]
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %s", humanize.Comma(int64(len(sessions)))),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("Backspaces: %s", humanize.Comma(int64(backspaces))),
		fmt.Sprintf("Last session: %s", humanize.RelTime(last.EndedAt, now, "ago", "from now")),
	}
	if len(sessions) > 1 {
		lines = append(lines, fmt.Sprintf("WPM trend: %s", Sparkline(MovingAverage(wpms, 3))))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCharTable prints per-character aggregates, lowest accuracy first.
// A positive limit keeps only the most frequent characters.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate, limit int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if limit > 0 {
		aggs = MostMissedChars(aggs, limit)
	}
	type row struct {
		char      string
		acc       float64
		latency   float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, row{
			char:      charLabel(agg.Char),
			acc:       accuracy(agg),
			latency:   lat,
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	// Sort by lowest accuracy.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})

	headers := []string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.char,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%.1f", r.latency),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	return writeTable(w, "Per-Character", headers, tableRows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderKeyTable prints per-key stats, highest error rate first, with the
// band each key falls in for scheme.
func RenderKeyTable(w io.Writer, hm heatmap.Heatmap, scheme heatmap.Scheme, minPresses int) error {
	keys := hm.Weakest(len(hm), minPresses)
	if len(keys) == 0 {
		_, err := fmt.Fprintln(w, "No key stats found.")
		return err
	}
	headers := []string{"Key", "Presses", "Errors", "Error Rate", "Avg Speed (ms)", "Band"}
	tableRows := make([][]string, 0, len(keys))
	for _, k := range keys {
		tableRows = append(tableRows, []string{
			k.KeyLabel,
			humanize.Comma(int64(k.TotalPresses)),
			humanize.Comma(int64(k.ErrorCount)),
			fmt.Sprintf("%.1f%%", k.ErrorRate()*100),
			fmt.Sprintf("%.0f", k.AverageSpeedMs),
			hm.Level(k.KeyCode, scheme).String(),
		})
	}
	return writeTable(w, "Per-Key", headers, tableRows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderWrongChars prints the most frequently mistyped characters.
func RenderWrongChars(w io.Writer, wrong []model.WrongCharAggregate) error {
	if len(wrong) == 0 {
		_, err := fmt.Fprintln(w, "No mistakes recorded.")
		return err
	}
	headers := []string{"Char", "Errors", "Sessions"}
	tableRows := make([][]string, 0, len(wrong))
	for _, wc := range wrong {
		tableRows = append(tableRows, []string{
			charLabel(wc.Char),
			humanize.Comma(int64(wc.ErrorCount)),
			humanize.Comma(int64(wc.Sessions)),
		})
	}
	return writeTable(w, "Top Wrong Characters", headers, tableRows, map[int]bool{1: true, 2: true})
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func charLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\n":
		return "<enter>"
	case "\t":
		return "<tab>"
	}
	return ch
}
