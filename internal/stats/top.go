package stats

import (
	"sort"

	"github.com/verte-zerg/typetutor/internal/model"
)

// MostMissedChars returns up to n aggregates ordered by mistakes, then by
// attempts, so rarely typed characters only fill the list after every
// character that was actually missed.
func MostMissedChars(aggs []model.CharAggregate, n int) []model.CharAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	ranked := append([]model.CharAggregate(nil), aggs...)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Incorrect != b.Incorrect {
			return a.Incorrect > b.Incorrect
		}
		if ta, tb := a.Correct+a.Incorrect, b.Correct+b.Incorrect; ta != tb {
			return ta > tb
		}
		return a.Char < b.Char
	})
	return ranked[:min(n, len(ranked))]
}
