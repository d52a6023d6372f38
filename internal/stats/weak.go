package stats

import (
	"context"
	"fmt"
	"sort"
	"unicode"

	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/keyboard"
	"github.com/verte-zerg/typetutor/internal/model"
)

// SelectWeakChars selects the lowest-accuracy characters from aggregates.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.CharAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i])
		aj := accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		runes := []rune(candidates[i].Char)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}

// SelectWeakKeyChars returns the lowercase letters and symbols produced by
// the top weakest keys, skipping keys with fewer than minPresses presses
// and keys without a single mistake.
func SelectWeakKeyChars(hm heatmap.Heatmap, top, minPresses int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	for _, k := range hm.Weakest(top, minPresses) {
		if k.ErrorCount == 0 {
			continue
		}
		for _, r := range keyboard.CharsForKey(k.KeyCode) {
			if unicode.IsUpper(r) || unicode.IsSpace(r) {
				continue
			}
			weakSet[r] = struct{}{}
		}
	}
	return weakSet
}

func accuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

// WeakSource is the subset of the store that weak-set selection reads.
type WeakSource interface {
	GetWeakKeys(ctx context.Context, window int, lang string) ([]model.KeyAggregate, error)
	GetWeakChars(ctx context.Context, window int, lang string) ([]model.CharAggregate, error)
}

// LoadWeakSet picks the characters to bias word drills toward from the
// last cfg.WeakWindow sessions. Characters on the weakest keys win; when
// no key qualifies it falls back to the lowest-accuracy characters.
func LoadWeakSet(ctx context.Context, src WeakSource, cfg model.Config) (map[rune]struct{}, error) {
	keys, err := src.GetWeakKeys(ctx, cfg.WeakWindow, cfg.Lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load weak keys: %w", err)
	}
	if set := SelectWeakKeyChars(HeatmapFromAggregates(keys), cfg.WeakTop, cfg.MinPresses); len(set) > 0 {
		return set, nil
	}
	chars, err := src.GetWeakChars(ctx, cfg.WeakWindow, cfg.Lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load weak chars: %w", err)
	}
	return SelectWeakChars(chars, cfg.WeakTop), nil
}
