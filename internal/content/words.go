package content

import (
	"math/rand"
	"strings"
	"unicode"
)

// WordOptions shapes a generated word drill.
type WordOptions struct {
	Count    int
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
	// Weak biases selection toward words containing these characters.
	Weak       map[rune]struct{}
	WeakFactor float64
}

// DefaultPunctSet is used when WordOptions.PunctSet is empty.
var DefaultPunctSet = []rune(".,;:!?")

// GenerateWords joins Count words drawn from words with single spaces.
// Without weak characters every word is equally likely; otherwise a word
// weighs 1 + weakCount*WeakFactor.
func GenerateWords(rnd *rand.Rand, words []string, opts WordOptions) string {
	if len(words) == 0 || opts.Count <= 0 {
		return ""
	}
	punct := opts.PunctSet
	if len(punct) == 0 {
		punct = DefaultPunctSet
	}

	pick := func() string { return words[rnd.Intn(len(words))] }
	if len(opts.Weak) > 0 && opts.WeakFactor > 0 {
		pick = weightedPicker(rnd, words, opts.Weak, opts.WeakFactor)
	}

	out := make([]string, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		word := capitalize(rnd, pick(), opts.CapsPct)
		word = punctuate(rnd, word, opts.PunctPct, punct)
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

func weightedPicker(rnd *rand.Rand, words []string, weak map[rune]struct{}, factor float64) func() string {
	cumulative := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		hits := 0
		for _, r := range strings.ToLower(word) {
			if _, ok := weak[r]; ok {
				hits++
			}
		}
		total += 1 + float64(hits)*factor
		cumulative[i] = total
	}
	return func() string {
		target := rnd.Float64() * total
		lo, hi := 0, len(cumulative)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if cumulative[mid] < target {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return words[lo]
	}
}

func capitalize(rnd *rand.Rand, word string, pct float64) string {
	if pct <= 0 || rnd.Float64() > pct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func punctuate(rnd *rand.Rand, word string, pct float64, set []rune) string {
	if pct <= 0 || rnd.Float64() > pct {
		return word
	}
	return word + string(set[rnd.Intn(len(set))])
}
