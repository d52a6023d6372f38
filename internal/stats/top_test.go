package stats

import (
	"testing"

	"github.com/verte-zerg/typetutor/internal/model"
)

func TestMostMissedChars(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "b", Correct: 30, Incorrect: 1},
		{Char: "a", Correct: 2, Incorrect: 2},
		{Char: "c", Correct: 1, Incorrect: 1},
		{Char: "d", Correct: 50, Incorrect: 0},
	}
	top := MostMissedChars(aggs, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 chars, got %d", len(top))
	}
	if top[0].Char != "a" || top[1].Char != "b" || top[2].Char != "c" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if aggs[0].Char != "b" {
		t.Fatalf("input was reordered: %+v", aggs)
	}
}

func TestMostMissedCharsFillsWithFrequentChars(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "x", Correct: 1},
		{Char: "e", Correct: 40},
		{Char: "q", Correct: 3, Incorrect: 1},
	}
	top := MostMissedChars(aggs, 2)
	if len(top) != 2 || top[0].Char != "q" || top[1].Char != "e" {
		t.Fatalf("unexpected chars: %+v", top)
	}
	if got := MostMissedChars(aggs, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %+v", got)
	}
}
