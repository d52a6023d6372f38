package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", "Hello", ""} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterLettersForOtherLangs(t *testing.T) {
	filter := FilterForLang("fr")
	for _, word := range []string{"résumé", "naïve", "été"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass", word)
		}
	}
	for _, word := range []string{"co-op", "l'eau", "42", ""} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}
