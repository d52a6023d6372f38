package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/typetutor/internal/content"
	"github.com/verte-zerg/typetutor/internal/typing"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		request: content.Request{Mode: content.ModeWords},
		session: typing.NewSession("abcd"),
		input:   []rune("ab"),
		hasLast: true,
		lastWPM: 72.4,
		lastAcc: 0.978,
		allWPM:  68.1,
		allAcc:  0.969,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"words", "Progress 50%", "Last 72.4 WPM", "97.8%", "All-time 68.1 WPM", "96.9%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterEmptyTarget(t *testing.T) {
	m := &Model{session: typing.NewSession("")}
	if out := m.renderFooter(); out != "" {
		t.Fatalf("expected empty footer, got %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
