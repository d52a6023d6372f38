package heatmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetutor/internal/keyboard"
	"github.com/verte-zerg/typetutor/internal/typing"
)

func rec(expected, actual string, sinceMs int64) typing.KeystrokeRecord {
	r := typing.KeystrokeRecord{
		Key:                actual,
		Correct:            expected != "" && expected == actual,
		ExpectedChar:       expected,
		ActualChar:         actual,
		TimeSinceLastKeyMs: sinceMs,
	}
	r.KeyCode = keyboard.KeyCodeForString(r.HeatmapChar())
	return r
}

func TestProjectIsShiftIndependent(t *testing.T) {
	hm := Project([]typing.KeystrokeRecord{
		rec("a", "a", 100),
		rec("A", "s", 200),
		rec("!", "!", 300),
		rec("1", "1", 0),
	})

	keyA := hm["KeyA"]
	assert.Equal(t, 2, keyA.TotalPresses)
	assert.Equal(t, 1, keyA.ErrorCount)
	assert.Equal(t, 150.0, keyA.AverageSpeedMs)
	assert.Equal(t, "A", keyA.KeyLabel)
	assert.Equal(t, keyboard.Position{Row: 2, Col: 1}, keyA.Position)

	digit := hm["Digit1"]
	assert.Equal(t, 2, digit.TotalPresses)
	assert.Equal(t, 0, digit.ErrorCount)
	assert.Equal(t, 150.0, digit.AverageSpeedMs)

	assert.NotContains(t, hm, "KeyS")
}

func TestProjectRunningMean(t *testing.T) {
	var records []typing.KeystrokeRecord
	for _, ms := range []int64{10, 20, 30, 40} {
		records = append(records, rec("e", "e", ms))
	}
	assert.Equal(t, 25.0, Project(records)["KeyE"].AverageSpeedMs)
}

func TestProjectOvertypedAndUnknown(t *testing.T) {
	hm := Project([]typing.KeystrokeRecord{
		rec("", "x", 50),
		rec("é", "e", 50),
	})
	assert.Equal(t, 1, hm["KeyX"].ErrorCount)
	assert.Equal(t, 1, hm[keyboard.UnknownKeyCode].TotalPresses)
	assert.Equal(t, keyboard.UnknownKeyCode, hm[keyboard.UnknownKeyCode].KeyLabel)
}

func TestProjectUsesRecordKeyCode(t *testing.T) {
	r := rec("f", "f", 80)
	r.KeyCode = "KeyJ"
	blank := rec("g", "g", 80)
	blank.KeyCode = ""

	hm := Project([]typing.KeystrokeRecord{r, blank})
	assert.Equal(t, 1, hm["KeyJ"].TotalPresses)
	assert.NotContains(t, hm, "KeyF")
	assert.NotContains(t, hm, "KeyG")
	assert.Equal(t, 1, hm[keyboard.UnknownKeyCode].TotalPresses)
}

func TestProjectEmpty(t *testing.T) {
	assert.Empty(t, Project(nil))
}

func TestMerge(t *testing.T) {
	a := Heatmap{"KeyA": {KeyCode: "KeyA", TotalPresses: 2, ErrorCount: 1, AverageSpeedMs: 100}}
	b := Heatmap{
		"KeyA": {KeyCode: "KeyA", TotalPresses: 6, ErrorCount: 0, AverageSpeedMs: 200},
		"KeyB": {KeyCode: "KeyB", TotalPresses: 1},
	}
	got := a.Merge(b)
	require.Len(t, got, 2)
	assert.Equal(t, 8, got["KeyA"].TotalPresses)
	assert.Equal(t, 1, got["KeyA"].ErrorCount)
	assert.Equal(t, 175.0, got["KeyA"].AverageSpeedMs)
	assert.Equal(t, 2, a["KeyA"].TotalPresses, "receiver untouched")

	presses, errs := got.Totals()
	assert.Equal(t, 9, presses)
	assert.Equal(t, 1, errs)
}

func TestWeakestAndStrongest(t *testing.T) {
	hm := Heatmap{
		"KeyA":                 {KeyCode: "KeyA", TotalPresses: 20, ErrorCount: 10},
		"KeyB":                 {KeyCode: "KeyB", TotalPresses: 10, ErrorCount: 1},
		"KeyC":                 {KeyCode: "KeyC", TotalPresses: 40, ErrorCount: 0},
		"KeyD":                 {KeyCode: "KeyD", TotalPresses: 5, ErrorCount: 5},
		"KeyE":                 {KeyCode: "KeyE", TotalPresses: 30, ErrorCount: 3},
		keyboard.UnknownKeyCode: {KeyCode: keyboard.UnknownKeyCode, TotalPresses: 50, ErrorCount: 50},
	}

	codes := func(stats []KeyStat) []string {
		out := make([]string, len(stats))
		for i, st := range stats {
			out[i] = st.KeyCode
		}
		return out
	}

	assert.Equal(t, []string{"KeyA", "KeyE", "KeyB", "KeyC"}, codes(hm.Weakest(10, 10)))
	assert.Equal(t, []string{"KeyA", "KeyE"}, codes(hm.Weakest(2, 10)))
	assert.Equal(t, []string{"KeyC", "KeyE", "KeyB"}, codes(hm.Strongest(3, 10)))
	assert.Equal(t, "KeyD", hm.Weakest(1, 0)[0].KeyCode)
	assert.Empty(t, hm.Weakest(0, 0))
}

func TestErrorBand(t *testing.T) {
	tests := []struct {
		errors, presses int
		want            Level
	}{
		{0, 0, LevelNone},
		{0, 10, LevelBest},
		{1, 20, LevelGood},
		{1, 10, LevelFair},
		{2, 10, LevelPoor},
		{3, 10, LevelWorst},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorBand(tt.errors, tt.presses), "%d/%d", tt.errors, tt.presses)
	}
}

func TestSpeedBand(t *testing.T) {
	tests := map[float64]Level{
		0:   LevelNone,
		100: LevelBest,
		101: LevelGood,
		350: LevelFair,
		500: LevelPoor,
		501: LevelWorst,
	}
	for ms, want := range tests {
		assert.Equal(t, want, SpeedBand(ms), "%vms", ms)
	}
}

func TestAccuracyBand(t *testing.T) {
	assert.Equal(t, LevelNone, AccuracyBand(0, 0))
	assert.Equal(t, LevelBest, AccuracyBand(1, 50))
	assert.Equal(t, LevelGood, AccuracyBand(1, 20))
	assert.Equal(t, LevelFair, AccuracyBand(1, 10))
	assert.Equal(t, LevelPoor, AccuracyBand(2, 10))
	assert.Equal(t, LevelWorst, AccuracyBand(3, 10))
}

func TestGameErrorBand(t *testing.T) {
	assert.Equal(t, LevelNone, GameErrorBand(0, 10))
	assert.Equal(t, LevelBest, GameErrorBand(2, 10))
	assert.Equal(t, LevelGood, GameErrorBand(4, 10))
	assert.Equal(t, LevelFair, GameErrorBand(6, 10))
	assert.Equal(t, LevelPoor, GameErrorBand(8, 10))
	assert.Equal(t, LevelWorst, GameErrorBand(10, 10))
	assert.Equal(t, LevelWorst, GameErrorBand(3, 0))
}

func TestHeatmapLevel(t *testing.T) {
	hm := Heatmap{
		"KeyA": {KeyCode: "KeyA", TotalPresses: 10, ErrorCount: 1, AverageSpeedMs: 250},
		"KeyB": {KeyCode: "KeyB", TotalPresses: 10, ErrorCount: 5},
	}
	assert.Equal(t, LevelFair, hm.Level("KeyA", SchemeErrors))
	assert.Equal(t, LevelFair, hm.Level("KeyA", SchemeSpeed))
	assert.Equal(t, LevelFair, hm.Level("KeyA", SchemeAccuracy))
	assert.Equal(t, LevelBest, hm.Level("KeyA", SchemeGameErrors))
	assert.Equal(t, LevelWorst, hm.Level("KeyB", SchemeGameErrors))
	assert.Equal(t, LevelNone, hm.Level("KeyZ", SchemeErrors))
}

func TestParseScheme(t *testing.T) {
	got, err := ParseScheme(" Speed ")
	require.NoError(t, err)
	assert.Equal(t, SchemeSpeed, got)

	got, err = ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeErrors, got)

	_, err = ParseScheme("rainbow")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestRenderPlain(t *testing.T) {
	hm := Project([]typing.KeystrokeRecord{rec("a", "s", 100)})
	out := Render(hm, RenderOptions{Scheme: SchemeErrors})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, len(keyboard.QWERTY.Rows)+2)
	assert.Contains(t, lines[2], "[A#]")
	assert.Contains(t, lines[2], "[S ]")
	assert.Contains(t, lines[0], "[Backs ]")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "errors: "))
}

func TestRenderSizesKeysByWidth(t *testing.T) {
	lines := strings.Split(Render(Heatmap{}, RenderOptions{Scheme: SchemeErrors}), "\n")
	assert.Contains(t, lines[4], "[Space"+strings.Repeat(" ", 18)+"]")
	for i := range keyboard.QWERTY.Rows {
		assert.Equal(t, 60, len(lines[i]), "row %d", i)
	}
}

func TestByHandAndFinger(t *testing.T) {
	hm := Project([]typing.KeystrokeRecord{
		rec("f", "f", 100),
		rec("j", "k", 100),
		rec(" ", " ", 100),
		rec("é", "e", 100),
	})

	hands := hm.ByHand()
	require.Len(t, hands, 2)
	assert.Equal(t, GroupStat{Name: "left", Presses: 2, Errors: 0}, hands[0])
	assert.Equal(t, GroupStat{Name: "right", Presses: 1, Errors: 1}, hands[1])
	assert.Equal(t, 1.0, hands[1].ErrorRate())

	fingers := hm.ByFinger()
	require.Len(t, fingers, len(keyboard.Fingers))
	byName := map[string]GroupStat{}
	for _, g := range fingers {
		byName[g.Name] = g
	}
	assert.Equal(t, 1, byName["thumb"].Presses)
	assert.Equal(t, GroupStat{Name: "index", Presses: 2, Errors: 1}, byName["index"])
	assert.Equal(t, 0.0, byName["pinky"].ErrorRate())
}
