// Package keyboard describes the physical QWERTY layout used for heatmaps.
package keyboard

import (
	"sort"
	"strings"
)

// UnknownKeyCode is returned for characters with no physical key.
const UnknownKeyCode = "Unknown"

// Finger names the finger that presses a key.
type Finger string

// Fingers used by the layout.
const (
	Thumb  Finger = "thumb"
	Index  Finger = "index"
	Middle Finger = "middle"
	Ring   Finger = "ring"
	Pinky  Finger = "pinky"
)

// Fingers lists every finger, thumb first.
var Fingers = []Finger{Thumb, Index, Middle, Ring, Pinky}

// Hand names the hand that presses a key.
type Hand string

// Hands used by the layout.
const (
	Left  Hand = "left"
	Right Hand = "right"
)

// Hands lists both hands, left first.
var Hands = []Hand{Left, Right}

// Position is the row/column of a key on the heatmap grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key defines one physical key.
type Key struct {
	Code     string
	Label    string
	Position Position
	Width    float64
	Finger   Finger
	Hand     Hand
}

// Row is an ordered row of keys.
type Row struct {
	Index int
	Keys  []Key
}

// Layout is a complete keyboard layout.
type Layout struct {
	Name string
	Rows []Row
}

func k(code, label string, row, col int, width float64, finger Finger, hand Hand) Key {
	return Key{Code: code, Label: label, Position: Position{Row: row, Col: col}, Width: width, Finger: finger, Hand: hand}
}

// QWERTY is the default ANSI QWERTY layout.
var QWERTY = Layout{
	Name: "QWERTY",
	Rows: []Row{
		{Index: 0, Keys: []Key{
			k("Backquote", "`", 0, 0, 1, Pinky, Left),
			k("Digit1", "1", 0, 1, 1, Pinky, Left),
			k("Digit2", "2", 0, 2, 1, Ring, Left),
			k("Digit3", "3", 0, 3, 1, Middle, Left),
			k("Digit4", "4", 0, 4, 1, Index, Left),
			k("Digit5", "5", 0, 5, 1, Index, Left),
			k("Digit6", "6", 0, 6, 1, Index, Right),
			k("Digit7", "7", 0, 7, 1, Index, Right),
			k("Digit8", "8", 0, 8, 1, Middle, Right),
			k("Digit9", "9", 0, 9, 1, Ring, Right),
			k("Digit0", "0", 0, 10, 1, Pinky, Right),
			k("Minus", "-", 0, 11, 1, Pinky, Right),
			k("Equal", "=", 0, 12, 1, Pinky, Right),
			k("Backspace", "Backspace", 0, 13, 2, Pinky, Right),
		}},
		{Index: 1, Keys: []Key{
			k("Tab", "Tab", 1, 0, 1.5, Pinky, Left),
			k("KeyQ", "Q", 1, 1, 1, Pinky, Left),
			k("KeyW", "W", 1, 2, 1, Ring, Left),
			k("KeyE", "E", 1, 3, 1, Middle, Left),
			k("KeyR", "R", 1, 4, 1, Index, Left),
			k("KeyT", "T", 1, 5, 1, Index, Left),
			k("KeyY", "Y", 1, 6, 1, Index, Right),
			k("KeyU", "U", 1, 7, 1, Index, Right),
			k("KeyI", "I", 1, 8, 1, Middle, Right),
			k("KeyO", "O", 1, 9, 1, Ring, Right),
			k("KeyP", "P", 1, 10, 1, Pinky, Right),
			k("BracketLeft", "[", 1, 11, 1, Pinky, Right),
			k("BracketRight", "]", 1, 12, 1, Pinky, Right),
			k("Backslash", "\\", 1, 13, 1.5, Pinky, Right),
		}},
		{Index: 2, Keys: []Key{
			k("CapsLock", "Caps", 2, 0, 1.75, Pinky, Left),
			k("KeyA", "A", 2, 1, 1, Pinky, Left),
			k("KeyS", "S", 2, 2, 1, Ring, Left),
			k("KeyD", "D", 2, 3, 1, Middle, Left),
			k("KeyF", "F", 2, 4, 1, Index, Left),
			k("KeyG", "G", 2, 5, 1, Index, Left),
			k("KeyH", "H", 2, 6, 1, Index, Right),
			k("KeyJ", "J", 2, 7, 1, Index, Right),
			k("KeyK", "K", 2, 8, 1, Middle, Right),
			k("KeyL", "L", 2, 9, 1, Ring, Right),
			k("Semicolon", ";", 2, 10, 1, Pinky, Right),
			k("Quote", "'", 2, 11, 1, Pinky, Right),
			k("Enter", "Enter", 2, 12, 2.25, Pinky, Right),
		}},
		{Index: 3, Keys: []Key{
			k("ShiftLeft", "Shift", 3, 0, 2.25, Pinky, Left),
			k("KeyZ", "Z", 3, 1, 1, Pinky, Left),
			k("KeyX", "X", 3, 2, 1, Ring, Left),
			k("KeyC", "C", 3, 3, 1, Middle, Left),
			k("KeyV", "V", 3, 4, 1, Index, Left),
			k("KeyB", "B", 3, 5, 1, Index, Left),
			k("KeyN", "N", 3, 6, 1, Index, Right),
			k("KeyM", "M", 3, 7, 1, Index, Right),
			k("Comma", ",", 3, 8, 1, Middle, Right),
			k("Period", ".", 3, 9, 1, Ring, Right),
			k("Slash", "/", 3, 10, 1, Pinky, Right),
			k("ShiftRight", "Shift", 3, 11, 2.75, Pinky, Right),
		}},
		{Index: 4, Keys: []Key{
			k("ControlLeft", "Ctrl", 4, 0, 1.25, Pinky, Left),
			k("MetaLeft", "Win", 4, 1, 1.25, Thumb, Left),
			k("AltLeft", "Alt", 4, 2, 1.25, Thumb, Left),
			k("Space", "Space", 4, 3, 6.25, Thumb, Left),
			k("AltRight", "Alt", 4, 4, 1.25, Thumb, Right),
			k("MetaRight", "Win", 4, 5, 1.25, Thumb, Right),
			k("ContextMenu", "Menu", 4, 6, 1.25, Pinky, Right),
			k("ControlRight", "Ctrl", 4, 7, 1.25, Pinky, Right),
		}},
	},
}

// Shifted characters and the key they share with their unshifted form.
var shiftedChars = map[rune]string{
	'!': "Digit1",
	'@': "Digit2",
	'#': "Digit3",
	'$': "Digit4",
	'%': "Digit5",
	'^': "Digit6",
	'&': "Digit7",
	'*': "Digit8",
	'(': "Digit9",
	')': "Digit0",
	'_': "Minus",
	'+': "Equal",
	'{': "BracketLeft",
	'}': "BracketRight",
	'|': "Backslash",
	':': "Semicolon",
	'"': "Quote",
	'<': "Comma",
	'>': "Period",
	'?': "Slash",
	'~': "Backquote",
}

var (
	keysByCode  = map[string]Key{}
	codesByChar = map[rune]string{}
)

func init() {
	for _, row := range QWERTY.Rows {
		for _, key := range row.Keys {
			keysByCode[key.Code] = key
			label := []rune(key.Label)
			if len(label) != 1 {
				continue
			}
			codesByChar[label[0]] = key.Code
			for _, r := range []rune(strings.ToLower(key.Label)) {
				codesByChar[r] = key.Code
			}
		}
	}
	codesByChar[' '] = "Space"
	codesByChar['\t'] = "Tab"
	codesByChar['\n'] = "Enter"
	for r, code := range shiftedChars {
		codesByChar[r] = code
	}
}

// KeyCodeFor maps a character to the physical key that produces it,
// ignoring shift state. Characters off the layout map to UnknownKeyCode.
func KeyCodeFor(r rune) string {
	if code, ok := codesByChar[r]; ok {
		return code
	}
	return UnknownKeyCode
}

// KeyCodeForString maps the first character of s; empty strings are unknown.
func KeyCodeForString(s string) string {
	for _, r := range s {
		return KeyCodeFor(r)
	}
	return UnknownKeyCode
}

// KeyPosition returns the grid position of a key code.
func KeyPosition(code string) (Position, bool) {
	key, ok := keysByCode[code]
	if !ok {
		return Position{}, false
	}
	return key.Position, true
}

// KeyByCode looks up a key definition.
func KeyByCode(code string) (Key, bool) {
	key, ok := keysByCode[code]
	return key, ok
}

// CharsForKey returns every character produced by a key, sorted.
func CharsForKey(code string) []rune {
	var out []rune
	for r, c := range codesByChar {
		if c == code {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllKeys returns all keys in row order.
func AllKeys() []Key {
	var out []Key
	for _, row := range QWERTY.Rows {
		out = append(out, row.Keys...)
	}
	return out
}

// KeysByFinger returns the keys pressed by a finger.
func KeysByFinger(f Finger) []Key {
	var out []Key
	for _, key := range AllKeys() {
		if key.Finger == f {
			out = append(out, key)
		}
	}
	return out
}

// KeysByHand returns the keys pressed by a hand.
func KeysByHand(h Hand) []Key {
	var out []Key
	for _, key := range AllKeys() {
		if key.Hand == h {
			out = append(out, key)
		}
	}
	return out
}
