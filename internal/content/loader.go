package content

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// Request describes the next target text to produce.
type Request struct {
	Mode Mode
	// Source is a file path for quote and code modes, or the literal text
	// for custom mode.
	Source string
	// Lang filters quotes by language.
	Lang string
	// Length and Chars shape random drills. Chars is a set name or a
	// literal character list.
	Length int
	Chars  string
	// Words is the word list for words mode.
	Words       []string
	WordOptions WordOptions
}

// Item is a target text ready for a session.
type Item struct {
	Mode        Mode
	Text        string
	Title       string
	Attribution string
}

// Loader produces target texts. Quote files are dealt from a shuffled
// deck so a file is exhausted before any quote repeats.
type Loader struct {
	fs    afero.Fs
	rnd   *rand.Rand
	decks map[string][]Quote
}

// NewLoader returns a loader reading from fs, seeded with seed.
func NewLoader(fs afero.Fs, seed int64) *Loader {
	return &Loader{
		fs:    fs,
		rnd:   rand.New(rand.NewSource(seed)),
		decks: map[string][]Quote{},
	}
}

// Rand exposes the loader's random source.
func (l *Loader) Rand() *rand.Rand { return l.rnd }

// Next produces a target text for req. Texts are NFC-normalized.
func (l *Loader) Next(req Request) (Item, error) {
	item, err := l.next(req)
	if err != nil {
		return Item{}, err
	}
	item.Mode = req.Mode
	item.Text = norm.NFC.String(item.Text)
	if strings.TrimSpace(item.Text) == "" {
		return Item{}, fmt.Errorf("%w: %s", ErrEmptyContent, req.Mode)
	}
	return item, nil
}

func (l *Loader) next(req Request) (Item, error) {
	switch req.Mode {
	case ModeQuote:
		return l.nextQuote(req)
	case ModeCode:
		return l.loadCode(req.Source)
	case ModeRandom:
		chars, err := ResolveCharSet(req.Chars)
		if err != nil {
			return Item{}, err
		}
		return Item{Text: RandomChars(l.rnd, chars, req.Length), Title: "Random characters"}, nil
	case ModeAlphabet:
		return Item{Text: AlphabetText, Title: "Alphabet"}, nil
	case ModeNumpad:
		return Item{Text: NumpadText, Title: "Numpad"}, nil
	case ModeWords:
		if len(req.Words) == 0 {
			return Item{}, fmt.Errorf("%w: word list", ErrEmptyContent)
		}
		return Item{Text: GenerateWords(l.rnd, req.Words, req.WordOptions), Title: "Words"}, nil
	case ModeCustom:
		if req.Source == "" {
			return Item{}, ErrNoSource
		}
		return Item{Text: normalizeNewlines(req.Source), Title: "Custom text"}, nil
	default:
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
}

func (l *Loader) nextQuote(req Request) (Item, error) {
	if req.Source == "" {
		return Item{}, ErrNoSource
	}
	key := req.Source + "\x00" + req.Lang
	deck := l.decks[key]
	if len(deck) == 0 {
		quotes, err := l.LoadQuotes(req.Source, req.Lang)
		if err != nil {
			return Item{}, err
		}
		deck = append([]Quote(nil), quotes...)
		l.rnd.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	}
	q := deck[len(deck)-1]
	l.decks[key] = deck[:len(deck)-1]
	return Item{
		Text:        strings.TrimSpace(normalizeNewlines(q.Text)),
		Title:       titleFromSlug(strings.TrimSuffix(filepath.Base(req.Source), filepath.Ext(req.Source))),
		Attribution: q.Attribution(),
	}, nil
}

// LoadQuotes reads and validates a quote file, keeping quotes in lang
// when it is set.
func (l *Loader) LoadQuotes(path, lang string) ([]Quote, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quotes: %w", err)
	}
	quotes, err := ParseQuotes(path, data, ParseOptions{Validate: true, Language: lang})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoQuotes, path)
	}
	return quotes, nil
}

func (l *Loader) loadCode(path string) (Item, error) {
	if path == "" {
		return Item{}, ErrNoSource
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return Item{}, fmt.Errorf("failed to read code: %w", err)
	}
	text := strings.TrimSpace(normalizeNewlines(string(data)))
	if text == "" {
		return Item{}, fmt.Errorf("%w: %s", ErrEmptyContent, path)
	}
	return Item{Text: text, Title: filepath.Base(path)}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
