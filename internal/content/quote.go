package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difficulty grades a quote.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Quote is one entry of a quote file.
type Quote struct {
	Text       string     `json:"text" yaml:"text"`
	Language   string     `json:"language" yaml:"language"`
	Author     *string    `json:"author,omitempty" yaml:"author,omitempty"`
	AuthorBio  *string    `json:"authorBio,omitempty" yaml:"authorBio,omitempty"`
	Year       *int       `json:"year,omitempty" yaml:"year,omitempty"`
	Source     *string    `json:"source,omitempty" yaml:"source,omitempty"`
	Tags       []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// Attribution returns "Author, Source" with whichever parts are set.
func (q Quote) Attribution() string {
	var parts []string
	if q.Author != nil && *q.Author != "" {
		parts = append(parts, *q.Author)
	}
	if q.Source != nil && *q.Source != "" {
		parts = append(parts, *q.Source)
	}
	return strings.Join(parts, ", ")
}

// Format is the encoding of a quote file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// DetectFormat picks a format from the file extension, falling back to
// sniffing for a JSON object or array.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) >= 2 {
		first, last := trimmed[0], trimmed[len(trimmed)-1]
		if (first == '[' && last == ']') || (first == '{' && last == '}') {
			return FormatJSON
		}
	}
	return FormatText
}

var errInvalidQuote = errors.New("invalid quote")

// ValidateQuote checks the required fields and the shape of optional ones.
func ValidateQuote(q Quote) error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrEmptyQuote
	}
	if strings.TrimSpace(q.Language) == "" {
		return fmt.Errorf("%w: language is required", errInvalidQuote)
	}
	optional := []struct {
		name  string
		value *string
	}{{"author", q.Author}, {"authorBio", q.AuthorBio}, {"source", q.Source}}
	for _, f := range optional {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return fmt.Errorf("%w: %s is blank", errInvalidQuote, f.name)
		}
	}
	if q.Year != nil && *q.Year < 0 {
		return fmt.Errorf("%w: negative year", errInvalidQuote)
	}
	switch q.Difficulty {
	case "", Beginner, Intermediate, Advanced:
	default:
		return fmt.Errorf("%w: difficulty %q", errInvalidQuote, q.Difficulty)
	}
	return nil
}

// ParseOptions controls ParseQuotes.
type ParseOptions struct {
	Validate bool
	// Language keeps only quotes in this language when set. Plain-text
	// quotes are tagged with it, or "en" when empty.
	Language string
}

// ParseQuotes decodes a quote file. Structured files may hold a single
// quote or a list. Invalid entries are skipped when other entries are
// valid; a file with no valid entries is an error.
func ParseQuotes(name string, data []byte, opts ParseOptions) ([]Quote, error) {
	switch DetectFormat(name, data) {
	case FormatJSON:
		return parseStructured(data, opts, func(b []byte) ([]Quote, error) {
			trimmed := bytes.TrimSpace(b)
			if len(trimmed) > 0 && trimmed[0] == '{' {
				var q Quote
				if err := json.Unmarshal(trimmed, &q); err != nil {
					return nil, err
				}
				return []Quote{q}, nil
			}
			var qs []Quote
			err := json.Unmarshal(trimmed, &qs)
			return qs, err
		})
	case FormatYAML:
		return parseStructured(data, opts, func(b []byte) ([]Quote, error) {
			var node yaml.Node
			if err := yaml.Unmarshal(b, &node); err != nil {
				return nil, err
			}
			if len(node.Content) == 0 {
				return nil, nil
			}
			if node.Content[0].Kind == yaml.MappingNode {
				var q Quote
				if err := node.Content[0].Decode(&q); err != nil {
					return nil, err
				}
				return []Quote{q}, nil
			}
			var qs []Quote
			err := node.Content[0].Decode(&qs)
			return qs, err
		})
	default:
		return parseText(data, opts)
	}
}

func parseStructured(data []byte, opts ParseOptions, decode func([]byte) ([]Quote, error)) ([]Quote, error) {
	quotes, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}
	var (
		valid   []Quote
		invalid []string
	)
	for i, q := range quotes {
		if opts.Validate {
			if err := ValidateQuote(q); err != nil {
				invalid = append(invalid, fmt.Sprintf("index %d: %v", i, err))
				continue
			}
		}
		if opts.Language != "" && q.Language != opts.Language {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 && len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuotes, strings.Join(invalid, ", "))
	}
	return valid, nil
}

func parseText(data []byte, opts ParseOptions) ([]Quote, error) {
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	var quotes []Quote
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		quotes = append(quotes, Quote{Text: line, Language: lang})
	}
	if len(quotes) == 0 {
		return nil, ErrNoQuotes
	}
	return quotes, nil
}

// Summary describes a quote collection.
type Summary struct {
	Count             int
	Languages         []string
	CommonTags        []string
	AverageDifficulty Difficulty
}

// Summarize counts quotes and languages, keeps tags present on at least a
// quarter of the quotes, and averages difficulty where given.
func Summarize(quotes []Quote) Summary {
	if len(quotes) == 0 {
		return Summary{}
	}
	langs := map[string]struct{}{}
	tags := map[string]int{}
	score, graded := 0, 0
	for _, q := range quotes {
		langs[q.Language] = struct{}{}
		for _, tag := range q.Tags {
			tags[tag]++
		}
		switch q.Difficulty {
		case Beginner:
			score, graded = score+1, graded+1
		case Intermediate:
			score, graded = score+2, graded+1
		case Advanced:
			score, graded = score+3, graded+1
		}
	}

	s := Summary{Count: len(quotes)}
	for lang := range langs {
		s.Languages = append(s.Languages, lang)
	}
	sort.Strings(s.Languages)

	threshold := max(1, (len(quotes)+3)/4)
	for tag, n := range tags {
		if n >= threshold {
			s.CommonTags = append(s.CommonTags, tag)
		}
	}
	sort.Strings(s.CommonTags)

	if graded > 0 {
		avg := float64(score) / float64(graded)
		switch {
		case avg <= 1.5:
			s.AverageDifficulty = Beginner
		case avg <= 2.5:
			s.AverageDifficulty = Intermediate
		default:
			s.AverageDifficulty = Advanced
		}
	}
	return s
}
