package content

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/afero"
)

// Library indexes quote files laid out as <root>/<lang>/<category>/<file>.
type Library struct {
	fs   afero.Fs
	root string
}

// Category is one category directory of a language.
type Category struct {
	Name        string `json:"name"`
	Directory   string `json:"-"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// FileMeta describes one quote file.
type FileMeta struct {
	ID       string
	FileName string
	Title    string
	Language string
	Category string
	Path     string
}

// NewLibrary returns a library rooted at root on fs.
func NewLibrary(fs afero.Fs, root string) *Library {
	return &Library{fs: fs, root: root}
}

// Root returns the library root.
func (l *Library) Root() string { return l.root }

func (l *Library) subdirs(dir string) ([]string, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Languages lists the language directories.
func (l *Library) Languages() ([]string, error) {
	langs, err := l.subdirs(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan languages in %s: %w", l.root, err)
	}
	return langs, nil
}

// Categories lists the categories of lang, using category.json for names
// and descriptions where present.
func (l *Library) Categories(lang string) ([]Category, error) {
	langDir := path.Join(l.root, lang)
	dirs, err := l.subdirs(langDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories for %s: %w", lang, err)
	}
	out := make([]Category, 0, len(dirs))
	for _, dir := range dirs {
		cat := Category{}
		if data, err := afero.ReadFile(l.fs, path.Join(langDir, dir, "category.json")); err == nil {
			// A malformed category.json falls back to the directory name.
			_ = json.Unmarshal(data, &cat)
		}
		cat.Directory = dir
		if cat.Name == "" {
			cat.Name = titleFromSlug(dir)
		}
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Files lists the quote files of one category, sorted by title.
func (l *Library) Files(lang, category string) ([]FileMeta, error) {
	dir := path.Join(l.root, lang, category)
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan quote files for %s/%s: %w", lang, category, err)
	}
	var out []FileMeta
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || name == "category.json" || !isQuoteFile(name) {
			continue
		}
		base := strings.TrimSuffix(name, path.Ext(name))
		out = append(out, FileMeta{
			ID:       lang + "-" + category + "-" + base,
			FileName: name,
			Title:    titleFromSlug(base),
			Language: lang,
			Category: category,
			Path:     path.Join(dir, name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// All lists every quote file in the library. Unreadable categories are
// skipped.
func (l *Library) All() ([]FileMeta, error) {
	langs, err := l.Languages()
	if err != nil {
		return nil, err
	}
	var out []FileMeta
	for _, lang := range langs {
		cats, err := l.Categories(lang)
		if err != nil {
			continue
		}
		for _, cat := range cats {
			files, err := l.Files(lang, cat.Directory)
			if err != nil {
				continue
			}
			out = append(out, files...)
		}
	}
	return out, nil
}

// Find returns the files whose lang/category/name path fuzzily matches
// query, best match first. An empty query returns every file.
func (l *Library) Find(query string) ([]FileMeta, error) {
	files, err := l.All()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return files, nil
	}
	matches := fuzzy.FindFrom(query, fileSource(files))
	out := make([]FileMeta, 0, len(matches))
	for _, m := range matches {
		out = append(out, files[m.Index])
	}
	return out, nil
}

type fileSource []FileMeta

func (s fileSource) String(i int) string {
	return s[i].Language + "/" + s[i].Category + "/" + s[i].FileName
}

func (s fileSource) Len() int { return len(s) }

func isQuoteFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".txt", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
