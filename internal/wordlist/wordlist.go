// Package wordlist loads, extracts and stores word lists.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// ErrEmpty is returned for a word list with no usable words.
var ErrEmpty = errors.New("word list is empty")

//go:embed en.txt
var builtinEnglish string

// Builtin returns the bundled list for lang, if there is one.
func Builtin(lang string) ([]string, bool) {
	if strings.ToLower(lang) != "en" {
		return nil, false
	}
	words, err := readWords(strings.NewReader(builtinEnglish), FilterForLang("en"))
	if err != nil {
		return nil, false
	}
	return words, true
}

// LoadWords reads one word per line from path, dropping blank lines,
// duplicates and words rejected by filter. A nil filter keeps everything.
func LoadWords(fs afero.Fs, path string, filter FilterFunc) ([]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file, filter)
}

func readWords(r io.Reader, filter FilterFunc) ([]string, error) {
	seen := map[string]struct{}{}
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := norm.NFC.String(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// Extract splits free text into lowercase words ranked by frequency,
// keeping at most size words accepted by filter.
func Extract(r io.Reader, filter FilterFunc, size int) ([]string, error) {
	counts := map[string]int{}
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		word := strings.TrimFunc(scanner.Text(), func(r rune) bool { return !unicode.IsLetter(r) })
		word = norm.NFC.String(strings.ToLower(word))
		if word == "" {
			continue
		}
		if filter != nil && !filter(word) {
			continue
		}
		counts[word]++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan text: %w", err)
	}
	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if size > 0 && len(words) > size {
		words = words[:size]
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// Write stores words one per line at path, replacing it atomically.
func Write(fs afero.Fs, path string, words []string) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := afero.TempFile(fs, dir, "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = fs.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

// Langs lists the languages with a <lang>.txt list in dir.
func Langs(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read word list directory: %w", err)
	}
	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") || strings.HasPrefix(name, ".") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs, nil
}
