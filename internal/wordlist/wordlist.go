// Package wordlist loads word lists from files and the built-in pools.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/keytutor/internal/layout"
)

//go:embed en.txt
var englishWords string

//go:embed ru.txt
var russianWords string

// ErrEmpty is returned when a list contains no usable words.
var ErrEmpty = errors.New("word list is empty")

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads one word per line, skipping blank lines.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// Builtin returns the embedded word pool for a layout, already filtered.
func Builtin(l layout.Layout) ([]string, error) {
	raw := englishWords
	if l == layout.Russian {
		raw = russianWords
	}
	words, err := ReadWords(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return Filter(words, FilterForLang(string(l)))
}

// Filter keeps words accepted by keep. An empty result is ErrEmpty.
func Filter(words []string, keep FilterFunc) ([]string, error) {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}
