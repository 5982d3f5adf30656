// Package daily derives a reproducible practice text from a calendar date.
package daily

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/keytutor/internal/layout"
)

//go:embed sentences.yaml
var sentencesYAML []byte

// Themes is the fixed theme list. Its order is part of the output contract.
var Themes = []string{
	"Nature",
	"Morning",
	"Travel",
	"Home",
	"Sea",
	"Books",
}

// Challenge is the practice text for one date and layout.
type Challenge struct {
	Date           time.Time
	Layout         layout.Layout
	Text           string
	Theme          string
	WordCount      int
	CharacterCount int
}

// Seed folds a local calendar date into the PRNG seed.
func Seed(date time.Time) uint32 {
	y, m, d := date.Date()
	return uint32(y*10000 + int(m)*100 + d)
}

// Sentences returns the sentence pool for a layout.
func Sentences(l layout.Layout) ([]string, error) {
	pools := map[string][]string{}
	if err := yaml.Unmarshal(sentencesYAML, &pools); err != nil {
		return nil, fmt.Errorf("failed to decode sentences: %w", err)
	}
	pool, ok := pools[string(l)]
	if !ok || len(pool) == 0 {
		return nil, fmt.Errorf("no sentences for layout %q", l)
	}
	return pool, nil
}

// Generate builds the challenge for date and layout.
func Generate(date time.Time, l layout.Layout) (Challenge, error) {
	pool, err := Sentences(l)
	if err != nil {
		return Challenge{}, err
	}
	return FromPool(date, l, pool), nil
}

// FromPool builds the challenge from an explicit sentence pool. The pool is
// not modified.
func FromPool(date time.Time, l layout.Layout, pool []string) Challenge {
	rnd := NewRand(Seed(date))
	shuffled := append([]string(nil), pool...)
	Shuffle(rnd, shuffled)

	count := 2 + rnd.Intn(2)
	if count > len(shuffled) {
		count = len(shuffled)
	}
	theme := Themes[rnd.Intn(len(Themes))]

	text := strings.Join(shuffled[:count], " ")
	y, m, d := date.Date()
	return Challenge{
		Date:           time.Date(y, m, d, 0, 0, 0, 0, date.Location()),
		Layout:         l,
		Text:           text,
		Theme:          theme,
		WordCount:      len(strings.Fields(text)),
		CharacterCount: utf8.RuneCountInString(text),
	}
}

// Key is the date key used to record completed challenges.
func Key(date time.Time) string {
	return date.Format("2006-01-02")
}
