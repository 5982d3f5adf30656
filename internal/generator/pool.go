package generator

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyPool is returned when a pool would contain no words.
var ErrEmptyPool = errors.New("word pool is empty")

// Profile limits word length for a learner group.
type Profile struct {
	Name   string
	MinLen int
	MaxLen int
}

var (
	ProfileKids  = Profile{Name: "kids", MinLen: 2, MaxLen: 5}
	ProfileTeen  = Profile{Name: "teen", MinLen: 2, MaxLen: 8}
	ProfileAdult = Profile{Name: "adult"}
)

// ProfileFor returns the length profile for an age group name. Unknown
// names get the unbounded adult profile.
func ProfileFor(name string) Profile {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProfileKids.Name:
		return ProfileKids
	case ProfileTeen.Name:
		return ProfileTeen
	default:
		return ProfileAdult
	}
}

func (p Profile) allows(word string) bool {
	n := utf8.RuneCountInString(word)
	if p.MinLen > 0 && n < p.MinLen {
		return false
	}
	if p.MaxLen > 0 && n > p.MaxLen {
		return false
	}
	return true
}

// Pool is a word list with a precomputed letter to words index.
type Pool struct {
	words []string
	index map[rune][]string
}

// NewPool builds a pool, dropping blanks and duplicates.
func NewPool(words []string) (*Pool, error) {
	p := &Pool{index: map[rune][]string{}}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		p.words = append(p.words, w)
		letters := map[rune]struct{}{}
		for _, r := range w {
			if !unicode.IsLetter(r) {
				continue
			}
			letters[unicode.ToLower(r)] = struct{}{}
		}
		for r := range letters {
			p.index[r] = append(p.index[r], w)
		}
	}
	if len(p.words) == 0 {
		return nil, ErrEmptyPool
	}
	return p, nil
}

// Len returns the number of words.
func (p *Pool) Len() int {
	return len(p.words)
}

// Words returns a copy of the word list.
func (p *Pool) Words() []string {
	return append([]string(nil), p.words...)
}

// WordsWith returns the indexed words containing letter (case-folded).
func (p *Pool) WordsWith(letter rune) []string {
	return p.index[unicode.ToLower(letter)]
}

func filterProfile(words []string, profile Profile) []string {
	if profile.MinLen == 0 && profile.MaxLen == 0 {
		return words
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if profile.allows(w) {
			out = append(out, w)
		}
	}
	return out
}
