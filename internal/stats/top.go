package stats

import (
	"sort"
	"unicode/utf8"

	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

// TopLetters returns the n most practiced letters, case-folded. Spaces and
// punctuation are left out because the letter tracker ignores them too.
// Ties break alphabetically.
func TopLetters(aggs []model.CharAggregate, n int) []string {
	if n <= 0 {
		return nil
	}
	totals := map[string]int{}
	for _, agg := range aggs {
		r, size := utf8.DecodeRuneInString(agg.Char)
		if size == 0 || size != len(agg.Char) {
			continue
		}
		letter, ok := tracker.NormalizeLetter(r)
		if !ok {
			continue
		}
		totals[letter] += agg.Correct + agg.Incorrect
	}
	letters := make([]string, 0, len(totals))
	for letter := range totals {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool {
		a, b := letters[i], letters[j]
		if totals[a] == totals[b] {
			return a < b
		}
		return totals[a] > totals[b]
	})
	if len(letters) > n {
		letters = letters[:n]
	}
	return letters
}
