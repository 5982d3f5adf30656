package generator

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// CalmWeakProbability is the chance per word of targeting a weak letter
	// in ambient practice.
	CalmWeakProbability = 0.4
	// TargetedWeakProbability is the chance per word in targeted practice.
	TargetedWeakProbability = 0.7
	// DefaultChunkChars is the character budget of one generated chunk.
	DefaultChunkChars = 200
)

// TextOptions controls BuildText.
type TextOptions struct {
	// TargetChars is the character budget; each word counts with one space.
	TargetChars int
	// WeakProbability is the per-word chance of drawing a word for a weak
	// or target letter.
	WeakProbability float64
	// Targets is an explicit list of letters to practice.
	Targets []rune
	// Weak maps weak letters to their accuracy. Used when Targets is empty;
	// lower accuracy draws more often.
	Weak    map[rune]float64
	Profile Profile
}

// BuildText selects words until the character budget is reached. It always
// returns at least one word.
func (g *Generator) BuildText(pool *Pool, opts TextOptions) string {
	budget := opts.TargetChars
	if budget <= 0 {
		budget = DefaultChunkChars
	}
	general := filterProfile(pool.words, opts.Profile)
	if len(general) == 0 {
		general = pool.words
	}
	letters, weights := letterWeights(opts)

	words := []string{}
	used := 0
	for used < budget || len(words) == 0 {
		word := ""
		if len(letters) > 0 && g.rnd.Float64() < opts.WeakProbability {
			letter := letters[pickWeighted(g.rnd, weights, sum(weights))]
			word = g.wordWith(pool, letter, opts.Profile)
		}
		if word == "" {
			word = general[g.rnd.Intn(len(general))]
		}
		words = append(words, word)
		used += utf8.RuneCountInString(word) + 1
	}
	return strings.Join(words, " ")
}

// GenerateCalmText builds ambient practice text, biased toward weak letters
// when focusWeak is set.
func (g *Generator) GenerateCalmText(pool *Pool, weak map[rune]float64, focusWeak bool, targetChars int, profile Profile) string {
	opts := TextOptions{TargetChars: targetChars, WeakProbability: CalmWeakProbability, Profile: profile}
	if focusWeak {
		opts.Weak = weak
	}
	return g.BuildText(pool, opts)
}

// GenerateTargetedText builds text drilling the given letters.
func (g *Generator) GenerateTargetedText(pool *Pool, targets []rune, targetChars int, profile Profile) string {
	return g.BuildText(pool, TextOptions{
		TargetChars:     targetChars,
		WeakProbability: TargetedWeakProbability,
		Targets:         targets,
		Profile:         profile,
	})
}

func (g *Generator) wordWith(pool *Pool, letter rune, profile Profile) string {
	candidates := pool.WordsWith(letter)
	if len(candidates) == 0 {
		return ""
	}
	if filtered := filterProfile(candidates, profile); len(filtered) > 0 {
		candidates = filtered
	}
	return candidates[g.rnd.Intn(len(candidates))]
}

// letterWeights returns the letters to draw from. Explicit targets are
// uniform; weak letters weigh 100-accuracy plus one so the weakest dominates.
func letterWeights(opts TextOptions) ([]rune, []float64) {
	if len(opts.Targets) > 0 {
		letters := append([]rune(nil), opts.Targets...)
		weights := make([]float64, len(letters))
		for i := range weights {
			weights[i] = 1
		}
		return letters, weights
	}
	if len(opts.Weak) == 0 {
		return nil, nil
	}
	letters := make([]rune, 0, len(opts.Weak))
	for r := range opts.Weak {
		letters = append(letters, r)
	}
	// Map order is random; sort so seeded generators are reproducible.
	sort.Slice(letters, func(i, j int) bool {
		ai, aj := opts.Weak[letters[i]], opts.Weak[letters[j]]
		if ai != aj {
			return ai < aj
		}
		return letters[i] < letters[j]
	})
	weights := make([]float64, len(letters))
	for i, r := range letters {
		w := 100 - opts.Weak[r]
		if w < 0 {
			w = 0
		}
		weights[i] = w + 1
	}
	return letters, weights
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
