package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keytutor/internal/layout"
)

func TestRandKnownSequence(t *testing.T) {
	r := NewRand(1)
	assert.Equal(t, 0.6270739405881613, r.Float64())
	assert.Equal(t, 0.002735721180215478, r.Float64())
	assert.Equal(t, 0.5274470399599522, r.Float64())

	r = NewRand(20240315)
	assert.Equal(t, 0.3361363497097045, r.Float64())
	assert.Equal(t, 0.3595054061152041, r.Float64())
}

func TestSeedUsesCalendarDate(t *testing.T) {
	date := time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, uint32(20240315), Seed(date))
	assert.Equal(t, uint32(20251231), Seed(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestShufflePermutes(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	Shuffle(NewRand(42), items)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, items)
}

func TestGenerateKnownChallenges(t *testing.T) {
	cases := []struct {
		date  time.Time
		l     layout.Layout
		text  string
		theme string
		words int
		chars int
	}{
		{
			date:  time.Date(2024, time.March, 15, 8, 0, 0, 0, time.UTC),
			l:     layout.English,
			text:  "The quick brown fox jumps over the lazy dog. A gentle breeze carried the smell of rain across the valley.",
			theme: "Travel",
			words: 20,
			chars: 105,
		},
		{
			date:  time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC),
			l:     layout.English,
			text:  "Children laughed as they chased kites along the beach. Every morning the baker opens his shop before sunrise.",
			theme: "Home",
			words: 18,
			chars: 109,
		},
		{
			date:  time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC),
			l:     layout.Russian,
			text:  "Дети смеялись и запускали воздушных змеев у моря. Каждое утро пекарь открывает лавку до рассвета.",
			theme: "Home",
			words: 15,
			chars: 97,
		},
	}
	for _, tc := range cases {
		got, err := Generate(tc.date, tc.l)
		require.NoError(t, err)
		assert.Equal(t, tc.text, got.Text)
		assert.Equal(t, tc.theme, got.Theme)
		assert.Equal(t, tc.words, got.WordCount)
		assert.Equal(t, tc.chars, got.CharacterCount)
		assert.Equal(t, tc.l, got.Layout)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	date := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)
	a, err := Generate(date, layout.Russian)
	require.NoError(t, err)
	b, err := Generate(date.Add(20*time.Hour), layout.Russian)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFromPoolLeavesPoolIntact(t *testing.T) {
	pool := []string{"one.", "two.", "three.", "four."}
	got := FromPool(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), layout.English, pool)
	assert.Equal(t, []string{"one.", "two.", "three.", "four."}, pool)
	assert.Contains(t, []int{2, 3}, got.WordCount)
}

func TestFromPoolSmallPool(t *testing.T) {
	got := FromPool(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), layout.English, []string{"only one"})
	assert.Equal(t, "only one", got.Text)
	assert.Equal(t, 2, got.WordCount)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "2024-03-05", Key(time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC)))
}
