package tracker

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(values ...float64) []HistoryEntry {
	out := make([]HistoryEntry, len(values))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		out[i] = HistoryEntry{Date: base.AddDate(0, 0, i), Accuracy: v}
	}
	return out
}

func TestUpdateFirstSampleSetsEMA(t *testing.T) {
	tr := New()
	assert.Equal(t, 72.5, tr.Update("a", 72.5))
	acc, ok := tr.Accuracy("a")
	require.True(t, ok)
	assert.Equal(t, 72.5, acc)
}

func TestUpdateBlendsWithPrior(t *testing.T) {
	tr := New()
	tr.Update("a", 90)
	got := tr.Update("a", 61.37)
	want := math.Round((0.7*90+0.3*61.37)*100) / 100
	assert.Equal(t, want, got)
	assert.Len(t, tr.History("a"), 2)
}

func TestUpdateClampsAndBoundsHistory(t *testing.T) {
	tr := New(WithMaxHistory(3))
	tr.Update("q", 150)
	acc, _ := tr.Accuracy("q")
	assert.Equal(t, 100.0, acc)
	for i := 0; i < 5; i++ {
		tr.Update("q", float64(i))
	}
	h := tr.History("q")
	require.Len(t, h, 3)
	assert.Equal(t, 2.0, h[0].Accuracy)
	assert.Equal(t, 4.0, h[2].Accuracy)
}

func TestUpdateAllFoldsCaseAndSkipsNonLetters(t *testing.T) {
	tr := New()
	letters := tr.UpdateAll(map[rune]Sample{
		'A': {Attempts: 2, Correct: 2},
		'a': {Attempts: 2, Correct: 0},
		' ': {Attempts: 5, Correct: 5},
		',': {Attempts: 1, Correct: 0},
	})
	assert.Equal(t, []string{"a"}, letters)
	acc, ok := tr.Accuracy("a")
	require.True(t, ok)
	assert.Equal(t, 50.0, acc)
}

func TestTrendStableWithFewEntries(t *testing.T) {
	assert.Equal(t, TrendStable, LetterTrend(nil))
	assert.Equal(t, TrendStable, LetterTrend(entries(10)))
	assert.Equal(t, TrendStable, LetterTrend(entries(10, 100)))
}

func TestTrendDirection(t *testing.T) {
	assert.Equal(t, TrendImproving, LetterTrend(entries(60, 70, 80, 90)))
	assert.Equal(t, TrendDeclining, LetterTrend(entries(90, 80, 70, 60)))
	assert.Equal(t, TrendStable, LetterTrend(entries(80, 82, 81, 83)))
	// Midpoint of three entries puts one in the older half.
	assert.Equal(t, TrendImproving, LetterTrend(entries(70, 75, 75)))
}

func TestTrendBoundaryIsInclusive(t *testing.T) {
	assert.Equal(t, TrendImproving, LetterTrend(entries(70, 70, 75, 75)))
	assert.Equal(t, TrendDeclining, LetterTrend(entries(75, 75, 70, 70)))
	assert.Equal(t, TrendStable, LetterTrend(entries(70, 70, 74.9, 74.9)))
	assert.Equal(t, TrendStable, LetterTrend(entries(74.9, 74.9, 70, 70)))
}

func TestConsistency(t *testing.T) {
	assert.Equal(t, 100.0, Consistency(entries(40)))
	assert.Equal(t, 100.0, Consistency(entries(80, 80, 80)))
	// Population std dev of {50, 100} is 25.
	assert.InDelta(t, 100-(25.0/35.0)*100, Consistency(entries(50, 100)), 1e-9)
	assert.Equal(t, 0.0, Consistency(entries(0, 100)))
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 40, Priority(60, TrendStable, 100))
	assert.Equal(t, 55, Priority(60, TrendDeclining, 100))
	assert.Equal(t, 30, Priority(60, TrendImproving, 100))
	assert.Equal(t, 45, Priority(60, TrendStable, 50))
	assert.Equal(t, 100, Priority(5, TrendDeclining, 0))
	assert.Equal(t, 0, Priority(99, TrendImproving, 100))
}

func TestWeakLettersRankedByPriority(t *testing.T) {
	tr := FromSnapshot(
		map[string]float64{"a": 95, "b": 70, "c": 50, "d": 79.99},
		map[string][]HistoryEntry{
			"b": entries(90, 85, 60, 55),
		},
	)
	weak := tr.WeakLetters()
	require.Len(t, weak, 3)
	assert.Equal(t, "c", weak[0].Letter)
	assert.Equal(t, "b", weak[1].Letter)
	assert.Equal(t, TrendDeclining, weak[1].Trend)
	assert.Equal(t, "d", weak[2].Letter)
	for _, info := range weak {
		assert.Less(t, info.Accuracy, WeakThreshold)
		assert.GreaterOrEqual(t, info.Priority, 0)
		assert.LessOrEqual(t, info.Priority, 100)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	tr := New()
	tr.Update("a", 50)
	ema, history := tr.Snapshot()
	ema["a"] = 1
	history["a"][0].Accuracy = 1
	acc, _ := tr.Accuracy("a")
	assert.Equal(t, 50.0, acc)
	assert.Equal(t, 50.0, tr.History("a")[0].Accuracy)
}

func TestMasteredAndWeakMap(t *testing.T) {
	tr := FromSnapshot(
		map[string]float64{"a": 97, "b": 96, "ж": 40},
		map[string][]HistoryEntry{"a": entries(97, 97, 97), "b": entries(96)},
	)
	assert.Equal(t, []string{"a"}, tr.Mastered(3))
	assert.Equal(t, map[rune]float64{'ж': 40}, WeakMap(tr.WeakLetters(), 0))
}

func TestWeakMapKeepsTopEntries(t *testing.T) {
	infos := []WeakLetterInfo{{Letter: "q", Accuracy: 40}, {Letter: "z", Accuracy: 60}, {Letter: "x", Accuracy: 70}}
	assert.Equal(t, map[rune]float64{'q': 40, 'z': 60}, WeakMap(infos, 2))
	assert.Len(t, WeakMap(infos, 10), 3)
	assert.Empty(t, WeakMap(nil, 3))
}
