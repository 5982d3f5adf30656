package tracker

import (
	"math"
	"sort"
)

// Trend classifies how a letter's accuracy is moving.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	trendMinEntries       = 3
	trendDelta            = 5.0
	consistencyMinEntries = 2
	// erraticStdDev is the standard deviation that maps to zero consistency.
	erraticStdDev = 35.0
)

// WeakLetterInfo is the derived analytics view of one letter.
type WeakLetterInfo struct {
	Letter      string
	Accuracy    float64
	Trend       Trend
	Consistency float64
	Priority    int
}

// Analyze derives trend, consistency and priority for a letter.
func Analyze(letter string, accuracy float64, history []HistoryEntry) WeakLetterInfo {
	trend := LetterTrend(history)
	consistency := Consistency(history)
	return WeakLetterInfo{
		Letter:      letter,
		Accuracy:    accuracy,
		Trend:       trend,
		Consistency: consistency,
		Priority:    Priority(accuracy, trend, consistency),
	}
}

// LetterTrend compares the older half of history with the recent half.
func LetterTrend(history []HistoryEntry) Trend {
	if len(history) < trendMinEntries {
		return TrendStable
	}
	mid := len(history) / 2
	diff := meanAccuracy(history[mid:]) - meanAccuracy(history[:mid])
	switch {
	case diff >= trendDelta:
		return TrendImproving
	case diff <= -trendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Consistency maps the population standard deviation of history accuracy to 0-100.
func Consistency(history []HistoryEntry) float64 {
	if len(history) < consistencyMinEntries {
		return 100
	}
	mean := meanAccuracy(history)
	var sum float64
	for _, e := range history {
		d := e.Accuracy - mean
		sum += d * d
	}
	stdDev := math.Sqrt(sum / float64(len(history)))
	return clampPercent(100 - (stdDev/erraticStdDev)*100)
}

// Priority ranks how urgently a letter needs practice, 0-100.
func Priority(accuracy float64, trend Trend, consistency float64) int {
	p := 100 - accuracy
	switch trend {
	case TrendDeclining:
		p += 15
	case TrendImproving:
		p -= 10
	}
	p += (100 - consistency) * 0.1
	return int(math.Round(clampPercent(p)))
}

// SortByPriority orders infos by descending priority, then lower accuracy,
// then letter.
func SortByPriority(infos []WeakLetterInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Priority != infos[j].Priority {
			return infos[i].Priority > infos[j].Priority
		}
		if infos[i].Accuracy != infos[j].Accuracy {
			return infos[i].Accuracy < infos[j].Accuracy
		}
		return infos[i].Letter < infos[j].Letter
	})
}

func meanAccuracy(entries []HistoryEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.Accuracy
	}
	return sum / float64(len(entries))
}

// WeakMap maps the first top entries of a priority-ranked weak list to
// their accuracy, the shape the text generator consumes. top <= 0 keeps all.
func WeakMap(infos []WeakLetterInfo, top int) map[rune]float64 {
	if top <= 0 || top > len(infos) {
		top = len(infos)
	}
	out := make(map[rune]float64, top)
	for _, info := range infos[:top] {
		runes := []rune(info.Letter)
		if len(runes) == 1 {
			out[runes[0]] = info.Accuracy
		}
	}
	return out
}
