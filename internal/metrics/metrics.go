// Package metrics holds the typing performance formulas.
package metrics

import (
	"fmt"
	"math"
)

// CharsPerWord is the conventional length of a "word" for WPM.
const CharsPerWord = 5

// WPM returns words per minute computed from correctly typed characters.
func WPM(correctChars int, elapsedMs int64) int {
	if elapsedMs <= 0 || correctChars <= 0 {
		return 0
	}
	minutes := float64(elapsedMs) / 60000.0
	wpm := (float64(correctChars) / CharsPerWord) / minutes
	return int(math.Round(math.Max(0, wpm)))
}

// NetWPM returns gross WPM over all typed characters minus errors per minute.
func NetWPM(typedChars, errors int, elapsedMs int64) int {
	if elapsedMs <= 0 || typedChars <= 0 {
		return 0
	}
	minutes := float64(elapsedMs) / 60000.0
	gross := (float64(typedChars) / CharsPerWord) / minutes
	if errors < 0 {
		errors = 0
	}
	net := gross - float64(errors)/minutes
	return int(math.Round(math.Max(0, net)))
}

// Accuracy returns the percentage of correct attempts rounded to one decimal.
// No attempts means no mistakes, so it reports 100.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 100
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}

// ProgressPercent returns how far current is through total, clamped to 0-100.
func ProgressPercent(current, total int) int {
	if total <= 0 || current <= 0 {
		return 0
	}
	if current >= total {
		return 100
	}
	return int(float64(current) / float64(total) * 100)
}

// FormatTime renders milliseconds as m:ss, or h:mm:ss past an hour.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// Rating maps accuracy and speed onto a 1-5 score. Accuracy carries 70% of
// the weight.
func Rating(accuracy float64, wpm int) int {
	a := accuracyBucket(accuracy)
	s := speedBucket(wpm)
	return int(math.Round(0.7*float64(a) + 0.3*float64(s)))
}

// Stars scores a lesson attempt on a 0-3 scale from accuracy alone.
func Stars(accuracy float64) int {
	switch {
	case accuracy >= 98:
		return 3
	case accuracy >= 90:
		return 2
	case accuracy >= 80:
		return 1
	default:
		return 0
	}
}

func accuracyBucket(accuracy float64) int {
	switch {
	case accuracy >= 98:
		return 5
	case accuracy >= 95:
		return 4
	case accuracy >= 90:
		return 3
	case accuracy >= 80:
		return 2
	default:
		return 1
	}
}

func speedBucket(wpm int) int {
	switch {
	case wpm >= 60:
		return 5
	case wpm >= 45:
		return 4
	case wpm >= 30:
		return 3
	case wpm >= 15:
		return 2
	default:
		return 1
	}
}
