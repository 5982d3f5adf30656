package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/keytutor/internal/tracker"
)

// SelectWeakLetters returns the top letters of a priority-ranked weak list.
func SelectWeakLetters(infos []tracker.WeakLetterInfo, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	if top <= 0 || top > len(infos) {
		top = len(infos)
	}
	for _, info := range infos[:top] {
		runes := []rune(info.Letter)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}

// WeakRows formats the weak-letter view as table cells.
func WeakRows(infos []tracker.WeakLetterInfo, history func(letter string) []tracker.HistoryEntry) [][]string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		var values []float64
		if history != nil {
			for _, h := range history(info.Letter) {
				values = append(values, h.Accuracy)
			}
		}
		rows = append(rows, []string{
			info.Letter,
			fmt.Sprintf("%.1f%%", info.Accuracy),
			string(info.Trend),
			fmt.Sprintf("%.0f", info.Consistency),
			fmt.Sprintf("%d", info.Priority),
			Sparkline(values),
		})
	}
	return rows
}

// WeakHeaders are the column titles matching WeakRows.
var WeakHeaders = []string{"Letter", "Accuracy", "Trend", "Consistency", "Priority", "History"}

// RenderWeakTable prints the ranked weak letters.
func RenderWeakTable(w io.Writer, infos []tracker.WeakLetterInfo, history func(letter string) []tracker.HistoryEntry) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No weak letters. Keep practicing!")
		return err
	}
	if _, err := fmt.Fprintln(w, "Weak Letters"); err != nil {
		return err
	}
	lines := formatTable(columns(WeakHeaders, 1, 3, 4), WeakRows(infos, history))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
