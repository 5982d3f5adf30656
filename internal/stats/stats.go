// Package stats computes and renders practice statistics.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/keytutor/internal/metrics"
	"github.com/verte-zerg/keytutor/internal/model"
)

// sparkChars must not contain a blank: table rows are right-trimmed.
const sparkChars = ".:-=+*#%@"

// SessionMetrics computes unrounded WPM and CPM plus percent accuracy for a
// session. Zero duration yields zero speeds; no keystrokes yields 100%.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	accuracy = metrics.Accuracy(correct, correct+incorrect)
	if durationMs <= 0 || correct <= 0 {
		return 0, 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	cpm = float64(correct) / minutes
	wpm = cpm / metrics.CharsPerWord
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary table for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	bestWPM := 0.0
	totalXP := 0
	var totalMs int64
	for _, s := range sessions {
		totalXP += s.XP
		totalMs += s.DurationMs
		wpm, cpm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalCPM += cpm
		totalAcc += acc
		if wpm > bestWPM {
			bestWPM = wpm
		}
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg CPM: %.2f\n", totalCPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", totalAcc/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Practice Time: %s\n", metrics.FormatTime(totalMs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "XP Earned: %d\n", totalXP); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints learning curves for WPM and accuracy.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 0, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i], _, accs[i] = SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	charts := []Chart{
		{Title: "Speed", Unit: " wpm", Series: []Series{{Name: "WPM", Values: MovingAverage(wpms, window)}}},
		{Title: "Accuracy", Unit: "%", Min: 0, Max: 100, Series: []Series{{Name: "Accuracy", Values: MovingAverage(accs, window)}}},
	}
	for _, ch := range charts {
		ch.Width, ch.Height, ch.Color = width, height, useColor
		if err := ch.Render(w); err != nil {
			return err
		}
	}
	return nil
}

var charColumns = columns([]string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}, 1, 2, 3, 4)

// RenderCharTable prints per-character aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	type row struct {
		char      string
		acc       float64
		latency   float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		charLabel := agg.Char
		if charLabel == " " {
			charLabel = "<space>"
		}
		acc := metrics.Accuracy(agg.Correct, agg.Correct+agg.Incorrect)
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, row{
			char:      charLabel,
			acc:       acc,
			latency:   lat,
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	// Sort by lowest accuracy.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})

	if _, err := fmt.Fprintln(w, "Per-Character (Recent Sessions)"); err != nil {
		return err
	}

	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.char,
			fmt.Sprintf("%.1f%%", r.acc),
			fmt.Sprintf("%.1f", r.latency),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	lines := formatTable(charColumns, tableRows)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCharCurves prints per-character accuracy curves.
func RenderCharCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, chars []string, window int) error {
	return RenderCharCurvesWithSize(w, sessions, perSession, chars, window, 0, 0, false)
}

// RenderCharCurvesWithSize prints per-character accuracy curves sized to a
// given total width. Sessions where a character did not appear are skipped
// for that character.
func RenderCharCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, chars []string, window, totalWidth, height int, useColor bool) error {
	if len(chars) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	for _, ch := range chars {
		var accSeries []float64
		for _, s := range sessions {
			agg, ok := perSession[s.SessionID][ch]
			if !ok || agg.Correct+agg.Incorrect == 0 {
				continue
			}
			accSeries = append(accSeries, metrics.Accuracy(agg.Correct, agg.Correct+agg.Incorrect))
		}
		chart := Chart{
			Title:  fmt.Sprintf("Char %s", ch),
			Unit:   "%",
			Min:    0,
			Max:    100,
			Width:  width,
			Height: height,
			Color:  useColor,
			Series: []Series{{Name: "Accuracy", Values: MovingAverage(accSeries, window)}},
		}
		if err := chart.Render(w); err != nil {
			return err
		}
	}
	return nil
}
