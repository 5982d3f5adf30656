package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/metrics"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

const resultWeakLimit = 5

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	panelStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

func (m *Model) renderResults() string {
	res := m.result
	out := m.outcome
	lines := []string{
		titleStyle.Render(m.assignment.Title + " complete"),
		"",
		row("Speed", fmt.Sprintf("%d WPM (net %d)", res.WPM, res.NetWPM)),
		row("Accuracy", fmt.Sprintf("%.1f%%", res.Accuracy)),
		row("Time", metrics.FormatTime(res.Duration.Milliseconds())),
		row("Rating", ratingStars(res.Rating, 5)),
	}
	if m.assignment.Completion.Mode == model.ModeLesson {
		lines = append(lines, row("Lesson", ratingStars(out.Stars, 3)))
	}
	lines = append(lines, "", res.Feedback.Message(), "")
	lines = append(lines, renderXP(out.XP)...)
	if len(out.Unlocked) > 0 {
		lines = append(lines, "", titleStyle.Render("Achievements unlocked"))
		for _, id := range out.Unlocked {
			lines = append(lines, "  "+m.achievementLabel(id))
		}
	}
	if weak := renderWeak(out.WeakLetters); weak != "" {
		lines = append(lines, "", row("Weak letters", weak))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func ratingStars(n, total int) string {
	n = min(max(n, 0), total)
	return strings.Repeat("★", n) + strings.Repeat("☆", total-n)
}

func renderXP(xp achievement.XPBreakdown) []string {
	lines := []string{row("XP earned", fmt.Sprintf("+%d", xp.Total))}
	parts := []struct {
		label string
		value int
	}{
		{"  base", xp.BaseXP},
		{"  stars", xp.StarBonus},
		{"  accuracy", xp.AccuracyBonus},
		{"  speed", xp.SpeedBonus},
		{"  streak", xp.StreakBonus},
	}
	for _, p := range parts {
		if p.value > 0 {
			lines = append(lines, labelStyle.Render(p.label)+fmt.Sprintf("+%d", p.value))
		}
	}
	return lines
}

func (m *Model) achievementLabel(id string) string {
	if m.checker != nil {
		if def, ok := m.checker.Definition(id); ok {
			return def.Icon + " " + def.Title
		}
	}
	return id
}

func renderWeak(infos []tracker.WeakLetterInfo) string {
	if len(infos) == 0 {
		return ""
	}
	n := min(len(infos), resultWeakLimit)
	parts := make([]string, 0, n)
	for _, info := range infos[:n] {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", info.Letter, info.Accuracy))
	}
	return strings.Join(parts, ", ")
}
