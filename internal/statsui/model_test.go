package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

type fakeSource struct {
	sessions []model.SessionAggregate
	aggs     []model.CharAggregate
	snap     progress.Snapshot
}

func (f *fakeSource) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	return f.sessions, nil
}

func (f *fakeSource) ListCharAggregatesForSessions(context.Context, []int64) ([]model.CharAggregate, error) {
	return f.aggs, nil
}

func (f *fakeSource) ListCharStatsForSessions(_ context.Context, ids []int64, chars []string) (map[int64]map[string]model.CharAggregate, error) {
	out := map[int64]map[string]model.CharAggregate{}
	for _, id := range ids {
		out[id] = map[string]model.CharAggregate{}
		for _, agg := range f.aggs {
			for _, ch := range chars {
				if agg.Char == ch {
					out[id][ch] = agg
				}
			}
		}
	}
	return out, nil
}

func (f *fakeSource) Load(context.Context) (progress.Snapshot, error) {
	return f.snap, nil
}

func newFakeSource() *fakeSource {
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	snap := progress.NewSnapshot()
	snap.TotalXP = 120
	snap.Streak = progress.Streak{Current: 2, Best: 4, LastDate: "2024-05-01"}
	snap.LetterEMA = map[string]float64{"q": 60, "a": 99}
	snap.LetterHistory = map[string][]tracker.HistoryEntry{
		"q": {{Date: day, Accuracy: 70}, {Date: day, Accuracy: 50}},
	}
	snap.Achievements = achievement.Unlocks{
		"first_steps": {AchievementID: "first_steps", Unlocked: true, UnlockedAt: day},
	}
	return &fakeSource{
		sessions: []model.SessionAggregate{
			{SessionID: 1, EndedAt: day, Mode: model.ModeWords, Correct: 50, Incorrect: 2, DurationMs: 60000, XP: 20},
			{SessionID: 2, EndedAt: day.Add(time.Hour), Mode: model.ModeWords, Correct: 80, Incorrect: 1, DurationMs: 60000, XP: 25},
		},
		aggs: []model.CharAggregate{
			{Char: "a", Correct: 40, Incorrect: 1, LatencySumMs: 4000, LatencyCount: 40},
			{Char: "q", Correct: 3, Incorrect: 2},
		},
		snap: snap,
	}
}

func newTestModel(t *testing.T, src *fakeSource, opts ...Option) *Model {
	t.Helper()
	defs, err := achievement.DefaultDefinitions()
	require.NoError(t, err)
	m := NewModel(src, achievement.NewChecker(defs), model.StatsConfig{CurveWindow: 5}, opts...)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestOverviewShowsProgressCards(t *testing.T) {
	m := newTestModel(t, newFakeSource())
	view := m.View()
	for _, want := range []string{"Overview", "Total XP", "120", "2 (best 4)", "Sessions"} {
		assert.Contains(t, view, want)
	}
}

func TestWeakTabListsTrackedLetters(t *testing.T) {
	m := newTestModel(t, newFakeSource())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabWeak, m.activeTab)
	view := m.View()
	assert.Contains(t, view, "q")
	assert.Contains(t, view, "60.0%")
	assert.NotContains(t, view, "99.0%")
}

func TestAchievementsTabMarksSeen(t *testing.T) {
	src := newFakeSource()
	var seen []string
	m := newTestModel(t, src, WithSeen(func(_ context.Context, ids []string) error {
		seen = append(seen, ids...)
		return nil
	}))
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, tabAchievements, m.activeTab)
	assert.Equal(t, []string{"first_steps"}, seen)

	view := m.View()
	assert.Contains(t, view, "NEW")
	assert.True(t, strings.Contains(view, "Unlocked 1 of"))

	// A second visit has nothing left to acknowledge.
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, []string{"first_steps"}, seen)
}

func TestFilterRejectsUnknownMode(t *testing.T) {
	m := newTestModel(t, newFakeSource())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.filterMode)
	m.filterInputs[1].SetValue("race")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.filterMode)
	assert.Contains(t, m.filterError, "invalid mode")

	m.filterInputs[1].SetValue("words")
	m.filterInputs[3].SetValue("1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filterMode)
	assert.Equal(t, model.ModeWords, m.cfg.Mode)
	assert.Equal(t, 1, m.cfg.Last)
	assert.Len(t, m.report.Sessions, 1)
}

func TestCurveWindowSteps(t *testing.T) {
	assert.Equal(t, 5, nextCurveWindow(1))
	assert.Equal(t, 10, nextCurveWindow(5))
	assert.Equal(t, 10, nextCurveWindow(7))
	assert.Equal(t, 1, prevCurveWindow(5))
	assert.Equal(t, 5, prevCurveWindow(7))
	assert.Equal(t, 10, prevCurveWindow(15))
}

func TestSplitChars(t *testing.T) {
	assert.Equal(t, []string{"a", "s", "d"}, splitChars("a, s,d,a"))
	assert.Nil(t, splitChars("  "))
}
