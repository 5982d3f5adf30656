package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/lesson"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/session"
)

type stepClock struct {
	t time.Time
}

// now advances a fixed step on every read so typing has a measurable pace.
func (c *stepClock) now() time.Time {
	c.t = c.t.Add(150 * time.Millisecond)
	return c.t
}

type harness struct {
	m    *Model
	repo *progress.MemoryRepository
	log  *progress.MemoryLog
}

func newHarness(t *testing.T, cfg model.Config, words ...string) *harness {
	t.Helper()
	src := newTestSource(t, cfg, words...)
	defs, err := achievement.DefaultDefinitions()
	require.NoError(t, err)
	checker := achievement.NewChecker(defs)
	catalog, err := lesson.Default()
	require.NoError(t, err)

	clock := &stepClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	repo := progress.NewMemoryRepository(nil)
	log := &progress.MemoryLog{}
	svc := progress.NewService(repo, log, checker, catalog, progress.WithClock(clock.now))

	m, err := NewModel(context.Background(), src, svc, WithClock(clock.now), WithChecker(checker))
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return &harness{m: m, repo: repo, log: log}
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		if r == ' ' {
			h.m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestCompletionShowsResultsAndPersists(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, Words: 20})
	text := h.m.session.Text()
	require.Equal(t, strings.Repeat("ab ", 19)+"ab", text)

	h.typeText(text)
	require.Equal(t, screenResults, h.m.screen)
	assert.Equal(t, 100.0, h.m.result.Accuracy)
	assert.Positive(t, h.m.outcome.XP.Total)
	assert.Contains(t, h.m.outcome.Unlocked, "perfectionist")
	require.Len(t, h.log.Sessions, 1)
	assert.Equal(t, model.ModeWords, h.log.Sessions[0].Stats.Mode)

	view := h.m.View()
	assert.Contains(t, view, "XP earned")
	assert.Contains(t, view, "Perfectionist")

	h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, screenTyping, h.m.screen)
	assert.Equal(t, session.StatusIdle, h.m.session.Status())
	assert.Contains(t, h.m.renderFooter(), "Last")
}

func TestLayoutMismatchShowsNotice(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, Words: 2})
	h.typeText("ф")
	assert.True(t, h.m.mismatch)
	assert.Equal(t, 0, h.m.session.Cursor())
	assert.Contains(t, h.m.renderFooter(), "Switch keyboard to English")

	h.typeText("a")
	assert.False(t, h.m.mismatch)
	assert.Equal(t, 1, h.m.session.Cursor())
}

func TestAltModifiedKeysAreIgnored(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, Words: 2})
	h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}, Alt: true})
	assert.Equal(t, 0, h.m.session.Cursor())
}

func TestPauseBlocksTyping(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, Words: 2})
	h.typeText("a")
	h.m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, session.StatusPaused, h.m.session.Status())
	h.typeText("b")
	assert.Equal(t, 1, h.m.session.Cursor())
	assert.Contains(t, h.m.View(), "Paused")

	h.m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	h.typeText("b")
	assert.Equal(t, 2, h.m.session.Cursor())
}

func TestResetRestartsSameText(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, Words: 2})
	h.typeText("ax")
	h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, 0, h.m.session.Cursor())
	assert.Equal(t, session.StatusIdle, h.m.session.Status())
	assert.Equal(t, "ab ab", h.m.session.Text())
}

func TestEndlessAppendsAndFinishes(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeEndless})
	initial := h.m.session.Len()
	threshold := int(float64(initial)*0.8) + 1
	h.typeText(string([]rune(h.m.session.Text())[:threshold]))
	assert.Greater(t, h.m.session.Len(), initial)
	assert.Equal(t, h.m.assignment.Stream.Text(), h.m.session.Text())

	h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.Equal(t, screenResults, h.m.screen)
	assert.Equal(t, threshold, h.m.result.TypedChars)
	require.Len(t, h.log.Sessions, 1)
	assert.Equal(t, model.ModeEndless, h.log.Sessions[0].Stats.Mode)
}

func TestFinishDisabledOutsideEndless(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, Words: 2})
	h.typeText("a")
	h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, screenTyping, h.m.screen)
}

func TestLessonCompletionAdvances(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeLesson})
	require.Equal(t, "en-home-1", h.m.assignment.Completion.LessonID)
	h.typeText(h.m.session.Text())
	require.Equal(t, screenResults, h.m.screen)
	assert.True(t, h.m.outcome.LessonCompleted)
	assert.Equal(t, 3, h.m.outcome.Stars)

	h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "en-home-2", h.m.assignment.Completion.LessonID)

	snap, err := h.repo.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, snap.CompletedLessons, "en-home-1")
}

func TestRatingStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", ratingStars(3, 5))
	assert.Equal(t, "☆☆☆", ratingStars(-1, 3))
	assert.Equal(t, "★★★", ratingStars(9, 3))
}
