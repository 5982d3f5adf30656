package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/layout"
	"github.com/verte-zerg/keytutor/internal/lesson"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/session"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	return c.t
}

func newTestService(t *testing.T, repo Repository, log SessionLog) (*Service, *testClock) {
	t.Helper()
	defs, err := achievement.DefaultDefinitions()
	require.NoError(t, err)
	catalog, err := lesson.Default()
	require.NoError(t, err)
	clock := &testClock{t: time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)}
	checker := achievement.NewChecker(defs).WithClock(clock.now)
	return NewService(repo, log, checker, catalog, WithClock(clock.now)), clock
}

func result(wpm int, acc float64, letters map[rune]session.LetterResult) session.Result {
	typed := 0
	for _, lr := range letters {
		typed += lr.Attempts
	}
	return session.Result{
		SessionID:  "3f1c8d9a-0000-4000-8000-000000000001",
		Layout:     layout.English,
		StartedAt:  time.Date(2024, 6, 10, 17, 59, 0, 0, time.UTC),
		EndedAt:    time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC),
		Duration:   time.Minute,
		WPM:        wpm,
		Accuracy:   acc,
		TypedChars: typed,
		Letters:    letters,
	}
}

func TestCompleteLessonUnlocksFirstSteps(t *testing.T) {
	repo := NewMemoryRepository(nil)
	log := &MemoryLog{}
	svc, _ := newTestService(t, repo, log)

	res := result(25, 100, map[rune]session.LetterResult{
		'f': {Attempts: 10, Correct: 10, Accuracy: 100},
		'j': {Attempts: 10, Correct: 10, Accuracy: 100},
	})
	out, err := svc.Complete(context.Background(), res, Completion{Mode: model.ModeLesson, LessonID: "en-home-1"})
	require.NoError(t, err)

	assert.True(t, out.LessonCompleted)
	assert.Equal(t, 3, out.Stars)
	assert.Equal(t, 1, out.Streak)
	// Base 10, three stars: 15 adjusted, +3 perfect, no speed bonus, 5% streak.
	assert.Equal(t, achievement.XPBreakdown{
		BaseXP:        10,
		StarBonus:     5,
		AccuracyBonus: 3,
		StreakBonus:   1,
		Total:         19,
	}, out.XP)
	assert.Contains(t, out.Unlocked, "first_steps")
	assert.Equal(t, int64(1), out.SessionRowID)

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 19, snap.TotalXP)
	assert.Equal(t, 1, snap.SessionsCompleted)
	assert.Equal(t, 3, snap.CompletedLessons["en-home-1"].Stars)
	assert.Equal(t, 100.0, snap.LetterEMA["f"])
	assert.Len(t, snap.LetterHistory["j"], 1)
	assert.True(t, snap.Achievements["first_steps"].Unlocked)

	require.Len(t, log.Sessions, 1)
	row := log.Sessions[0].Stats
	assert.Equal(t, model.ModeLesson, row.Mode)
	assert.Equal(t, 20, row.CorrectNonSpace)
	assert.Equal(t, 19, row.XP)
	assert.Equal(t, "en", row.Layout)
}

func TestCompleteLessonNeedsAStar(t *testing.T) {
	repo := NewMemoryRepository(nil)
	svc, _ := newTestService(t, repo, &MemoryLog{})

	res := result(20, 50, map[rune]session.LetterResult{
		'f': {Attempts: 10, Correct: 5, Accuracy: 50},
	})
	out, err := svc.Complete(context.Background(), res, Completion{Mode: model.ModeLesson, LessonID: "en-home-1"})
	require.NoError(t, err)
	assert.False(t, out.LessonCompleted)
	assert.NotContains(t, out.Unlocked, "first_steps")
	require.Len(t, out.WeakLetters, 1)
	assert.Equal(t, "f", out.WeakLetters[0].Letter)
}

func TestMasteryVisibleToSameCompletion(t *testing.T) {
	snap := NewSnapshot()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	hist := []tracker.HistoryEntry{{Date: day, Accuracy: 99}, {Date: day, Accuracy: 99}, {Date: day, Accuracy: 99}}
	for _, l := range []string{"a", "b", "c", "d"} {
		snap.LetterEMA[l] = 99
		snap.LetterHistory[l] = hist
	}
	snap.LetterEMA["e"] = 99
	snap.LetterHistory["e"] = hist[:2]
	doc, err := Encode(snap)
	require.NoError(t, err)

	svc, _ := newTestService(t, NewMemoryRepository(doc), nil)
	res := result(20, 100, map[rune]session.LetterResult{
		'e': {Attempts: 4, Correct: 4, Accuracy: 100},
	})
	out, err := svc.Complete(context.Background(), res, Completion{Mode: model.ModeWords})
	require.NoError(t, err)
	assert.Len(t, out.Mastered, 5)
	assert.Contains(t, out.Unlocked, "letter_master_5")
}

func TestStreakAcrossDays(t *testing.T) {
	repo := NewMemoryRepository(nil)
	svc, clock := newTestService(t, repo, nil)
	res := result(20, 90, map[rune]session.LetterResult{'a': {Attempts: 2, Correct: 2}})
	ctx := context.Background()

	out, err := svc.Complete(ctx, res, Completion{Mode: model.ModeWords})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)

	clock.t = clock.t.Add(2 * time.Hour)
	out, err = svc.Complete(ctx, res, Completion{Mode: model.ModeWords})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)

	clock.t = clock.t.AddDate(0, 0, 1)
	out, err = svc.Complete(ctx, res, Completion{Mode: model.ModeWords})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Streak)

	clock.t = clock.t.AddDate(0, 0, 2)
	out, err = svc.Complete(ctx, res, Completion{Mode: model.ModeWords})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Streak.Best)
}

func TestDailyCompletion(t *testing.T) {
	repo := NewMemoryRepository(nil)
	svc, _ := newTestService(t, repo, nil)
	res := result(20, 90, map[rune]session.LetterResult{'a': {Attempts: 2, Correct: 2}})
	out, err := svc.Complete(context.Background(), res, Completion{
		Mode:      model.ModeDaily,
		DailyDate: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, out.XP.BaseXP)
	assert.Contains(t, out.Unlocked, "daily_first")

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.DailyCompleted["2024-06-09"])
}

func TestUnlocksAreNeverRevoked(t *testing.T) {
	snap := NewSnapshot()
	at := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	snap.Achievements["marathon"] = achievement.Progress{AchievementID: "marathon", Unlocked: true, UnlockedAt: at, Seen: true}
	doc, err := Encode(snap)
	require.NoError(t, err)
	repo := NewMemoryRepository(doc)
	svc, _ := newTestService(t, repo, nil)

	res := result(20, 90, map[rune]session.LetterResult{'a': {Attempts: 2, Correct: 2}})
	out, err := svc.Complete(context.Background(), res, Completion{Mode: model.ModeWords})
	require.NoError(t, err)
	assert.NotContains(t, out.Unlocked, "marathon")

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Achievements["marathon"].Unlocked)
	assert.True(t, got.Achievements["marathon"].UnlockedAt.Equal(at))
}

func TestCompleteRejectsEmptyResult(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryRepository(nil), nil)
	_, err := svc.Complete(context.Background(), session.Result{}, Completion{})
	assert.ErrorIs(t, err, ErrNothingTyped)
}

type failingRepo struct {
	MemoryRepository
}

func (r *failingRepo) Save(context.Context, Snapshot) error {
	return errors.New("disk full")
}

func TestCompleteSaveFailureSkipsLog(t *testing.T) {
	log := &MemoryLog{}
	svc, _ := newTestService(t, &failingRepo{}, log)
	res := result(20, 90, map[rune]session.LetterResult{'a': {Attempts: 2, Correct: 2}})
	_, err := svc.Complete(context.Background(), res, Completion{Mode: model.ModeWords})
	require.Error(t, err)
	assert.Empty(t, log.Sessions)
}

func TestMarkSeenPersists(t *testing.T) {
	repo := NewMemoryRepository(nil)
	svc, _ := newTestService(t, repo, nil)
	res := result(20, 90, map[rune]session.LetterResult{'a': {Attempts: 2, Correct: 2}})
	_, err := svc.Complete(context.Background(), res, Completion{Mode: model.ModeDaily})
	require.NoError(t, err)

	require.NoError(t, svc.MarkSeen(context.Background(), []string{"daily_first"}))
	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Achievements["daily_first"].Seen)
}
