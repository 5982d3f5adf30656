package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/daily"
	"github.com/verte-zerg/keytutor/internal/layout"
	"github.com/verte-zerg/keytutor/internal/lesson"
	"github.com/verte-zerg/keytutor/internal/metrics"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/session"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

const (
	// DefaultBaseXP is awarded for sessions that are not lessons.
	DefaultBaseXP = 10
	// DailyBaseXP is awarded for the daily challenge.
	DailyBaseXP = 30
	// MinMasterySamples is how many history entries a letter needs before it
	// counts as mastered.
	MinMasterySamples = 3
)

// ErrNothingTyped is returned when a result carries no keystrokes.
var ErrNothingTyped = errors.New("session has no typed characters")

// Completion describes what the finished session was practicing.
type Completion struct {
	Mode         model.Mode
	LessonID     string
	BaseXP       int
	DailyDate    time.Time
	WordListPath string
}

// Outcome is what one completion produced.
type Outcome struct {
	XP              achievement.XPBreakdown
	Stars           int
	Streak          int
	LessonCompleted bool
	Unlocked        []string
	WeakLetters     []tracker.WeakLetterInfo
	Mastered        []string
	SessionRowID    int64
}

// Service runs the completion pipeline against a repository.
type Service struct {
	repo    Repository
	log     SessionLog
	checker *achievement.Checker
	lessons *lesson.Catalog
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the pipeline. lessons may be nil when no catalog is used.
func NewService(repo Repository, log SessionLog, checker *achievement.Checker, lessons *lesson.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		log:     log,
		checker: checker,
		lessons: lessons,
		now:     time.Now,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot loads the current progress.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load progress: %w", err)
	}
	return snap, nil
}

// Tracker loads the letter tracker from the stored progress.
func (s *Service) Tracker(ctx context.Context) (*tracker.Tracker, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return tracker.FromSnapshot(snap.LetterEMA, snap.LetterHistory, tracker.WithClock(s.now)), nil
}

// Complete folds a finished session into progress. The steps run in a fixed
// order: letter updates, streak and XP, lesson and daily bookkeeping,
// session achievements, snapshot achievements, save, session log.
func (s *Service) Complete(ctx context.Context, res session.Result, c Completion) (Outcome, error) {
	if res.TypedChars == 0 {
		return Outcome{}, ErrNothingTyped
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Outcome{}, err
	}
	now := s.now()

	tr := tracker.FromSnapshot(snap.LetterEMA, snap.LetterHistory, tracker.WithClock(s.now))
	samples := make(map[rune]tracker.Sample, len(res.Letters))
	for r, lr := range res.Letters {
		samples[r] = tracker.Sample{Attempts: lr.Attempts, Correct: lr.Correct}
	}
	tr.UpdateAll(samples)
	snap.LetterEMA, snap.LetterHistory = tr.Snapshot()

	out := Outcome{Stars: metrics.Stars(res.Accuracy)}
	out.Streak = snap.Streak.Touch(now)
	out.XP = achievement.CalculateXP(s.baseXP(c), res.Accuracy, res.WPM, out.Stars, out.Streak)
	snap.TotalXP += out.XP.Total
	snap.SessionsCompleted++

	switch c.Mode {
	case model.ModeLesson:
		out.LessonCompleted = recordLesson(&snap, c.LessonID, res, out.Stars, now)
	case model.ModeDaily:
		date := c.DailyDate
		if date.IsZero() {
			date = now
		}
		snap.DailyCompleted[daily.Key(date)] = true
	}

	out.Unlocked = s.checker.CheckSession(achievement.SessionStats{
		WPM:      res.WPM,
		Accuracy: res.Accuracy,
		Chars:    res.TypedChars,
	}, snap.Achievements)

	out.Mastered = tr.Mastered(MinMasterySamples)
	agg := achievement.Snapshot{
		LessonsCompleted:  len(snap.CompletedLessons),
		SessionsCompleted: snap.SessionsCompleted,
		TotalXP:           snap.TotalXP,
		StreakDays:        out.Streak,
		LettersMastered:   len(out.Mastered),
		DailyCompleted:    len(snap.DailyCompleted),
	}
	if s.lessons != nil {
		agg.StagesCompleted = s.lessons.StagesCompleted(snap.CompletedLessonIDs())
	}
	out.Unlocked = append(out.Unlocked, s.checker.CheckSnapshot(agg, snap.Achievements)...)
	out.WeakLetters = tr.WeakLetters()

	if err := s.repo.Save(ctx, snap); err != nil {
		return Outcome{}, fmt.Errorf("failed to save progress: %w", err)
	}

	if s.log != nil {
		stats, chars := sessionRow(res, c, out.XP.Total)
		id, err := s.log.InsertSession(ctx, stats, chars)
		if err != nil {
			return out, fmt.Errorf("failed to save session: %w", err)
		}
		out.SessionRowID = id
	}

	s.logger.Info("session completed",
		"session", res.SessionID,
		"mode", string(c.Mode),
		"wpm", res.WPM,
		"accuracy", res.Accuracy,
		"xp", out.XP.Total,
		"streak", out.Streak,
		"unlocked", out.Unlocked,
	)
	return out, nil
}

// MarkSeen flags achievements as shown and persists the change.
func (s *Service) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	changed := false
	for _, id := range ids {
		if achievement.MarkSeen(snap.Achievements, id) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (s *Service) baseXP(c Completion) int {
	if c.BaseXP > 0 {
		return c.BaseXP
	}
	switch c.Mode {
	case model.ModeLesson:
		if s.lessons != nil {
			for _, l := range layout.All() {
				if ls, ok := s.lessons.Lookup(l, c.LessonID); ok {
					return ls.BaseXP
				}
			}
		}
	case model.ModeDaily:
		return DailyBaseXP
	}
	return DefaultBaseXP
}

// recordLesson keeps the best result per lesson. A lesson counts as
// completed once it earns at least one star.
func recordLesson(snap *Snapshot, id string, res session.Result, stars int, now time.Time) bool {
	if id == "" || stars < 1 {
		return false
	}
	rec, ok := snap.CompletedLessons[id]
	if !ok {
		rec.CompletedAt = now
	}
	if stars > rec.Stars {
		rec.Stars = stars
	}
	if res.WPM > rec.BestWPM {
		rec.BestWPM = res.WPM
	}
	if res.Accuracy > rec.BestAccuracy {
		rec.BestAccuracy = res.Accuracy
	}
	snap.CompletedLessons[id] = rec
	return true
}

func sessionRow(res session.Result, c Completion, xp int) (model.SessionStats, []model.CharStats) {
	stats := model.SessionStats{
		SessionUUID:  res.SessionID,
		StartedAt:    res.StartedAt,
		EndedAt:      res.EndedAt,
		Layout:       string(res.Layout),
		Mode:         c.Mode,
		LessonID:     c.LessonID,
		WordListPath: c.WordListPath,
		DurationMs:   res.Duration.Milliseconds(),
		WPM:          res.WPM,
		Accuracy:     res.Accuracy,
		XP:           xp,
	}
	chars := make([]model.CharStats, 0, len(res.Letters))
	for r, lr := range res.Letters {
		incorrect := lr.Attempts - lr.Correct
		stats.CorrectNonSpace += lr.Correct
		stats.IncorrectNonSpace += incorrect
		chars = append(chars, model.CharStats{
			Char:         string(r),
			Correct:      lr.Correct,
			Incorrect:    incorrect,
			LatencySumMs: lr.LatencySumMs,
			LatencyCount: lr.LatencyCount,
		})
	}
	sort.Slice(chars, func(i, j int) bool {
		return chars[i].Char < chars[j].Char
	})
	return stats, chars
}
