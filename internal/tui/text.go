package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/keytutor/internal/daily"
	"github.com/verte-zerg/keytutor/internal/generator"
	"github.com/verte-zerg/keytutor/internal/layout"
	"github.com/verte-zerg/keytutor/internal/lesson"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/stats"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

// Assignment is one practice text plus what completing it means.
type Assignment struct {
	Title      string
	Text       string
	Completion progress.Completion
	// Stream is set in endless mode and supplies follow-up chunks.
	Stream *generator.Stream
}

// TextSource produces assignments for the configured mode.
type TextSource struct {
	cfg       model.Config
	layout    layout.Layout
	gen       *generator.Generator
	pool      *generator.Pool
	lessons   *lesson.Catalog
	punctSet  []rune
	profile   generator.Profile
	weak      []tracker.WeakLetterInfo
	completed map[string]bool
	lessonID  string
}

// NewTextSource validates the mode-specific settings in cfg.
func NewTextSource(cfg model.Config, gen *generator.Generator, pool *generator.Pool, lessons *lesson.Catalog) (*TextSource, error) {
	l, err := layout.Parse(cfg.Layout)
	if err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = model.ModeWords
	}
	if _, ok := model.ParseMode(string(cfg.Mode)); !ok {
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if cfg.Mode == model.ModeWords && cfg.Words <= 0 {
		return nil, fmt.Errorf("words must be positive")
	}
	if cfg.Mode == model.ModeTargeted && len(targetRunes(cfg.Targets)) == 0 {
		return nil, fmt.Errorf("targeted mode needs --targets")
	}
	if cfg.Mode == model.ModeLesson && cfg.LessonID != "" {
		if _, ok := lessons.Lookup(l, cfg.LessonID); !ok {
			return nil, fmt.Errorf("unknown lesson %q for layout %s", cfg.LessonID, l)
		}
	}
	return &TextSource{
		cfg:       cfg,
		layout:    l,
		gen:       gen,
		pool:      pool,
		lessons:   lessons,
		punctSet:  []rune(cfg.PunctSet),
		profile:   generator.ProfileFor(cfg.Age),
		completed: map[string]bool{},
		lessonID:  cfg.LessonID,
	}, nil
}

// Layout returns the practiced layout.
func (s *TextSource) Layout() layout.Layout {
	return s.layout
}

// SetProgress refreshes the weak-letter ranking and completed lessons used
// for the next assignment.
func (s *TextSource) SetProgress(weak []tracker.WeakLetterInfo, completed map[string]bool) {
	s.weak = weak
	if completed != nil {
		s.completed = completed
	}
}

// CompleteLesson records id as completed and, in lesson mode, moves on to
// the first uncompleted lesson. With none left the catalog starts over.
func (s *TextSource) CompleteLesson(id string) {
	s.completed[id] = true
	if s.cfg.Mode != model.ModeLesson {
		return
	}
	s.lessonID = ""
	if next, ok := s.lessons.Next(s.layout, s.completed); ok {
		s.lessonID = next.ID
	}
}

// Next builds the next assignment.
func (s *TextSource) Next(now time.Time) (Assignment, error) {
	c := progress.Completion{Mode: s.cfg.Mode, WordListPath: s.cfg.WordListPath}
	switch s.cfg.Mode {
	case model.ModeLesson:
		ls, ok := s.currentLesson()
		if !ok {
			return Assignment{}, fmt.Errorf("no lessons available for layout %s", s.layout)
		}
		c.LessonID = ls.ID
		c.BaseXP = ls.BaseXP
		return Assignment{Title: fmt.Sprintf("Lesson %s: %s", ls.ID, ls.Title), Text: ls.Text, Completion: c}, nil
	case model.ModeDaily:
		date := s.cfg.Date
		if date.IsZero() {
			date = now
		}
		ch, err := daily.Generate(date, s.layout)
		if err != nil {
			return Assignment{}, err
		}
		c.DailyDate = date
		return Assignment{Title: fmt.Sprintf("Daily %s · %s", daily.Key(date), ch.Theme), Text: ch.Text, Completion: c}, nil
	case model.ModeEndless:
		stream := generator.NewStream(s.chunk, generator.DefaultThreshold)
		return Assignment{Title: "Endless", Text: stream.Text(), Completion: c, Stream: stream}, nil
	case model.ModeTargeted:
		text := s.gen.GenerateTargetedText(s.pool, targetRunes(s.cfg.Targets), s.targetChars(), s.profile)
		return Assignment{Title: "Targeted: " + s.cfg.Targets, Text: text, Completion: c}, nil
	default:
		text := s.gen.Words(s.pool, generator.WordOptions{
			Count:    s.cfg.Words,
			CapsPct:  s.cfg.CapsPct,
			PunctPct: s.cfg.PunctPct,
			PunctSet: s.punctSet,
			Weak:     s.weakSet(),
			Factor:   s.cfg.WeakFactor,
		})
		return Assignment{Title: "Words", Text: text, Completion: c}, nil
	}
}

func (s *TextSource) currentLesson() (lesson.Lesson, bool) {
	if s.lessonID != "" {
		if ls, ok := s.lessons.Lookup(s.layout, s.lessonID); ok {
			return ls, true
		}
	}
	if ls, ok := s.lessons.Next(s.layout, s.completed); ok {
		return ls, true
	}
	// Everything is done; replay the first lesson.
	all := s.lessons.Lessons(s.layout)
	if len(all) == 0 {
		return lesson.Lesson{}, false
	}
	return all[0], true
}

// chunk produces one endless-mode chunk biased toward weak letters.
func (s *TextSource) chunk() string {
	return s.gen.GenerateCalmText(s.pool, s.weakAccuracy(), s.cfg.FocusWeak, generator.DefaultChunkChars, s.profile)
}

func (s *TextSource) targetChars() int {
	if s.cfg.Words > 0 {
		return s.cfg.Words * 6
	}
	return generator.DefaultChunkChars
}

func (s *TextSource) weakSet() map[rune]struct{} {
	if !s.cfg.FocusWeak {
		return nil
	}
	return stats.SelectWeakLetters(s.weak, s.cfg.WeakTop)
}

func (s *TextSource) weakAccuracy() map[rune]float64 {
	if !s.cfg.FocusWeak {
		return nil
	}
	return tracker.WeakMap(s.weak, s.cfg.WeakTop)
}

func targetRunes(raw string) []rune {
	var out []rune
	seen := map[rune]bool{}
	for _, r := range strings.ToLower(raw) {
		if r == ',' || r == ' ' || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
