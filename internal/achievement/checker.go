package achievement

import (
	"time"
)

// Progress is the unlock record of one achievement. Once Unlocked is true it
// stays true.
type Progress struct {
	AchievementID string    `json:"achievementId"`
	Unlocked      bool      `json:"unlocked"`
	UnlockedAt    time.Time `json:"unlockedAt"`
	Seen          bool      `json:"seen"`
}

// Unlocks maps achievement IDs to their progress. Checkers write into it.
type Unlocks map[string]Progress

// Snapshot is the aggregate progress evaluated by snapshot conditions.
type Snapshot struct {
	LessonsCompleted  int
	StagesCompleted   int
	SessionsCompleted int
	TotalXP           int
	StreakDays        int
	LettersMastered   int
	DailyCompleted    int
}

// SessionStats is what session conditions are evaluated against.
type SessionStats struct {
	WPM      int
	Accuracy float64
	Chars    int
}

// Checker evaluates a fixed catalog of definitions.
type Checker struct {
	defs []Definition
	now  func() time.Time
}

// NewChecker returns a checker over defs.
func NewChecker(defs []Definition) *Checker {
	return &Checker{defs: append([]Definition(nil), defs...), now: time.Now}
}

// WithClock overrides the unlock timestamp source.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Definitions returns the catalog.
func (c *Checker) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Definition looks up one achievement.
func (c *Checker) Definition(id string) (Definition, bool) {
	for _, def := range c.defs {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// CheckSnapshot unlocks snapshot achievements whose threshold is met and
// returns the newly unlocked IDs. Already unlocked IDs are skipped.
func (c *Checker) CheckSnapshot(snap Snapshot, unlocks Unlocks) []string {
	newly := []string{}
	for _, def := range c.defs {
		if def.Kind != KindSnapshot || unlocks[def.ID].Unlocked {
			continue
		}
		if snapshotValue(snap, def.Metric) >= def.Threshold {
			c.unlock(unlocks, def.ID)
			newly = append(newly, def.ID)
		}
	}
	return newly
}

// CheckSession unlocks session achievements for one finished session.
func (c *Checker) CheckSession(stats SessionStats, unlocks Unlocks) []string {
	newly := []string{}
	for _, def := range c.defs {
		if def.Kind != KindSession || unlocks[def.ID].Unlocked {
			continue
		}
		if stats.Chars < def.MinChars {
			continue
		}
		var value float64
		switch def.Metric {
		case MetricSessionWPM:
			value = float64(stats.WPM)
		case MetricSessionAccuracy:
			value = stats.Accuracy
		}
		if value >= def.Threshold {
			c.unlock(unlocks, def.ID)
			newly = append(newly, def.ID)
		}
	}
	return newly
}

// MarkSeen flags an unlocked achievement as shown to the learner.
func MarkSeen(unlocks Unlocks, id string) bool {
	p, ok := unlocks[id]
	if !ok || !p.Unlocked || p.Seen {
		return false
	}
	p.Seen = true
	unlocks[id] = p
	return true
}

// Unseen returns unlocked achievements not yet shown.
func (c *Checker) Unseen(unlocks Unlocks) []string {
	out := []string{}
	for _, def := range c.defs {
		p := unlocks[def.ID]
		if p.Unlocked && !p.Seen {
			out = append(out, def.ID)
		}
	}
	return out
}

func (c *Checker) unlock(unlocks Unlocks, id string) {
	unlocks[id] = Progress{
		AchievementID: id,
		Unlocked:      true,
		UnlockedAt:    c.now(),
	}
}

func snapshotValue(snap Snapshot, metric Metric) float64 {
	switch metric {
	case MetricLessonsCompleted:
		return float64(snap.LessonsCompleted)
	case MetricStagesCompleted:
		return float64(snap.StagesCompleted)
	case MetricSessionsCompleted:
		return float64(snap.SessionsCompleted)
	case MetricTotalXP:
		return float64(snap.TotalXP)
	case MetricStreakDays:
		return float64(snap.StreakDays)
	case MetricLettersMastered:
		return float64(snap.LettersMastered)
	case MetricDailyCompleted:
		return float64(snap.DailyCompleted)
	default:
		return 0
	}
}
