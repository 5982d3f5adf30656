// Package model defines shared data structures.
package model

import "time"

// Mode selects where practice text comes from.
type Mode string

const (
	ModeEndless  Mode = "endless"
	ModeWords    Mode = "words"
	ModeTargeted Mode = "targeted"
	ModeLesson   Mode = "lesson"
	ModeDaily    Mode = "daily"
)

// Modes lists every practice mode.
func Modes() []Mode {
	return []Mode{ModeEndless, ModeWords, ModeTargeted, ModeLesson, ModeDaily}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Config defines practice settings.
type Config struct {
	Layout         string
	Mode           Mode
	LessonID       string
	Targets        string
	Words          int
	CapsPct        float64
	PunctPct       float64
	PunctSet       string
	FocusWeak      bool
	WeakTop        int
	WeakFactor     float64
	Age            string
	AllowBackspace bool
	WordListPath   string
	Date           time.Time
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Layout      string
	Mode        Mode
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// SessionStats captures a completed typing session.
type SessionStats struct {
	SessionUUID       string
	StartedAt         time.Time
	EndedAt           time.Time
	Layout            string
	Mode              Mode
	LessonID          string
	WordListPath      string
	CorrectNonSpace   int
	IncorrectNonSpace int
	DurationMs        int64
	WPM               int
	Accuracy          float64
	XP                int
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Mode       Mode
	Correct    int
	Incorrect  int
	DurationMs int64
	XP         int
}
