// Package progress owns the learner's aggregate progress and the session
// completion pipeline.
package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

const dateLayout = "2006-01-02"

// LessonRecord is the best result achieved on one lesson.
type LessonRecord struct {
	Stars        int       `json:"stars"`
	BestWPM      int       `json:"bestWpm"`
	BestAccuracy float64   `json:"bestAccuracy"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Streak counts consecutive practice days.
type Streak struct {
	Current  int    `json:"current"`
	Best     int    `json:"best"`
	LastDate string `json:"lastDate"`
}

// Touch records practice on day and returns the current streak.
func (s *Streak) Touch(day time.Time) int {
	key := day.Format(dateLayout)
	if s.LastDate == key {
		if s.Current == 0 {
			s.Current = 1
		}
		return s.Current
	}
	y, m, d := day.Date()
	yesterday := time.Date(y, m, d, 0, 0, 0, 0, day.Location()).AddDate(0, 0, -1)
	if s.LastDate == yesterday.Format(dateLayout) {
		s.Current++
	} else {
		s.Current = 1
	}
	if s.Current > s.Best {
		s.Best = s.Current
	}
	s.LastDate = key
	return s.Current
}

// Snapshot is the persisted aggregate progress document.
type Snapshot struct {
	Version           int                               `json:"version"`
	CompletedLessons  map[string]LessonRecord           `json:"completedLessons"`
	LetterEMA         map[string]float64                `json:"letterEma"`
	LetterHistory     map[string][]tracker.HistoryEntry `json:"letterHistory"`
	TotalXP           int                               `json:"totalXp"`
	SessionsCompleted int                               `json:"sessionsCompleted"`
	Streak            Streak                            `json:"streak"`
	DailyCompleted    map[string]bool                   `json:"dailyCompleted"`
	Achievements      achievement.Unlocks               `json:"achievements"`
}

// NewSnapshot returns an empty snapshot at the current version.
func NewSnapshot() Snapshot {
	s := Snapshot{Version: CurrentVersion}
	s.normalize()
	return s
}

func (s *Snapshot) normalize() {
	if s.CompletedLessons == nil {
		s.CompletedLessons = map[string]LessonRecord{}
	}
	if s.LetterEMA == nil {
		s.LetterEMA = map[string]float64{}
	}
	if s.LetterHistory == nil {
		s.LetterHistory = map[string][]tracker.HistoryEntry{}
	}
	if s.DailyCompleted == nil {
		s.DailyCompleted = map[string]bool{}
	}
	if s.Achievements == nil {
		s.Achievements = achievement.Unlocks{}
	}
}

// CompletedLessonIDs returns the set of completed lesson IDs.
func (s Snapshot) CompletedLessonIDs() map[string]bool {
	out := make(map[string]bool, len(s.CompletedLessons))
	for id := range s.CompletedLessons {
		out[id] = true
	}
	return out
}

// Encode serializes a snapshot at the current version.
func Encode(s Snapshot) ([]byte, error) {
	s.Version = CurrentVersion
	s.normalize()
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode progress: %w", err)
	}
	return data, nil
}

// Decode parses a stored document of any supported version. Empty input
// yields a fresh snapshot.
func Decode(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewSnapshot(), nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode progress: %w", err)
	}
	migrated, err := Migrate(raw)
	if err != nil {
		return Snapshot{}, err
	}
	buf, err := json.Marshal(migrated)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode progress: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode progress: %w", err)
	}
	snap.normalize()
	return snap, nil
}
