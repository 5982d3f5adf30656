// Package session implements the typing session state machine.
package session

import (
	"time"

	"github.com/verte-zerg/keytutor/internal/layout"
	"github.com/verte-zerg/keytutor/internal/metrics"
)

// Status is the lifecycle state of a typing session.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CharStatus is the render status of one target position.
type CharStatus int

const (
	CharPending CharStatus = iota
	CharCurrent
	CharCorrect
	CharIncorrect
)

// CharacterState describes one position of the target text.
type CharacterState struct {
	Char   rune
	Index  int
	Status CharStatus
}

// LetterTally counts scored keystrokes against one expected rune.
type LetterTally struct {
	Attempts int
	Correct  int
	// Latency sums the gaps between consecutive correct keystrokes that
	// ended on this rune.
	Latency      time.Duration
	LatencyCount int
}

// Rules configure how events are interpreted.
type Rules struct {
	AllowBackspace bool
	Layout         layout.Layout
}

// State is an immutable snapshot of a session. Apply never mutates its input.
type State struct {
	Target         []rune
	Typed          []rune
	Cursor         int
	Status         Status
	StartTime      time.Time
	EndTime        time.Time
	PauseStart     time.Time
	PausedDuration time.Duration
	// PrevCorrectAt is the time of the last correct keystroke since start or
	// resume.
	PrevCorrectAt time.Time
	// Errors holds indices of positions currently typed incorrectly.
	Errors     []int
	Keystrokes int
	Mistakes   int
	Letters    map[rune]LetterTally
}

// NewState returns an idle state for target.
func NewState(target string) State {
	return State{
		Target:  []rune(target),
		Letters: map[rune]LetterTally{},
	}
}

func (s State) clone() State {
	out := s
	out.Typed = append([]rune(nil), s.Typed...)
	out.Errors = append([]int(nil), s.Errors...)
	out.Letters = make(map[rune]LetterTally, len(s.Letters))
	for r, tally := range s.Letters {
		out.Letters[r] = tally
	}
	return out
}

// ErrorCount returns the number of positions currently marked incorrect.
func (s State) ErrorCount() int {
	return len(s.Errors)
}

// CorrectChars returns the number of typed positions that match the target.
func (s State) CorrectChars() int {
	return s.Cursor - len(s.Errors)
}

// Elapsed returns active typing time at now, excluding paused intervals.
func (s State) Elapsed(now time.Time) time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	end := now
	if s.Status == StatusCompleted {
		end = s.EndTime
	}
	d := end.Sub(s.StartTime) - s.PausedDuration
	if !s.PauseStart.IsZero() {
		d -= end.Sub(s.PauseStart)
	}
	if d < 0 {
		return 0
	}
	return d
}

// Characters derives the per-position render state.
func (s State) Characters() []CharacterState {
	out := make([]CharacterState, len(s.Target))
	for i, r := range s.Target {
		status := CharPending
		switch {
		case i < s.Cursor && s.Typed[i] == r:
			status = CharCorrect
		case i < s.Cursor:
			status = CharIncorrect
		case i == s.Cursor && s.Status != StatusCompleted:
			status = CharCurrent
		}
		out[i] = CharacterState{Char: r, Index: i, Status: status}
	}
	return out
}

// LiveStats are the numbers shown while typing.
type LiveStats struct {
	WPM        int
	Accuracy   float64
	ElapsedMs  int64
	ErrorCount int
	Progress   int
}

// Stats computes live stats at now.
func (s State) Stats(now time.Time) LiveStats {
	elapsed := s.Elapsed(now).Milliseconds()
	return LiveStats{
		WPM:        metrics.WPM(s.CorrectChars(), elapsed),
		Accuracy:   metrics.Accuracy(s.Keystrokes-s.Mistakes, s.Keystrokes),
		ElapsedMs:  elapsed,
		ErrorCount: s.ErrorCount(),
		Progress:   metrics.ProgressPercent(s.Cursor, len(s.Target)),
	}
}
