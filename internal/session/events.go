package session

import (
	"time"

	"github.com/verte-zerg/keytutor/internal/layout"
)

// Signal tells the caller what an event did.
type Signal int

const (
	// SignalNone means the event was applied.
	SignalNone Signal = iota
	// SignalIgnored means the event was dropped without changing state.
	SignalIgnored
	// SignalLayoutMismatch means the keystroke came from the wrong keyboard
	// layout. Nothing was scored or consumed.
	SignalLayoutMismatch
	// SignalCompleted means the event finished the session.
	SignalCompleted
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalIgnored:
		return "ignored"
	case SignalLayoutMismatch:
		return "layout-mismatch"
	case SignalCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Modifiers are the modifier keys held during a keystroke. Shift is folded
// into the rune itself.
type Modifiers struct {
	Ctrl bool
	Alt  bool
	Meta bool
}

func (m Modifiers) any() bool {
	return m.Ctrl || m.Alt || m.Meta
}

// Event is an input to the state machine.
type Event interface {
	isEvent()
}

// KeyEvent is a printable keystroke.
type KeyEvent struct {
	Char rune
	Mods Modifiers
	At   time.Time
}

// BackspaceEvent retreats the cursor by one.
type BackspaceEvent struct {
	At time.Time
}

// PauseEvent freezes the timer.
type PauseEvent struct {
	At time.Time
}

// ResumeEvent unfreezes the timer.
type ResumeEvent struct {
	At time.Time
}

// ResetEvent returns to idle keeping the target text.
type ResetEvent struct{}

// AppendEvent extends the target text of an endless session.
type AppendEvent struct {
	Text string
}

// FinishEvent ends a running or paused session before the end of the text.
type FinishEvent struct {
	At time.Time
}

func (KeyEvent) isEvent()       {}
func (BackspaceEvent) isEvent() {}
func (PauseEvent) isEvent()     {}
func (ResumeEvent) isEvent()    {}
func (ResetEvent) isEvent()     {}
func (AppendEvent) isEvent()    {}
func (FinishEvent) isEvent()    {}

// Apply is the pure transition function of the session state machine.
func Apply(s State, ev Event, rules Rules) (State, Signal) {
	switch e := ev.(type) {
	case KeyEvent:
		return applyKey(s, e, rules)
	case BackspaceEvent:
		return applyBackspace(s, rules)
	case PauseEvent:
		if s.Status != StatusRunning {
			return s, SignalIgnored
		}
		next := s.clone()
		next.Status = StatusPaused
		next.PauseStart = e.At
		return next, SignalNone
	case ResumeEvent:
		if s.Status != StatusPaused {
			return s, SignalIgnored
		}
		next := s.clone()
		next.foldPause(e.At)
		next.Status = StatusRunning
		next.PrevCorrectAt = time.Time{}
		return next, SignalNone
	case ResetEvent:
		return State{Target: s.Target, Letters: map[rune]LetterTally{}}, SignalNone
	case AppendEvent:
		if s.Status == StatusCompleted || e.Text == "" {
			return s, SignalIgnored
		}
		next := s.clone()
		extra := []rune(e.Text)
		target := make([]rune, 0, len(s.Target)+len(extra))
		target = append(target, s.Target...)
		next.Target = append(target, extra...)
		return next, SignalNone
	case FinishEvent:
		if s.Status != StatusRunning && s.Status != StatusPaused {
			return s, SignalIgnored
		}
		next := s.clone()
		if next.Status == StatusPaused {
			next.foldPause(e.At)
		}
		next.Status = StatusCompleted
		next.EndTime = e.At
		return next, SignalCompleted
	default:
		return s, SignalIgnored
	}
}

func applyKey(s State, e KeyEvent, rules Rules) (State, Signal) {
	if s.Status == StatusPaused || s.Status == StatusCompleted {
		return s, SignalIgnored
	}
	if e.Mods.any() || s.Cursor >= len(s.Target) {
		return s, SignalIgnored
	}
	expected := s.Target[s.Cursor]
	if layout.Mismatch(rules.Layout, e.Char, expected) {
		return s, SignalLayoutMismatch
	}

	next := s.clone()
	if next.Status == StatusIdle {
		next.Status = StatusRunning
		next.StartTime = e.At
	}
	tally := next.Letters[expected]
	tally.Attempts++
	next.Keystrokes++
	if e.Char == expected {
		tally.Correct++
		if !next.PrevCorrectAt.IsZero() {
			if d := e.At.Sub(next.PrevCorrectAt); d > 0 {
				tally.Latency += d
				tally.LatencyCount++
			}
		}
		next.PrevCorrectAt = e.At
	} else {
		next.Mistakes++
		next.Errors = append(next.Errors, next.Cursor)
	}
	next.Letters[expected] = tally
	next.Typed = append(next.Typed, e.Char)
	next.Cursor++

	if next.Cursor == len(next.Target) {
		next.Status = StatusCompleted
		next.EndTime = e.At
		return next, SignalCompleted
	}
	return next, SignalNone
}

func applyBackspace(s State, rules Rules) (State, Signal) {
	if !rules.AllowBackspace || s.Status != StatusRunning || s.Cursor == 0 {
		return s, SignalIgnored
	}
	next := s.clone()
	next.Cursor--
	if next.Typed[next.Cursor] != next.Target[next.Cursor] {
		next.Errors = removeIndex(next.Errors, next.Cursor)
	}
	next.Typed = next.Typed[:next.Cursor]
	return next, SignalNone
}

func (s *State) foldPause(at time.Time) {
	if s.PauseStart.IsZero() {
		return
	}
	if d := at.Sub(s.PauseStart); d > 0 {
		s.PausedDuration += d
	}
	s.PauseStart = time.Time{}
}

func removeIndex(indices []int, idx int) []int {
	for i, v := range indices {
		if v == idx {
			return append(indices[:i], indices[i+1:]...)
		}
	}
	return indices
}
