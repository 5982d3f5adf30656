package session

import (
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/verte-zerg/keytutor/internal/layout"
	"github.com/verte-zerg/keytutor/internal/metrics"
)

// Session feeds timestamped events into Apply and keeps the current state.
// It is not safe for concurrent use; callers dispatch one event at a time.
type Session struct {
	id     string
	rules  Rules
	state  State
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLayout sets the expected keyboard layout.
func WithLayout(l layout.Layout) Option {
	return func(s *Session) {
		s.rules.Layout = l
	}
}

// WithBackspace enables or disables backspace corrections.
func WithBackspace(allowed bool) Option {
	return func(s *Session) {
		s.rules.AllowBackspace = allowed
	}
}

// WithLogger sets the logger used for transition diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates an idle session for target. Backspace is allowed and the
// layout is English unless overridden.
func New(target string, opts ...Option) *Session {
	s := &Session{
		rules:  Rules{AllowBackspace: true, Layout: layout.English},
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetTarget(target)
	return s
}

// ID returns the identifier of the current attempt.
func (s *Session) ID() string {
	return s.id
}

// Layout returns the expected keyboard layout.
func (s *Session) Layout() layout.Layout {
	return s.rules.Layout
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state.clone()
}

// Status returns the lifecycle status.
func (s *Session) Status() Status {
	return s.state.Status
}

// Cursor returns the current cursor position.
func (s *Session) Cursor() int {
	return s.state.Cursor
}

// Len returns the length of the target text in runes.
func (s *Session) Len() int {
	return len(s.state.Target)
}

// Text returns the target text.
func (s *Session) Text() string {
	return string(s.state.Target)
}

// Dispatch applies ev and stores the resulting state.
func (s *Session) Dispatch(ev Event) Signal {
	next, sig := Apply(s.state, ev, s.rules)
	s.state = next
	if sig == SignalLayoutMismatch {
		s.logger.Debug("layout mismatch", "session", s.id, "layout", s.rules.Layout, "cursor", s.state.Cursor)
	}
	if sig == SignalCompleted {
		s.logger.Debug("session completed", "session", s.id, "chars", s.state.Cursor, "errors", s.state.ErrorCount())
	}
	return sig
}

// Type dispatches a keystroke.
func (s *Session) Type(r rune, mods Modifiers) Signal {
	return s.Dispatch(KeyEvent{Char: r, Mods: mods, At: s.now()})
}

// Backspace dispatches a backspace.
func (s *Session) Backspace() Signal {
	return s.Dispatch(BackspaceEvent{At: s.now()})
}

// Pause freezes the timer of a running session.
func (s *Session) Pause() Signal {
	return s.Dispatch(PauseEvent{At: s.now()})
}

// Resume continues a paused session.
func (s *Session) Resume() Signal {
	return s.Dispatch(ResumeEvent{At: s.now()})
}

// TogglePause pauses a running session or resumes a paused one.
func (s *Session) TogglePause() Signal {
	if s.state.Status == StatusPaused {
		return s.Resume()
	}
	return s.Pause()
}

// Append extends the target text.
func (s *Session) Append(text string) Signal {
	return s.Dispatch(AppendEvent{Text: text})
}

// Finish completes a running or paused session early.
func (s *Session) Finish() Signal {
	return s.Dispatch(FinishEvent{At: s.now()})
}

// Reset discards progress and starts a new attempt on the same text.
func (s *Session) Reset() {
	s.state, _ = Apply(s.state, ResetEvent{}, s.rules)
	s.id = uuid.NewString()
}

// SetTarget replaces the text and starts a new attempt.
func (s *Session) SetTarget(text string) {
	s.state = NewState(text)
	s.id = uuid.NewString()
}

// Characters returns per-position render state.
func (s *Session) Characters() []CharacterState {
	return s.state.Characters()
}

// Stats returns live stats.
func (s *Session) Stats() LiveStats {
	return s.state.Stats(s.now())
}

// LetterResult summarizes one letter within a finished session.
type LetterResult struct {
	Attempts     int
	Correct      int
	Accuracy     float64
	LatencySumMs int64
	LatencyCount int64
}

// Result is the final summary of a completed session.
type Result struct {
	SessionID    string
	Layout       layout.Layout
	Text         string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
	WPM          int
	NetWPM       int
	Accuracy     float64
	Rating       int
	Feedback     metrics.Feedback
	TypedChars   int
	CorrectChars int
	ErrorCount   int
	Keystrokes   int
	Mistakes     int
	Letters      map[rune]LetterResult
}

// Result returns the final result once the session has completed.
func (s *Session) Result() (Result, bool) {
	if s.state.Status != StatusCompleted {
		return Result{}, false
	}
	st := s.state
	elapsed := st.Elapsed(st.EndTime)
	ms := elapsed.Milliseconds()
	wpm := metrics.WPM(st.CorrectChars(), ms)
	acc := metrics.Accuracy(st.Keystrokes-st.Mistakes, st.Keystrokes)
	letters := make(map[rune]LetterResult, len(st.Letters))
	for r, tally := range st.Letters {
		if unicode.IsSpace(r) {
			continue
		}
		letters[r] = LetterResult{
			Attempts:     tally.Attempts,
			Correct:      tally.Correct,
			Accuracy:     metrics.Accuracy(tally.Correct, tally.Attempts),
			LatencySumMs: tally.Latency.Milliseconds(),
			LatencyCount: int64(tally.LatencyCount),
		}
	}
	return Result{
		SessionID:    s.id,
		Layout:       s.rules.Layout,
		Text:         string(st.Target[:st.Cursor]),
		StartedAt:    st.StartTime,
		EndedAt:      st.EndTime,
		Duration:     elapsed,
		WPM:          wpm,
		NetWPM:       metrics.NetWPM(st.Cursor, st.ErrorCount(), ms),
		Accuracy:     acc,
		Rating:       metrics.Rating(acc, wpm),
		Feedback:     metrics.PerformanceFeedback(acc, wpm),
		TypedChars:   st.Cursor,
		CorrectChars: st.CorrectChars(),
		ErrorCount:   st.ErrorCount(),
		Keystrokes:   st.Keystrokes,
		Mistakes:     st.Mistakes,
		Letters:      letters,
	}, true
}
