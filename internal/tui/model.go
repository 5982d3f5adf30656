// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/metrics"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/session"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

// tickInterval only drives re-rendering of the live timer.
const tickInterval = 100 * time.Millisecond

// Recorder persists finished sessions. progress.Service implements it.
type Recorder interface {
	Complete(ctx context.Context, res session.Result, c progress.Completion) (progress.Outcome, error)
	Snapshot(ctx context.Context) (progress.Snapshot, error)
}

type screen int

const (
	screenTyping screen = iota
	screenResults
)

type tickMsg time.Time

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the session clock.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithChecker lets the results screen show achievement titles.
func WithChecker(c *achievement.Checker) Option {
	return func(m *Model) {
		m.checker = c
	}
}

// WithBackspace enables or disables corrections.
func WithBackspace(allowed bool) Option {
	return func(m *Model) {
		m.allowBackspace = allowed
	}
}

// Model implements the Bubble Tea typing UI. All state transitions go
// through session.Session; the model only translates keys and renders.
type Model struct {
	src            *TextSource
	rec            Recorder
	checker        *achievement.Checker
	logger         *slog.Logger
	now            func() time.Time
	allowBackspace bool

	keys keyMap
	help help.Model

	session    *session.Session
	assignment Assignment

	width  int
	height int

	screen   screen
	mismatch bool
	errMsg   string

	result  session.Result
	outcome progress.Outcome

	hasLast bool
	lastWPM int
	lastAcc float64
	totalXP int
	streak  int
}

// NewModel loads progress and prepares the first assignment.
func NewModel(ctx context.Context, src *TextSource, rec Recorder, opts ...Option) (*Model, error) {
	m := &Model{
		src:            src,
		rec:            rec,
		logger:         slog.New(slog.DiscardHandler),
		now:            time.Now,
		allowBackspace: true,
		keys:           defaultKeyMap(),
		help:           help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.keys.Finish.SetEnabled(src.cfg.Mode == model.ModeEndless)
	m.keys.Next.SetEnabled(false)

	snap, err := rec.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	tr := tracker.FromSnapshot(snap.LetterEMA, snap.LetterHistory)
	src.SetProgress(tr.WeakLetters(), snap.CompletedLessonIDs())
	m.totalXP = snap.TotalXP
	m.streak = snap.Streak.Current

	if err := m.nextAssignment(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.screen == screenResults {
			return m.updateResults(msg)
		}
		return m.updateTyping(msg)
	}
	return m, nil
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Pause):
		m.session.TogglePause()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.mismatch = false
		return m, nil
	case key.Matches(msg, m.keys.NewText):
		m.replaceAssignment()
		return m, nil
	case key.Matches(msg, m.keys.Finish):
		m.handleSignal(m.session.Finish())
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace:
		m.handleSignal(m.session.Backspace())
	case tea.KeySpace:
		m.typeRunes([]rune{' '}, msg.Alt)
	case tea.KeyRunes:
		if !msg.Paste {
			m.typeRunes(msg.Runes, msg.Alt)
		}
	}
	return m, nil
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.NewText):
		m.replaceAssignment()
	case key.Matches(msg, m.keys.Reset):
		m.session.SetTarget(m.assignment.Text)
		m.showTyping()
	}
	return m, nil
}

func (m *Model) typeRunes(runes []rune, alt bool) {
	for _, r := range runes {
		sig := m.session.Type(r, session.Modifiers{Alt: alt})
		m.handleSignal(sig)
		if sig == session.SignalCompleted {
			return
		}
		m.extendStream()
	}
}

// extendStream appends the next endless chunk once the cursor passes the
// stream threshold.
func (m *Model) extendStream() {
	stream := m.assignment.Stream
	if stream == nil {
		return
	}
	if added, ok := stream.Advance(m.session.Cursor()); ok {
		m.session.Append(added)
	}
}

func (m *Model) handleSignal(sig session.Signal) {
	switch sig {
	case session.SignalLayoutMismatch:
		m.mismatch = true
	case session.SignalNone:
		m.mismatch = false
	case session.SignalCompleted:
		m.mismatch = false
		m.complete()
	}
}

func (m *Model) complete() {
	res, ok := m.session.Result()
	if !ok {
		return
	}
	out, err := m.rec.Complete(context.Background(), res, m.assignment.Completion)
	switch {
	case errors.Is(err, progress.ErrNothingTyped):
		m.replaceAssignment()
		return
	case err != nil:
		m.logger.Error("failed to record session", "session", res.SessionID, "error", err)
		m.errMsg = err.Error()
	default:
		m.errMsg = ""
	}
	m.result = res
	m.outcome = out
	m.hasLast = true
	m.lastWPM = res.WPM
	m.lastAcc = res.Accuracy
	m.totalXP += out.XP.Total
	if out.Streak > 0 {
		m.streak = out.Streak
	}
	m.src.SetProgress(out.WeakLetters, nil)
	if out.LessonCompleted {
		m.src.CompleteLesson(m.assignment.Completion.LessonID)
	}
	m.screen = screenResults
	m.keys.Next.SetEnabled(true)
}

func (m *Model) nextAssignment() error {
	a, err := m.src.Next(m.now())
	if err != nil {
		return err
	}
	m.assignment = a
	opts := []session.Option{
		session.WithClock(m.now),
		session.WithLayout(m.src.Layout()),
		session.WithBackspace(m.allowBackspace),
		session.WithLogger(m.logger),
	}
	m.session = session.New(a.Text, opts...)
	m.showTyping()
	return nil
}

func (m *Model) replaceAssignment() {
	if err := m.nextAssignment(); err != nil {
		m.logger.Error("failed to build practice text", "error", err)
		m.errMsg = err.Error()
	}
}

func (m *Model) showTyping() {
	m.screen = screenTyping
	m.mismatch = false
	m.keys.Next.SetEnabled(false)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var content, footer string
	if m.screen == screenResults {
		content = m.renderResults()
		footer = footerStyle.Render("enter: next  ctrl+r: retry  ctrl+c: quit")
	} else {
		content = m.renderTyping()
		footer = m.renderFooter() + "\n" + m.help.View(m.keys)
	}
	if m.errMsg != "" {
		footer = noticeStyle.Render(m.errMsg) + "\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	footerBlock := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerBlock
}

func (m *Model) renderTyping() string {
	contentWidth := max(1, int(float64(m.width)*0.70))
	text := wrapStyledRunes(buildStyledRunes(m.session.Characters()), contentWidth)
	title := titleStyle.Render(m.assignment.Title)
	lines := []string{title, "", lipgloss.NewStyle().Width(contentWidth).Render(text)}
	if m.session.Status() == session.StatusPaused {
		lines = append(lines, "", noticeStyle.Render("Paused. Press esc to resume."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	live := m.session.Stats()
	segments := []string{
		fmt.Sprintf("Progress %d%%", live.Progress),
		fmt.Sprintf("%d WPM · %.1f%%", live.WPM, live.Accuracy),
		metrics.FormatTime(live.ElapsedMs),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	segments = append(segments, fmt.Sprintf("XP %d", m.totalXP))
	if m.streak > 0 {
		segments = append(segments, fmt.Sprintf("Streak %dd", m.streak))
	}
	out := footerStyle.Render(strings.Join(segments, "  "))
	if m.mismatch {
		out = noticeStyle.Render(fmt.Sprintf("Switch keyboard to %s", m.src.Layout().DisplayName())) + "  " + out
	}
	return out
}
