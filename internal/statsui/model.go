// Package statsui provides the Bubble Tea stats browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/stats"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

const (
	tabOverview = iota
	tabWeak
	tabCharTable
	tabCharCurves
	tabAchievements
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	newBadgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// SeenFunc records that the learner has viewed newly unlocked achievements.
type SeenFunc func(ctx context.Context, ids []string) error

// Option configures a Model.
type Option func(*Model)

// WithSeen marks unseen achievements as seen when the achievements tab opens.
func WithSeen(fn SeenFunc) Option {
	return func(m *Model) {
		m.markSeen = fn
	}
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	src      stats.Source
	checker  *achievement.Checker
	markSeen SeenFunc
	cfg      model.StatsConfig

	report     stats.Report
	errMsg     string
	charErrMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	tables    map[int]*table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	charSelection       []string
	charSelectionCustom bool
	charPerSession      map[int64]map[string]model.CharAggregate

	charInputMode bool
	charInput     textinput.Model

	// unseen holds achievements that were new when the report was loaded.
	unseen map[string]bool
}

// NewModel constructs a stats UI model.
func NewModel(src stats.Source, checker *achievement.Checker, cfg model.StatsConfig, opts ...Option) *Model {
	m := &Model{
		src:     src,
		checker: checker,
		cfg:     cfg,
		tabs:    []string{"Overview", "Weak Letters", "Char Table", "Char Curves", "Achievements"},
		unseen:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.charSelection = splitChars(cfg.Chars)
	m.charSelectionCustom = len(m.charSelection) > 0
	m.initInputs()
	m.initTables()
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.charInputMode {
			return m.updateCharInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "-":
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "/":
		return m.startFilter()
	case "enter":
		if m.activeTab == tabCharCurves {
			m.charInputMode = true
			m.charInput.SetValue(strings.Join(m.charSelection, ""))
			return m, m.charInput.Focus()
		}
		return m, nil
	case "g", "home":
		if t, ok := m.tables[m.activeTab]; ok {
			t.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if t, ok := m.tables[m.activeTab]; ok {
			t.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if t, ok := m.tables[m.activeTab]; ok {
		*t, cmd = t.Update(msg)
		return m, cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.charInputMode {
		return fitLines(m.renderCharModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	return strings.Join([]string{
		fitLines(m.renderHeader(), m.width, headerHeight),
		fitLines(m.renderBody(bodyHeight), m.width, bodyHeight),
		fitLines(m.renderFooter(), m.width, footerHeight),
	}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newInput("Layout: "),
		newInput("Mode: "),
		newInput("Since (YYYY-MM-DD): "),
		newInput("Last: "),
		newInput("Curve window: "),
	}
	m.charInput = newInput("Chars: ")
	m.charInput.Placeholder = "asdfjkl"
}

func (m *Model) initTables() {
	weak := newTable(weakColumns())
	chars := newTable(charColumns())
	m.tables = map[int]*table.Model{
		tabWeak:      &weak,
		tabCharTable: &chars,
	}
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newTable(cols []table.Column) table.Model {
	t := table.New(table.WithColumns(cols), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.Padding(0, 1).PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	for _, t := range m.tables {
		t.SetWidth(m.width)
		// One line is taken by the header border.
		t.SetHeight(maxInt(1, bodyHeight-2))
	}
	for i := range m.filterInputs {
		m.filterInputs[i].Width = maxInt(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
	m.charInput.Width = maxInt(10, modalInnerWidth(m.width)-lipgloss.Width(m.charInput.Prompt))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for idx, t := range m.tables {
		if idx == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
	if m.activeTab == tabAchievements {
		m.acknowledgeAchievements()
	}
}

// acknowledgeAchievements persists the seen flag but keeps the "new" badges
// on screen until the next refresh.
func (m *Model) acknowledgeAchievements() {
	if m.markSeen == nil || m.checker == nil {
		return
	}
	ids := m.checker.Unseen(m.report.Progress.Achievements)
	if len(ids) == 0 {
		return
	}
	if err := m.markSeen(context.Background(), ids); err != nil {
		m.errMsg = err.Error()
		return
	}
	for _, id := range ids {
		achievement.MarkSeen(m.report.Progress.Achievements, id)
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts = append(parts, style.Render(tab))
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return padLines(tabs, m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	layoutCode := orDefault(m.cfg.Layout, "any")
	mode := orDefault(string(m.cfg.Mode), "any")
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: layout=%s  mode=%s  since=%s  last=%s  window=%d", layoutCode, mode, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabCharCurves {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit chars: enter  Window: -/=  Settings: /  Quit: q"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return fitLines(strings.Join(lines, "\n"), m.width, height)
	}
	switch m.activeTab {
	case tabCharTable:
		if len(m.report.CharAggsAll) == 0 {
			return fitLines("No character stats found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.tables[tabCharTable].View()), m.width, height)
	case tabWeak:
		if len(m.report.Weak) == 0 {
			return fitLines("No weak letters. Keep practicing!", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.tables[tabWeak].View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.unseen = map[string]bool{}
	if m.checker != nil {
		for _, id := range m.checker.Unseen(report.Progress.Achievements) {
			m.unseen[id] = true
		}
	}
	if !m.charSelectionCustom {
		m.charSelection = stats.TopLetters(report.CharAggsAll, 5)
	}
	m.loadCharPerSession()
	m.tables[tabCharTable].SetRows(charRows(report.CharAggsAll))
	m.tables[tabWeak].SetRows(weakRows(report))
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" && len(m.report.Sessions) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.viewports[tabCharCurves].SetContent(renderCharCurves(m.report.Sessions, m.charSelection, m.charPerSession, m.cfg.CurveWindow, width, m.charErrMsg))
	m.viewports[tabAchievements].SetContent(m.renderAchievements())
}

func renderOverview(report stats.Report, window, width int) string {
	cards := summaryCards(report, width)
	if len(report.Sessions) == 0 {
		return cards + "\n\nNo sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, report.Sessions, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func summaryCards(report stats.Report, width int) string {
	var totalWPM, totalAcc, bestWPM float64
	for _, s := range report.Sessions {
		wpm, _, acc := stats.SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		bestWPM = maxFloat(bestWPM, wpm)
	}
	avgWPM, avgAcc := 0.0, 0.0
	if n := float64(len(report.Sessions)); n > 0 {
		avgWPM = totalWPM / n
		avgAcc = totalAcc / n
	}
	snap := report.Progress
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(report.Sessions))),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", avgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", bestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", avgAcc)),
		metricCard("Total XP", strconv.Itoa(snap.TotalXP)),
		metricCard("Streak", fmt.Sprintf("%d (best %d)", snap.Streak.Current, snap.Streak.Best)),
		metricCard("Lessons", strconv.Itoa(len(snap.CompletedLessons))),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func (m *Model) renderAchievements() string {
	if m.checker == nil {
		return "No achievements configured."
	}
	defs := m.checker.Definitions()
	unlocks := m.report.Progress.Achievements
	unlocked := 0
	lines := []string{}
	for _, def := range defs {
		p := unlocks[def.ID]
		mark := "  "
		status := headerStyle.Render("locked")
		if p.Unlocked {
			unlocked++
			mark = def.Icon
			status = "unlocked " + p.UnlockedAt.Format("2006-01-02")
			if m.unseen[def.ID] {
				status += " " + newBadgeStyle.Render("NEW")
			}
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", mark, cardValueStyle.Render(def.Title), status))
		lines = append(lines, "   "+cardTitleStyle.Render(def.Description))
	}
	header := fmt.Sprintf("Unlocked %d of %d", unlocked, len(defs))
	return header + "\n\n" + strings.Join(lines, "\n")
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Latency (ms)", Width: 17},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
}

func charRows(aggs []model.CharAggregate) []table.Row {
	sorted := append([]model.CharAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Char < sorted[j].Char
		}
		return ti > tj
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		total := agg.Correct + agg.Incorrect
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total) * 100
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%.2f%%", acc),
			fmt.Sprintf("%.1f", lat),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
			strconv.Itoa(total),
		})
	}
	return rows
}

func weakColumns() []table.Column {
	cols := make([]table.Column, len(stats.WeakHeaders))
	widths := []int{6, 9, 10, 12, 9, 12}
	for i, title := range stats.WeakHeaders {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func weakRows(report stats.Report) []table.Row {
	var history func(string) []tracker.HistoryEntry
	if report.Letters != nil {
		history = report.Letters.History
	}
	cells := stats.WeakRows(report.Weak, history)
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return rows
}

func renderCharCurves(sessions []model.SessionAggregate, chars []string, perSession map[int64]map[string]model.CharAggregate, window, width int, errMsg string) string {
	switch {
	case len(sessions) == 0:
		return "No sessions found."
	case errMsg != "":
		return fmt.Sprintf("Failed to load character curves: %s", errMsg)
	case len(chars) == 0:
		return "No characters selected. Press Enter to set chars."
	}
	header := headerStyle.Render("Chars: " + strings.Join(chars, ", "))
	var buf bytes.Buffer
	if err := stats.RenderCharCurvesWithSize(&buf, sessions, perSession, chars, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render character curves: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func (m *Model) loadCharPerSession() {
	m.charErrMsg = ""
	m.charPerSession = nil
	if len(m.report.Sessions) == 0 || len(m.charSelection) == 0 {
		return
	}
	ids := make([]int64, len(m.report.Sessions))
	for i, s := range m.report.Sessions {
		ids[i] = s.SessionID
	}
	perSession, err := m.src.ListCharStatsForSessions(context.Background(), ids, m.charSelection)
	if err != nil {
		m.charErrMsg = err.Error()
		return
	}
	m.charPerSession = perSession
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInputs[0].SetValue(m.cfg.Layout)
	m.filterInputs[1].SetValue(string(m.cfg.Mode))
	m.filterInputs[2].SetValue("")
	if m.cfg.Since != nil {
		m.filterInputs[2].SetValue(m.cfg.Since.Format("2006-01-02"))
	}
	m.filterInputs[3].SetValue("")
	if m.cfg.Last > 0 {
		m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.Last))
	}
	m.filterInputs[4].SetValue(strconv.Itoa(m.cfg.CurveWindow))
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseFilter() (model.StatsConfig, error) {
	cfg := model.StatsConfig{Chars: m.cfg.Chars}
	cfg.Layout = strings.TrimSpace(m.filterInputs[0].Value())

	if raw := strings.TrimSpace(m.filterInputs[1].Value()); raw != "" {
		mode, ok := model.ParseMode(raw)
		if !ok {
			return cfg, fmt.Errorf("invalid mode %q", raw)
		}
		cfg.Mode = mode
	}
	if raw := strings.TrimSpace(m.filterInputs[2].Value()); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if raw := strings.TrimSpace(m.filterInputs[3].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	if raw := strings.TrimSpace(m.filterInputs[4].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func (m *Model) updateCharInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.charInputMode = false
		return m, nil
	case tea.KeyEnter:
		m.charInputMode = false
		m.charSelection = splitChars(m.charInput.Value())
		m.charSelectionCustom = len(m.charSelection) > 0
		if !m.charSelectionCustom {
			m.charSelection = stats.TopLetters(m.report.CharAggsAll, 5)
		}
		m.loadCharPerSession()
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.charInput, cmd = m.charInput.Update(msg)
	if normalized := normalizeCharInput(m.charInput.Value()); normalized != m.charInput.Value() {
		m.charInput.SetValue(normalized)
	}
	return m, cmd
}

func (m *Model) renderCharModal() string {
	body := []string{
		cardValueStyle.Render("Select Characters"),
		m.charInput.View(),
		headerStyle.Render("Type characters (no commas). Spaces are ignored."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// splitChars accepts "a,b,c" or "abc" and drops whitespace and duplicates.
func splitChars(input string) []string {
	var out []string
	seen := map[rune]bool{}
	for _, r := range normalizeCharInput(input) {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}
	return out
}

func normalizeCharInput(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r == ',' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	// 2 border + 4 padding
	return maxInt(10, modalWidth(width)-6)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
