package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keytutor/internal/config"
	"github.com/verte-zerg/keytutor/internal/daily"
	"github.com/verte-zerg/keytutor/internal/layout"
	"github.com/verte-zerg/keytutor/internal/lesson"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/stats"
	"github.com/verte-zerg/keytutor/internal/statsui"
)

var (
	statsLayout      string
	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string
	statsPlain       bool

	dailyLayout string
	dailyDate   string

	lessonsLayout string
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented config at path unless a file
// already exists there.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template(defaults)), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	logErrln("Wrote", path)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLayout, "layout", "", "layout filter (en, ru)")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "char", "", "characters for per-char curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}
	app, err := openAppFromConfig(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if statsPlain {
		return printStats(commandContext(cmd), cmd.OutOrStdout(), app, cfg)
	}
	m := statsui.NewModel(app.store, app.checker, cfg, statsui.WithSeen(app.service.MarkSeen))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLayout != "" {
		if _, err := layout.Parse(statsLayout); err != nil {
			return model.StatsConfig{}, fmt.Errorf("--layout: %w", err)
		}
	}
	var mode model.Mode
	if statsMode != "" {
		m, ok := model.ParseMode(strings.ToLower(statsMode))
		if !ok {
			return model.StatsConfig{}, fmt.Errorf("--mode must be one of endless, words, targeted, lesson, daily")
		}
		mode = m
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return model.StatsConfig{
		Layout:      statsLayout,
		Mode:        mode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
	}, nil
}

func printStats(ctx context.Context, w io.Writer, app *app, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, app.store, cfg)
	if err != nil {
		return err
	}
	sections := []struct {
		title  string
		render func() error
	}{
		{"Summary", func() error { return stats.RenderSummary(w, report.Sessions) }},
		{"Curves", func() error { return stats.RenderCurves(w, report.Sessions, cfg.CurveWindow) }},
		{"Characters (last window)", func() error { return stats.RenderCharTable(w, report.CharAggsWindow) }},
		{"Character curves", func() error {
			return stats.RenderCharCurves(w, report.Sessions, report.CharCurves, report.CurveChars, cfg.CurveWindow)
		}},
		{"Weak letters", func() error { return stats.RenderWeakTable(w, report.Weak, report.Letters.History) }},
		{"Achievements", func() error {
			return stats.RenderAchievements(w, app.checker.Definitions(), report.Progress.Achievements)
		}},
	}
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n", s.title); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := s.render(); err != nil {
			return err
		}
	}
	return nil
}

func newWeakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weak",
		Short: "List tracked letters, weakest first",
		Args:  cobra.NoArgs,
		RunE:  runWeakCmd,
	}
}

func runWeakCmd(cmd *cobra.Command, _ []string) error {
	app, err := openAppFromConfig(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	tr, err := app.service.Tracker(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load letters: %w", err)
	}
	return stats.RenderWeakTable(cmd.OutOrStdout(), tr.WeakLetters(), tr.History)
}

func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the daily challenge",
		Args:  cobra.NoArgs,
		RunE:  runDailyCmd,
	}
	cmd.Flags().StringVar(&dailyLayout, "layout", defaultLayout, "keyboard layout (en, ru)")
	cmd.Flags().StringVar(&dailyDate, "date", "", "challenge date (YYYY-MM-DD, default today)")
	return cmd
}

func runDailyCmd(cmd *cobra.Command, _ []string) error {
	l, err := layout.Parse(dailyLayout)
	if err != nil {
		return fmt.Errorf("--layout: %w", err)
	}
	date, err := parseDate(dailyDate)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = time.Now()
	}
	ch, err := daily.Generate(date, l)
	if err != nil {
		return fmt.Errorf("failed to build daily challenge: %w", err)
	}

	app, err := openAppFromConfig(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	snap, err := app.service.Snapshot(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	status := "not completed"
	if snap.DailyCompleted[daily.Key(date)] {
		status = "completed"
	}
	w := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("Daily challenge %s (%s)", daily.Key(ch.Date), ch.Layout.DisplayName()),
		fmt.Sprintf("Theme:  %s", ch.Theme),
		fmt.Sprintf("Words:  %d", ch.WordCount),
		fmt.Sprintf("Chars:  %d", ch.CharacterCount),
		fmt.Sprintf("Status: %s", status),
		"",
		ch.Text,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newLessonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List lessons and earned stars",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
	cmd.Flags().StringVar(&lessonsLayout, "layout", defaultLayout, "keyboard layout (en, ru)")
	return cmd
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	l, err := layout.Parse(lessonsLayout)
	if err != nil {
		return fmt.Errorf("--layout: %w", err)
	}
	app, err := openAppFromConfig(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	snap, err := app.service.Snapshot(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	return renderLessons(cmd.OutOrStdout(), app.lessons, l, snap.CompletedLessons)
}

func renderLessons(w io.Writer, catalog *lesson.Catalog, l layout.Layout, records map[string]progress.LessonRecord) error {
	completed := make(map[string]bool, len(records))
	for id := range records {
		completed[id] = true
	}
	next, hasNext := catalog.Next(l, completed)
	for _, st := range catalog.Stages(l) {
		header := st.Title
		if lesson.StageCompleted(st, completed) {
			header += " ✓"
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		for _, ls := range st.Lessons {
			stars := 0
			if rec, ok := records[ls.ID]; ok {
				stars = rec.Stars
			}
			marker := " "
			if hasNext && ls.ID == next.ID {
				marker = ">"
			}
			line := fmt.Sprintf(" %s %-10s %-28s %s  keys: %s", marker, ls.ID, ls.Title, lessonStars(stars), ls.Keys)
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func lessonStars(n int) string {
	n = min(max(n, 0), 3)
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		Args:  cobra.NoArgs,
		RunE:  runAchievementsCmd,
	}
}

func runAchievementsCmd(cmd *cobra.Command, _ []string) error {
	app, err := openAppFromConfig(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := commandContext(cmd)
	snap, err := app.service.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	if err := stats.RenderAchievements(cmd.OutOrStdout(), app.checker.Definitions(), snap.Achievements); err != nil {
		return err
	}
	if unseen := app.checker.Unseen(snap.Achievements); len(unseen) > 0 {
		if err := app.service.MarkSeen(ctx, unseen); err != nil {
			app.logger.Warn("failed to mark achievements seen", "error", err)
		}
	}
	return nil
}

// openAppFromConfig opens shared resources using the [log] section of the
// config file.
func openAppFromConfig(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return openApp(cmd, fileCfg.Log)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
