// Package main provides the CLI entrypoint for keytutor.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keytutor/internal/config"
	"github.com/verte-zerg/keytutor/internal/generator"
	"github.com/verte-zerg/keytutor/internal/layout"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/tui"
	"github.com/verte-zerg/keytutor/internal/wordlist"
)

const (
	defaultLayout      = "en"
	defaultMode        = string(model.ModeWords)
	defaultWords       = 25
	defaultCaps        = 0.1
	defaultPunct       = 0.1
	defaultWeakTop     = 5
	defaultWeakFactor  = 2.0
	defaultAge         = "adult"
	defaultLogLevel    = "info"
	defaultCurveWindow = 20
)

const defaultPunctSet = ".,!?;:"

var defaults = config.Defaults{
	Layout:     defaultLayout,
	Mode:       defaultMode,
	Words:      defaultWords,
	CapsPct:    defaultCaps,
	PunctPct:   defaultPunct,
	PunctSet:   defaultPunctSet,
	WeakTop:    defaultWeakTop,
	WeakFactor: defaultWeakFactor,
	Age:        defaultAge,
	LogLevel:   defaultLogLevel,
}

var (
	practiceLayout      string
	practiceMode        string
	practiceLesson      string
	practiceTargets     string
	practiceWords       int
	practiceCaps        float64
	practicePunct       float64
	practicePunctSet    string
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakFactor  float64
	practiceAge         string
	practiceNoBackspace bool
	practiceWordList    string
	practiceDate        string

	logLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keytutor",
		Short:         "Adaptive touch-typing tutor",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&practiceLayout, "layout", defaultLayout, "keyboard layout (en, ru)")
	flags.StringVar(&practiceMode, "mode", defaultMode, "practice mode (endless, words, targeted, lesson, daily)")
	flags.StringVar(&practiceLesson, "lesson", "", "lesson ID for lesson mode (default: next uncompleted)")
	flags.StringVar(&practiceTargets, "targets", "", "letters to drill in targeted mode")
	flags.IntVar(&practiceWords, "words", defaultWords, "words per text in words mode")
	flags.Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	flags.Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	flags.StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	flags.BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak letters")
	flags.IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak letters to focus on")
	flags.Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak letters in words mode")
	flags.StringVar(&practiceAge, "age", defaultAge, "word length profile (kids, teen, adult)")
	flags.BoolVar(&practiceNoBackspace, "no-backspace", false, "disallow correcting mistakes")
	flags.StringVar(&practiceWordList, "wordlist", "", "custom word list file, one word per line")
	flags.StringVar(&practiceDate, "date", "", "daily challenge date (YYYY-MM-DD, default today)")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWeakCmd())
	rootCmd.AddCommand(newDailyCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newAchievementsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "layout", &practiceLayout, fileCfg.Practice.Layout)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyStringConfig(cmd, "age", &practiceAge, fileCfg.Practice.Age)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	if fileCfg.Practice.Backspace != nil && !cmd.Flags().Changed("no-backspace") {
		practiceNoBackspace = !*fileCfg.Practice.Backspace
	}

	date, err := parseDate(practiceDate)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Layout:         practiceLayout,
		Mode:           model.Mode(strings.ToLower(strings.TrimSpace(practiceMode))),
		LessonID:       practiceLesson,
		Targets:        practiceTargets,
		Words:          practiceWords,
		CapsPct:        practiceCaps,
		PunctPct:       practicePunct,
		PunctSet:       practicePunctSet,
		FocusWeak:      practiceFocusWeak,
		WeakTop:        practiceWeakTop,
		WeakFactor:     practiceWeakFactor,
		Age:            practiceAge,
		AllowBackspace: !practiceNoBackspace,
		WordListPath:   practiceWordList,
		Date:           date,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	l, err := layout.Parse(cfg.Layout)
	if err != nil {
		return err
	}
	words, err := loadWords(l, cfg.WordListPath)
	if err != nil {
		return err
	}
	pool, err := generator.NewPool(words)
	if err != nil {
		return fmt.Errorf("failed to build word pool: %w", err)
	}

	app, err := openApp(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer app.Close()

	src, err := tui.NewTextSource(cfg, generator.New(), pool, app.lessons)
	if err != nil {
		return err
	}
	m, err := tui.NewModel(context.Background(), src, app.service,
		tui.WithLogger(app.logger),
		tui.WithChecker(app.checker),
		tui.WithBackspace(cfg.AllowBackspace),
	)
	if err != nil {
		return err
	}
	app.logger.Info("practice started", "layout", cfg.Layout, "mode", string(cfg.Mode), "words", len(words))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadWords returns the custom list filtered to the layout, or the built-in
// pool when path is empty.
func loadWords(l layout.Layout, path string) ([]string, error) {
	if path == "" {
		words, err := wordlist.Builtin(l)
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in words: %w", err)
		}
		return words, nil
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
	}
	filtered, err := wordlist.Filter(words, wordlist.FilterForLang(string(l)))
	if err != nil {
		return nil, fmt.Errorf("word list %s has no %s words: %w", path, l.DisplayName(), err)
	}
	return filtered, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", raw)
	}
	return parsed, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if _, err := layout.Parse(cfg.Layout); err != nil {
		return fmt.Errorf("--layout: %w", err)
	}
	if _, ok := model.ParseMode(string(cfg.Mode)); !ok {
		return fmt.Errorf("--mode must be one of endless, words, targeted, lesson, daily")
	}
	if cfg.Mode == model.ModeTargeted && strings.TrimSpace(cfg.Targets) == "" {
		return fmt.Errorf("--targets is required in targeted mode")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	switch strings.ToLower(cfg.Age) {
	case "kids", "teen", "adult":
	default:
		return fmt.Errorf("--age must be kids, teen or adult")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
