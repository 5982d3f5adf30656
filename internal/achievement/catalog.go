package achievement

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed achievements.yaml
var defaultCatalog []byte

// Kind separates aggregate conditions from per-session conditions.
type Kind string

const (
	KindSnapshot Kind = "snapshot"
	KindSession  Kind = "session"
)

// Metric names a value an achievement condition compares against.
type Metric string

const (
	MetricLessonsCompleted  Metric = "lessons_completed"
	MetricStagesCompleted   Metric = "stages_completed"
	MetricSessionsCompleted Metric = "sessions_completed"
	MetricTotalXP           Metric = "total_xp"
	MetricStreakDays        Metric = "streak_days"
	MetricLettersMastered   Metric = "letters_mastered"
	MetricDailyCompleted    Metric = "daily_completed"
	MetricSessionWPM        Metric = "session_wpm"
	MetricSessionAccuracy   Metric = "session_accuracy"
)

// Definition describes one achievement.
type Definition struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Icon        string  `yaml:"icon"`
	Kind        Kind    `yaml:"kind"`
	Metric      Metric  `yaml:"metric"`
	Threshold   float64 `yaml:"threshold"`
	// MinChars guards session conditions against trivially short sessions.
	MinChars int `yaml:"min_chars"`
}

type catalogFile struct {
	Achievements []Definition `yaml:"achievements"`
}

// DefaultDefinitions returns the built-in achievement catalog.
func DefaultDefinitions() ([]Definition, error) {
	return ParseDefinitions(defaultCatalog)
}

// ParseDefinitions decodes and validates a YAML catalog.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %w", err)
	}
	seen := map[string]struct{}{}
	for _, def := range file.Achievements {
		if def.ID == "" {
			return nil, fmt.Errorf("achievement without id")
		}
		if _, ok := seen[def.ID]; ok {
			return nil, fmt.Errorf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = struct{}{}
		if err := validate(def); err != nil {
			return nil, err
		}
	}
	return file.Achievements, nil
}

func validate(def Definition) error {
	switch def.Kind {
	case KindSnapshot:
		switch def.Metric {
		case MetricLessonsCompleted, MetricStagesCompleted, MetricSessionsCompleted,
			MetricTotalXP, MetricStreakDays, MetricLettersMastered, MetricDailyCompleted:
			return nil
		}
	case KindSession:
		switch def.Metric {
		case MetricSessionWPM, MetricSessionAccuracy:
			return nil
		}
	default:
		return fmt.Errorf("achievement %q: unknown kind %q", def.ID, def.Kind)
	}
	return fmt.Errorf("achievement %q: metric %q not valid for kind %q", def.ID, def.Metric, def.Kind)
}
