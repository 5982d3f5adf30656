// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings. Nil fields were not set in
// the file and leave the flag defaults alone.
type PracticeConfig struct {
	Layout     *string  `toml:"layout"`
	Mode       *string  `toml:"mode"`
	Words      *int     `toml:"words"`
	CapsPct    *float64 `toml:"caps"`
	PunctPct   *float64 `toml:"punct"`
	PunctSet   *string  `toml:"punct-set"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	Age        *string  `toml:"age"`
	Backspace  *bool    `toml:"backspace"`
	WordList   *string  `toml:"wordlist"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// Defaults are the built-in practice values, shared by flags and the template.
type Defaults struct {
	Layout     string
	Mode       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	WeakTop    int
	WeakFactor float64
	Age        string
	LogLevel   string
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template renders the commented config file written by `keytutor config`.
func Template(d Defaults) string {
	return fmt.Sprintf(`# keytutor configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# layout = %q             # Keyboard layout: en or ru
# mode = %q          # endless, words, targeted, lesson or daily
# words = %d              # Words per text in words mode
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# focus-weak = false      # Bias practice toward weak letters
# weak-top = %d           # Number of weak letters to focus on
# weak-factor = %.1f      # Weight factor for weak letters in words mode
# age = %q             # Word length profile: kids, teen or adult
# backspace = true        # Allow correcting mistakes
# wordlist = ""           # Custom word list, one word per line

[log]
# level = %q            # debug, info, warn or error
# file = ""               # Log file (default: $XDG_STATE_HOME/keytutor/keytutor.log)
`,
		d.Layout,
		d.Mode,
		d.Words,
		d.CapsPct,
		d.PunctPct,
		d.PunctSet,
		d.WeakTop,
		d.WeakFactor,
		d.Age,
		d.LogLevel,
	)
}
