package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{
	Layout:     "en",
	Mode:       "endless",
	Words:      25,
	CapsPct:    0.5,
	PunctPct:   0.5,
	PunctSet:   ".,!?",
	WeakTop:    8,
	WeakFactor: 2,
	Age:        "adult",
	LogLevel:   "info",
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Layout)
	assert.Nil(t, cfg.Log.Level)
}

func TestLoadConfigSetsOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[practice]\nlayout = \"ru\"\nwords = 40\nbackspace = false\n\n[log]\nlevel = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Layout)
	assert.Equal(t, "ru", *cfg.Practice.Layout)
	assert.Equal(t, 40, *cfg.Practice.Words)
	assert.False(t, *cfg.Practice.Backspace)
	assert.Nil(t, cfg.Practice.CapsPct)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o600))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestTemplateUncommentedIsValid(t *testing.T) {
	tmpl := Template(testDefaults)
	assert.True(t, strings.HasPrefix(tmpl, "# keytutor configuration"))

	var lines []string
	for _, line := range strings.Split(tmpl, "\n") {
		lines = append(lines, strings.TrimPrefix(line, "# "))
	}
	uncommented := strings.Join(lines[2:], "\n")
	var cfg FileConfig
	_, err := toml.Decode(uncommented, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "en", *cfg.Practice.Layout)
	assert.Equal(t, 25, *cfg.Practice.Words)
	assert.Equal(t, "info", *cfg.Log.Level)
}

func TestDefaultPathsUseXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	assert.Equal(t, filepath.Join(dir, "cfg", "keytutor", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "keytutor", "keytutor.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join(dir, "state", "keytutor", "keytutor.log"), DefaultLogPath())
}
