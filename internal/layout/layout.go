// Package layout classifies runes by script and keyboard layout.
package layout

import (
	"fmt"
	"strings"
	"unicode"
)

// Layout identifies the keyboard layout a learner practices on.
type Layout string

const (
	English Layout = "en"
	Russian Layout = "ru"
)

// Script is the writing system a rune belongs to.
type Script int

const (
	ScriptNeutral Script = iota
	ScriptLatin
	ScriptCyrillic
)

func (s Script) String() string {
	switch s {
	case ScriptLatin:
		return "latin"
	case ScriptCyrillic:
		return "cyrillic"
	default:
		return "neutral"
	}
}

// All returns the supported layouts in display order.
func All() []Layout {
	return []Layout{English, Russian}
}

// Parse validates a layout code.
func Parse(code string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(code))) {
	case English:
		return English, nil
	case Russian:
		return Russian, nil
	default:
		return "", fmt.Errorf("unknown layout %q (supported: en, ru)", code)
	}
}

// Script returns the letter script typed on the layout.
func (l Layout) Script() Script {
	switch l {
	case Russian:
		return ScriptCyrillic
	default:
		return ScriptLatin
	}
}

// DisplayName returns a human-readable label.
func (l Layout) DisplayName() string {
	switch l {
	case Russian:
		return "Russian (ЙЦУКЕН)"
	default:
		return "English (QWERTY)"
	}
}

// Classify returns the script of r. Digits, punctuation and whitespace are
// neutral and valid on every layout.
func Classify(r rune) Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return ScriptLatin
	case unicode.Is(unicode.Cyrillic, r):
		return ScriptCyrillic
	default:
		return ScriptNeutral
	}
}

// Mismatch reports whether typed looks like it came from the wrong layout.
// A letter of a foreign script is accepted when the expected rune is itself
// written in that script.
func Mismatch(l Layout, typed, expected rune) bool {
	got := Classify(typed)
	if got == ScriptNeutral || got == l.Script() {
		return false
	}
	return Classify(expected) != got
}
