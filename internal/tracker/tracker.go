// Package tracker keeps per-letter accuracy as an exponential moving average.
package tracker

import (
	"math"
	"sort"
	"time"
	"unicode"
)

const (
	// PriorWeight is the weight of the previous EMA value.
	PriorWeight = 0.7
	// SampleWeight is the weight of a new session sample.
	SampleWeight = 0.3
	// WeakThreshold is the EMA accuracy below which a letter is weak.
	WeakThreshold = 80.0
	// MasteryThreshold is the EMA accuracy at which a letter counts as mastered.
	MasteryThreshold = 95.0
	// DefaultMaxHistory bounds each letter's history log.
	DefaultMaxHistory = 50
)

// HistoryEntry is one session sample for a letter.
type HistoryEntry struct {
	Date     time.Time `json:"date"`
	Accuracy float64   `json:"accuracy"`
}

// Tracker holds EMA values and history logs. It is not safe for concurrent use.
type Tracker struct {
	ema        map[string]float64
	history    map[string][]HistoryEntry
	maxHistory int
	now        func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for history dates.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithMaxHistory overrides the per-letter history bound.
func WithMaxHistory(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxHistory = n
		}
	}
}

// New returns an empty tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		ema:        map[string]float64{},
		history:    map[string][]HistoryEntry{},
		maxHistory: DefaultMaxHistory,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromSnapshot builds a tracker from persisted maps. The inputs are copied.
func FromSnapshot(ema map[string]float64, history map[string][]HistoryEntry, opts ...Option) *Tracker {
	t := New(opts...)
	for letter, v := range ema {
		t.ema[letter] = clampPercent(v)
	}
	for letter, entries := range history {
		t.history[letter] = append([]HistoryEntry(nil), entries...)
	}
	return t
}

// Snapshot returns deep copies of the EMA map and history logs.
func (t *Tracker) Snapshot() (map[string]float64, map[string][]HistoryEntry) {
	ema := make(map[string]float64, len(t.ema))
	for letter, v := range t.ema {
		ema[letter] = v
	}
	history := make(map[string][]HistoryEntry, len(t.history))
	for letter, entries := range t.history {
		history[letter] = append([]HistoryEntry(nil), entries...)
	}
	return ema, history
}

// NormalizeLetter folds case and reports whether r is a trackable letter.
func NormalizeLetter(r rune) (string, bool) {
	if !unicode.IsLetter(r) {
		return "", false
	}
	return string(unicode.ToLower(r)), true
}

// Update folds a session accuracy sample into the letter's EMA and history.
func (t *Tracker) Update(letter string, accuracy float64) float64 {
	accuracy = clampPercent(accuracy)
	next := accuracy
	if prev, ok := t.ema[letter]; ok {
		next = roundTo(PriorWeight*prev+SampleWeight*accuracy, 2)
	}
	t.ema[letter] = next

	entries := append(t.history[letter], HistoryEntry{Date: t.now(), Accuracy: accuracy})
	if len(entries) > t.maxHistory {
		entries = append([]HistoryEntry(nil), entries[len(entries)-t.maxHistory:]...)
	}
	t.history[letter] = entries
	return next
}

// UpdateAll applies per-letter session accuracies and returns the letters touched.
// Letters that differ only in case are merged by attempt-weighted accuracy.
func (t *Tracker) UpdateAll(samples map[rune]Sample) []string {
	merged := map[string]Sample{}
	for r, s := range samples {
		letter, ok := NormalizeLetter(r)
		if !ok || s.Attempts <= 0 {
			continue
		}
		m := merged[letter]
		m.Attempts += s.Attempts
		m.Correct += s.Correct
		merged[letter] = m
	}
	letters := make([]string, 0, len(merged))
	for letter := range merged {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	for _, letter := range letters {
		s := merged[letter]
		acc := math.Round(float64(s.Correct)/float64(s.Attempts)*1000) / 10
		t.Update(letter, acc)
	}
	return letters
}

// Sample is a per-letter tally from one session.
type Sample struct {
	Attempts int
	Correct  int
}

// Accuracy returns the EMA accuracy for a letter.
func (t *Tracker) Accuracy(letter string) (float64, bool) {
	v, ok := t.ema[letter]
	return v, ok
}

// History returns a copy of a letter's history, oldest first.
func (t *Tracker) History(letter string) []HistoryEntry {
	return append([]HistoryEntry(nil), t.history[letter]...)
}

// Letters returns all tracked letters sorted.
func (t *Tracker) Letters() []string {
	out := make([]string, 0, len(t.ema))
	for letter := range t.ema {
		out = append(out, letter)
	}
	sort.Strings(out)
	return out
}

// Info derives the analytics view for one letter.
func (t *Tracker) Info(letter string) (WeakLetterInfo, bool) {
	acc, ok := t.ema[letter]
	if !ok {
		return WeakLetterInfo{}, false
	}
	return Analyze(letter, acc, t.history[letter]), true
}

// WeakLetters returns letters with EMA below WeakThreshold by descending priority.
func (t *Tracker) WeakLetters() []WeakLetterInfo {
	out := []WeakLetterInfo{}
	for letter, acc := range t.ema {
		if acc >= WeakThreshold {
			continue
		}
		out = append(out, Analyze(letter, acc, t.history[letter]))
	}
	SortByPriority(out)
	return out
}

// Mastered returns letters at or above MasteryThreshold with at least
// minSamples history entries.
func (t *Tracker) Mastered(minSamples int) []string {
	out := []string{}
	for letter, acc := range t.ema {
		if acc >= MasteryThreshold && len(t.history[letter]) >= minSamples {
			out = append(out, letter)
		}
	}
	sort.Strings(out)
	return out
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
