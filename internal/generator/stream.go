package generator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultThreshold is the fraction of the text the learner must reach
// before the next chunk is appended.
const DefaultThreshold = 0.8

const maxChunkAttempts = 8

// Stream accumulates endless practice text chunk by chunk.
type Stream struct {
	produce   func() string
	threshold float64
	text      strings.Builder
	length    int
}

// NewStream creates a stream and generates its first chunk. A threshold
// outside (0,1] falls back to DefaultThreshold.
func NewStream(produce func() string, threshold float64) *Stream {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	s := &Stream{produce: produce, threshold: threshold}
	s.appendChunk()
	return s
}

// Text returns everything generated so far.
func (s *Stream) Text() string {
	return s.text.String()
}

// Len returns the generated length in runes.
func (s *Stream) Len() int {
	return s.length
}

// NeedsMore reports whether position has reached the append threshold.
func (s *Stream) NeedsMore(position int) bool {
	return float64(position) >= s.threshold*float64(s.length)
}

// Advance appends a chunk once position crosses the threshold and returns
// the appended text, including any separating space.
func (s *Stream) Advance(position int) (string, bool) {
	if !s.NeedsMore(position) {
		return "", false
	}
	added := s.appendChunk()
	return added, added != ""
}

func (s *Stream) appendChunk() string {
	chunk := ""
	for i := 0; i < maxChunkAttempts && strings.TrimSpace(chunk) == ""; i++ {
		chunk = s.produce()
	}
	if strings.TrimSpace(chunk) == "" {
		return ""
	}
	if s.length > 0 && !endsWithSpace(s.text.String()) {
		chunk = " " + chunk
	}
	s.text.WriteString(chunk)
	s.length += utf8.RuneCountInString(chunk)
	return chunk
}

func endsWithSpace(text string) bool {
	r, _ := utf8.DecodeLastRuneInString(text)
	return r != utf8.RuneError && unicode.IsSpace(r)
}
