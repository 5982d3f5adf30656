package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keytutor/internal/session"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders each target position from its session status.
// A mistyped space shows as a dot so the error stays visible.
func buildStyledRunes(chars []session.CharacterState) []styledRune {
	cursor := -1
	for _, ch := range chars {
		if ch.Status == session.CharCurrent {
			cursor = ch.Index
			break
		}
	}
	word := currentWord(chars, cursor)

	out := make([]styledRune, 0, len(chars))
	for _, ch := range chars {
		displayed := ch.Char
		style := pendingStyle
		switch ch.Status {
		case session.CharCorrect:
			style = correctStyle
		case session.CharIncorrect:
			style = incorrectStyle
			if ch.Char == ' ' {
				displayed = '•'
			}
		case session.CharCurrent:
			style = cursorStyle
		default:
			if ch.Char != ' ' && word.contains(ch.Index) {
				style = currentWordStyle
			}
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: ch.Char == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func (w wordRange) contains(i int) bool {
	return i >= w.start && i < w.end
}

// currentWord returns the word holding the cursor, or the next word when the
// cursor sits on a space.
func currentWord(chars []session.CharacterState, cursor int) wordRange {
	if cursor < 0 {
		return wordRange{}
	}
	start := cursor
	for start < len(chars) && chars[start].Char == ' ' {
		start++
	}
	for start > 0 && chars[start-1].Char != ' ' {
		start--
	}
	end := start
	for end < len(chars) && chars[end].Char != ' ' {
		end++
	}
	return wordRange{start: start, end: end}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits within width,
// hard-breaking words longer than a line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpace]))
				line = append([]styledRune{}, line[lastSpace+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func measure(line []styledRune) (width, lastSpace int) {
	lastSpace = -1
	for i, item := range line {
		width += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
