package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series is a named sequence of values drawn as one line.
type Series struct {
	Name   string
	Values []float64
}

// Chart is a braille line chart. All series share one vertical scale.
type Chart struct {
	Title  string
	Unit   string
	Series []Series
	// Width and Height are in terminal cells. Zero picks defaults.
	Width  int
	Height int
	// Min and Max pin the scale when Max > Min.
	Min, Max float64
	Color    bool
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelWidth      = 6
	axisSeparator       = " ┤ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m", "\x1b[34m"}

// braille dot bits indexed by [row][col] within a 2x4 cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas holds braille dots; owner remembers the first series per cell for colouring.
type canvas struct {
	cols, rows int
	dots       [][]uint8
	owner      [][]int
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows}
	c.dots = make([][]uint8, rows)
	c.owner = make([][]int, rows)
	for y := range c.dots {
		c.dots[y] = make([]uint8, cols)
		c.owner[y] = make([]int, cols)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

// set lights the dot at sub-cell coordinates (x in [0,2*cols), y in [0,4*rows)).
func (c *canvas) set(x, y, series int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.cols || cy >= c.rows {
		return
	}
	c.dots[cy][cx] |= brailleBits[y%4][x%2]
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

func (c *canvas) line(x0, y0, x1, y1, series int) {
	steps := maxAbs(x1-x0, y1-y0)
	if steps == 0 {
		c.set(x0, y0, series)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		c.set(x, y, series)
	}
}

func (c *canvas) row(y int, color bool) string {
	var b strings.Builder
	for x := 0; x < c.cols; x++ {
		ch := rune(0x2800 + int(c.dots[y][x]))
		if color && c.owner[y][x] >= 0 {
			b.WriteString(palette[c.owner[y][x]%len(palette)])
			b.WriteRune(ch)
			b.WriteString(colorReset)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Render writes the chart. Charts without values write nothing.
func (ch Chart) Render(w io.Writer) error {
	series := make([]Series, 0, len(ch.Series))
	for _, s := range ch.Series {
		if len(s.Values) > 0 {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return nil
	}
	width := ch.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	height := ch.Height
	if height <= 0 {
		height = defaultPlotHeight
	}

	lo, hi := ch.Min, ch.Max
	if hi <= lo {
		lo, hi = valueRange(series)
	}

	cv := newCanvas(width, height)
	dotsY := height*4 - 1
	for si, s := range series {
		points := resample(s.Values, width*2)
		prevX, prevY := -1, -1
		for x, v := range points {
			y := dotsY - int(math.Round((v-lo)/(hi-lo)*float64(dotsY)))
			if prevX < 0 {
				cv.set(x, y, si)
			} else {
				cv.line(prevX, prevY, x, y, si)
			}
			prevX, prevY = x, y
		}
	}

	if ch.Title != "" {
		if _, err := fmt.Fprintln(w, ch.Title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = formatAxis(hi)
		case height - 1:
			label = formatAxis(lo)
		case height / 2:
			if height > 2 {
				label = formatAxis((hi + lo) / 2)
			}
		}
		if _, err := fmt.Fprintf(w, "%*s%s%s\n", axisLabelWidth, label, axisSeparator, cv.row(y, ch.Color)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(series, ch.Unit, ch.Color)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func legend(series []Series, unit string, color bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		last := s.Values[len(s.Values)-1]
		label := fmt.Sprintf("● %s %.1f%s", s.Name, last, unit)
		if color {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Repeat(" ", axisLabelWidth+len([]rune(axisSeparator))) + strings.Join(parts, "   ")
}

func formatAxis(v float64) string {
	if math.Abs(v) >= 100 || v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func valueRange(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

// resample stretches or averages values onto n evenly spaced points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if len(values) > n {
		for i := range out {
			start := i * len(values) / n
			end := (i + 1) * len(values) / n
			if end <= start {
				end = start + 1
			}
			sum := 0.0
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(n-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx] + (values[idx+1]-values[idx])*frac
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - axisLabelWidth - len([]rune(axisSeparator))
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// UseColor reports whether ANSI colour should be written to w.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
