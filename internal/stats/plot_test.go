package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestChartRender(t *testing.T) {
	var buf bytes.Buffer
	err := Chart{
		Title:  "Test Plot",
		Unit:   "%",
		Width:  12,
		Height: 4,
		Series: []Series{
			{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
			{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
		},
	}.Render(&buf)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Test Plot\n") {
		t.Fatalf("expected title first, got %q", out)
	}
	if !strings.Contains(out, "● A 1.0%") || !strings.Contains(out, "● B 4.0%") {
		t.Fatalf("expected legend with last values, got %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "     4 ┤ ") || !strings.HasPrefix(lines[4], "     1 ┤ ") {
		t.Fatalf("unexpected axis labels: %q / %q", lines[1], lines[4])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes")
	}
}

func TestChartEmptySeriesWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := (Chart{Title: "x", Series: []Series{{Name: "A"}}}).Render(&buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestChartPinnedScale(t *testing.T) {
	var buf bytes.Buffer
	err := Chart{Width: 10, Height: 3, Min: 0, Max: 100, Series: []Series{{Name: "acc", Values: []float64{100, 100}}}}.Render(&buf)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	top := strings.TrimPrefix(lines[0], "   100 ┤ ")
	if top == lines[0] {
		t.Fatalf("expected pinned top label, got %q", lines[0])
	}
	if !strings.ContainsRune(top, rune(0x2809)) {
		t.Fatalf("expected dots on the top row, got %q", top)
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{0, 10}, 3)
	if got[0] != 0 || got[1] != 5 || got[2] != 10 {
		t.Fatalf("unexpected stretch: %v", got)
	}
	got = resample([]float64{1, 3, 5, 7}, 2)
	if got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected average: %v", got)
	}
	got = resample([]float64{4}, 3)
	if got[0] != 4 || got[2] != 4 {
		t.Fatalf("unexpected single value: %v", got)
	}
}
