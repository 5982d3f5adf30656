package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

func TestSessionMetrics(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(50, 0, 60000)
	if wpm != 10 || cpm != 50 || acc != 100 {
		t.Fatalf("unexpected metrics: %v %v %v", wpm, cpm, acc)
	}
	wpm, cpm, acc = SessionMetrics(0, 0, 0)
	if wpm != 0 || cpm != 0 || acc != 100 {
		t.Fatalf("expected neutral metrics, got %v %v %v", wpm, cpm, acc)
	}
	_, _, acc = SessionMetrics(3, 1, 1000)
	if math.Abs(acc-75) > 1e-9 {
		t.Fatalf("expected 75%% accuracy, got %v", acc)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected average: %v", got)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, []model.SessionAggregate{
		{Correct: 50, DurationMs: 60000, XP: 12},
		{Correct: 100, DurationMs: 60000, XP: 8},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Best WPM: 20.00", "Avg Accuracy: 100.00%", "Practice Time: 2:00", "XP Earned: 20"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestSelectWeakLetters(t *testing.T) {
	infos := []tracker.WeakLetterInfo{{Letter: "q", Priority: 70}, {Letter: "z", Priority: 50}, {Letter: "x", Priority: 30}}
	got := SelectWeakLetters(infos, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 letters, got %v", got)
	}
	if _, ok := got['x']; ok {
		t.Fatalf("lowest priority letter should be excluded")
	}
	if len(SelectWeakLetters(infos, 0)) != 3 {
		t.Fatalf("top 0 should select all")
	}
	if len(SelectWeakLetters(nil, 3)) != 0 {
		t.Fatalf("expected empty set")
	}
}

func TestRenderWeakTable(t *testing.T) {
	var buf bytes.Buffer
	infos := []tracker.WeakLetterInfo{{Letter: "q", Accuracy: 61.5, Trend: tracker.TrendDeclining, Consistency: 80, Priority: 55}}
	history := func(string) []tracker.HistoryEntry {
		return []tracker.HistoryEntry{{Accuracy: 70}, {Accuracy: 60}}
	}
	if err := RenderWeakTable(&buf, infos, history); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "61.5%") || !strings.Contains(out, "declining") || !strings.Contains(out, "  @.\n") {
		t.Fatalf("unexpected weak table: %q", out)
	}

	buf.Reset()
	if err := RenderWeakTable(&buf, nil, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No weak letters") {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}

func TestSparklineHasNoBlankGlyph(t *testing.T) {
	got := Sparkline([]float64{70, 60, 65})
	if got != "@.+" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{50, 50}); got != "++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderAchievements(t *testing.T) {
	defs := []achievement.Definition{
		{ID: "a", Title: "Alpha", Description: "first"},
		{ID: "b", Title: "Beta", Description: "second"},
	}
	unlocks := achievement.Unlocks{"a": {AchievementID: "a", Unlocked: true, UnlockedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)}}
	var buf bytes.Buffer
	if err := RenderAchievements(&buf, defs, unlocks); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Achievements 1/2") || !strings.Contains(out, "2024-02-03 (new)") || !strings.Contains(out, "locked") {
		t.Fatalf("unexpected achievements output: %q", out)
	}
}
