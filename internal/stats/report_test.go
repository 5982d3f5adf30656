package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "keytutor.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		stats := model.SessionStats{
			SessionUUID:       "session",
			StartedAt:         start,
			EndedAt:           end,
			Layout:            "en",
			Mode:              model.ModeWords,
			CorrectNonSpace:   10,
			IncorrectNonSpace: 1,
			DurationMs:        end.Sub(start).Milliseconds(),
		}
		charStats := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0},
			{Char: "b", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertSession(ctx, stats, charStats)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}
	snap := progress.NewSnapshot()
	snap.LetterEMA["b"] = 60
	snap.LetterEMA["a"] = 99
	if err := st.Save(ctx, snap); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	cfg := model.StatsConfig{
		Layout:      "en",
		Last:        2,
		CurveWindow: 2,
		Chars:       "a,b",
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 2 {
		t.Fatalf("expected 2 window session ids, got %d", len(report.WindowSessionIDs))
	}
	if len(report.CharAggsAll) == 0 {
		t.Fatalf("expected char aggregates for all sessions")
	}
	if len(report.CharAggsWindow) == 0 {
		t.Fatalf("expected char aggregates for window sessions")
	}
	if len(report.CurveChars) != 2 || len(report.CharCurves[ids[2]]) != 2 {
		t.Fatalf("unexpected char curves: %v %v", report.CurveChars, report.CharCurves)
	}
	if len(report.Weak) != 1 || report.Weak[0].Letter != "b" {
		t.Fatalf("unexpected weak letters: %+v", report.Weak)
	}
}

func TestParseChars(t *testing.T) {
	got := parseChars("a, bc,,a")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected chars: %v", got)
	}
	if parseChars("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
