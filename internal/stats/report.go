package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/tracker"
)

// Source is the read side of the session store.
type Source interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	ListCharAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CharAggregate, error)
	ListCharStatsForSessions(ctx context.Context, sessionIDs []int64, chars []string) (map[int64]map[string]model.CharAggregate, error)
	Load(ctx context.Context) (progress.Snapshot, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	CharAggsAll      []model.CharAggregate
	CharAggsWindow   []model.CharAggregate
	CurveChars       []string
	CharCurves       map[int64]map[string]model.CharAggregate
	Progress         progress.Snapshot
	Letters          *tracker.Tracker
	Weak             []tracker.WeakLetterInfo
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	charAggsAll, err := src.ListCharAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate chars: %w", err)
	}
	charAggsWindow, err := src.ListCharAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate chars: %w", err)
	}

	curveChars := parseChars(cfg.Chars)
	if len(curveChars) == 0 {
		curveChars = TopLetters(charAggsWindow, 3)
	}
	charCurves, err := src.ListCharStatsForSessions(ctx, allIDs, curveChars)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load char curves: %w", err)
	}

	snap, err := src.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load progress: %w", err)
	}
	letters := tracker.FromSnapshot(snap.LetterEMA, snap.LetterHistory)

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		CharAggsAll:      charAggsAll,
		CharAggsWindow:   charAggsWindow,
		CurveChars:       curveChars,
		CharCurves:       charCurves,
		Progress:         snap,
		Letters:          letters,
		Weak:             letters.WeakLetters(),
	}, nil
}

// parseChars splits a comma separated list, accepting bare runs of letters too.
func parseChars(raw string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		for _, r := range strings.TrimSpace(part) {
			ch := string(r)
			if _, ok := seen[ch]; ok {
				continue
			}
			seen[ch] = struct{}{}
			out = append(out, ch)
		}
	}
	return out
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
