package progress

import (
	"errors"
	"fmt"
)

// CurrentVersion is the snapshot schema written by this build.
const CurrentVersion = 3

// ErrUnsupportedVersion is returned for documents newer than CurrentVersion.
var ErrUnsupportedVersion = errors.New("unsupported progress version")

// Migration upgrades a raw document by exactly one version. It must not
// modify its input.
type Migration func(map[string]any) map[string]any

// migrations[v] upgrades version v to v+1.
var migrations = map[int]Migration{
	1: migrateV1,
	2: migrateV2,
}

// Migrate upgrades a raw document to CurrentVersion. Documents without a
// version field are version 1.
func Migrate(raw map[string]any) (map[string]any, error) {
	v := versionOf(raw)
	if v > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	if v < 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	doc := raw
	for v < CurrentVersion {
		step, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("no migration from version %d", v)
		}
		doc = step(doc)
		v++
		doc["version"] = v
	}
	return doc, nil
}

func versionOf(raw map[string]any) int {
	switch v := raw["version"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case nil:
		return 1
	default:
		return 0
	}
}

// migrateV1 turns lesson star counts into records and renames the letter
// accuracy and XP fields.
func migrateV1(in map[string]any) map[string]any {
	out := copyMap(in)
	if lessons, ok := in["completedLessons"].(map[string]any); ok {
		records := make(map[string]any, len(lessons))
		for id, stars := range lessons {
			records[id] = map[string]any{"stars": stars}
		}
		out["completedLessons"] = records
	}
	rename(out, "letterAccuracy", "letterEma")
	rename(out, "xp", "totalXp")
	return out
}

// migrateV2 replaces the bare streak counter with a streak record and turns
// the list of completed daily dates into a set.
func migrateV2(in map[string]any) map[string]any {
	out := copyMap(in)
	if days, ok := in["streakDays"]; ok {
		delete(out, "streakDays")
		out["streak"] = map[string]any{
			"current":  days,
			"best":     days,
			"lastDate": in["lastPracticeDate"],
		}
		delete(out, "lastPracticeDate")
	}
	if dates, ok := in["dailyCompleted"].([]any); ok {
		set := make(map[string]any, len(dates))
		for _, d := range dates {
			if s, ok := d.(string); ok {
				set[s] = true
			}
		}
		out["dailyCompleted"] = set
	}
	return out
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func rename(m map[string]any, from, to string) {
	if v, ok := m[from]; ok {
		delete(m, from)
		m[to] = v
	}
}
