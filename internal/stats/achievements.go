package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/keytutor/internal/achievement"
)

// AchievementRows formats the catalog with unlock state as table cells.
func AchievementRows(defs []achievement.Definition, unlocks achievement.Unlocks) [][]string {
	rows := make([][]string, 0, len(defs))
	for _, def := range defs {
		status := "locked"
		p := unlocks[def.ID]
		if p.Unlocked {
			status = p.UnlockedAt.Format("2006-01-02")
			if !p.Seen {
				status += " (new)"
			}
		}
		rows = append(rows, []string{def.Icon, def.Title, def.Description, status})
	}
	return rows
}

// AchievementHeaders are the column titles matching AchievementRows.
var AchievementHeaders = []string{"", "Achievement", "Goal", "Unlocked"}

// RenderAchievements prints every achievement and whether it is unlocked.
func RenderAchievements(w io.Writer, defs []achievement.Definition, unlocks achievement.Unlocks) error {
	unlocked := 0
	for _, def := range defs {
		if unlocks[def.ID].Unlocked {
			unlocked++
		}
	}
	if _, err := fmt.Fprintf(w, "Achievements %d/%d\n", unlocked, len(defs)); err != nil {
		return err
	}
	for _, line := range formatTable(columns(AchievementHeaders), AchievementRows(defs, unlocks)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
