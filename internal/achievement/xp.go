// Package achievement computes XP rewards and evaluates achievement unlocks.
package achievement

import (
	"math"
	"sort"
)

const (
	starStep         = 0.25
	perfectAccuracy  = 100.0
	perfectBonusRate = 0.2
	speedFloorWPM    = 30
	speedTierWPM     = 10
	speedTierRate    = 0.1
	speedBonusCap    = 0.5
	streakRate       = 0.05
	streakBonusCap   = 0.25
)

// XPBreakdown itemizes an XP award. Total always equals the sum of the parts.
type XPBreakdown struct {
	BaseXP        int `json:"baseXp"`
	StarBonus     int `json:"starBonus"`
	AccuracyBonus int `json:"accuracyBonus"`
	SpeedBonus    int `json:"speedBonus"`
	StreakBonus   int `json:"streakBonus"`
	Total         int `json:"total"`
}

// CalculateXP computes the bonus-weighted XP for one session.
func CalculateXP(baseXP int, accuracy float64, wpm, stars, streak int) XPBreakdown {
	if baseXP < 0 {
		baseXP = 0
	}
	adjusted := float64(baseXP) * (1 + float64(maxInt(0, stars-1))*starStep)

	accuracyBonus := 0.0
	if accuracy >= perfectAccuracy {
		accuracyBonus = adjusted * perfectBonusRate
	}
	speedBonus := 0.0
	if wpm >= speedFloorWPM {
		tiers := math.Floor(float64(wpm-speedFloorWPM) / speedTierWPM)
		speedBonus = adjusted * math.Min(tiers*speedTierRate, speedBonusCap)
	}
	streakBonus := adjusted * math.Min(float64(maxInt(0, streak))*streakRate, streakBonusCap)

	total := int(math.Round(adjusted + accuracyBonus + speedBonus + streakBonus))
	parts := apportion([]float64{
		float64(baseXP),
		adjusted - float64(baseXP),
		accuracyBonus,
		speedBonus,
		streakBonus,
	}, total)
	return XPBreakdown{
		BaseXP:        parts[0],
		StarBonus:     parts[1],
		AccuracyBonus: parts[2],
		SpeedBonus:    parts[3],
		StreakBonus:   parts[4],
		Total:         total,
	}
}

// apportion rounds parts to integers summing to total using the largest
// remainder method.
func apportion(parts []float64, total int) []int {
	out := make([]int, len(parts))
	floorSum := 0
	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(parts))
	for i, p := range parts {
		f := math.Floor(p)
		out[i] = int(f)
		floorSum += out[i]
		rems[i] = remainder{idx: i, frac: p - f}
	}
	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for i := 0; floorSum < total && i < len(rems); i++ {
		out[rems[i].idx]++
		floorSum++
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
