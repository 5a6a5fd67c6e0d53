// Package grimoire holds the experience math derived from a player's mastery
// records.
package grimoire

import "math"

// Experience granted per mastery level (1..4). Levels outside the table
// contribute nothing.
var xpByMasteryLevel = map[int]int{
	1: 1,
	2: 5,
	3: 20,
	4: 50,
}

const xpPerWizardLevel = 100

// XPForMasteryLevel returns the experience one record at the given level is
// worth. Invalid or out-of-range levels contribute 0 and are skipped.
func XPForMasteryLevel(level int) int {
	return xpByMasteryLevel[level]
}

// TotalExperience sums the experience of a full set of mastery levels. The
// aggregate is always recomputed from the complete current set rather than
// applied as a delta, so overlapping recomputations converge on the same value.
func TotalExperience(levels []int) int {
	total := 0
	for _, lvl := range levels {
		total += XPForMasteryLevel(lvl)
	}
	return total
}

// WizardLevel maps accumulated experience to a wizard level, starting at 1.
func WizardLevel(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/xpPerWizardLevel + 1
}

// XPForLevel returns the experience required to complete the given level,
// following the 100 * level^1.5 curve.
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}
