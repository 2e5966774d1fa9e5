package gamification

const xpPerLevel = 100

// Level is floor(totalXP/100)+1.
func Level(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/xpPerLevel + 1
}

func XPToNextLevel(totalXP int) int {
	return Level(totalXP)*xpPerLevel - max(totalXP, 0)
}
