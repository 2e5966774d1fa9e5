package gamification

type ConditionType string

const (
	ConditionXPMilestone      ConditionType = "xp_milestone"
	ConditionStreak           ConditionType = "streak"
	ConditionLessonsCompleted ConditionType = "lessons_completed"
	ConditionTrackCompleted   ConditionType = "track_completed"
)

func (c ConditionType) Valid() bool {
	switch c {
	case ConditionXPMilestone, ConditionStreak, ConditionLessonsCompleted, ConditionTrackCompleted:
		return true
	}
	return false
}

type BadgeRule struct {
	ID        string
	Condition ConditionType
	Value     int
}

// Metrics are the learner figures badge conditions are measured against.
type Metrics struct {
	TotalXP          int
	CurrentStreak    int
	LessonsCompleted int
}

// Qualifies reports whether m meets the rule. track_completed has no
// evaluation rule yet and never qualifies.
func Qualifies(rule BadgeRule, m Metrics) bool {
	switch rule.Condition {
	case ConditionXPMilestone:
		return m.TotalXP >= rule.Value
	case ConditionStreak:
		return m.CurrentStreak >= rule.Value
	case ConditionLessonsCompleted:
		return m.LessonsCompleted >= rule.Value
	}
	return false
}

// NewlyEarned walks the catalog in order and returns the ids of every badge
// that qualifies and is not already in earned.
func NewlyEarned(catalog []BadgeRule, earned map[string]bool, m Metrics) []string {
	var out []string
	for _, rule := range catalog {
		if earned[rule.ID] {
			continue
		}
		if Qualifies(rule, m) {
			out = append(out, rule.ID)
		}
	}
	return out
}
