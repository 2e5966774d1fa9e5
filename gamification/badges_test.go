package gamification

import (
	"reflect"
	"testing"
)

func TestQualifies(t *testing.T) {
	m := Metrics{TotalXP: 150, CurrentStreak: 3, LessonsCompleted: 5}

	tests := []struct {
		rule BadgeRule
		want bool
	}{
		{BadgeRule{Condition: ConditionXPMilestone, Value: 150}, true},
		{BadgeRule{Condition: ConditionXPMilestone, Value: 151}, false},
		{BadgeRule{Condition: ConditionStreak, Value: 3}, true},
		{BadgeRule{Condition: ConditionStreak, Value: 7}, false},
		{BadgeRule{Condition: ConditionLessonsCompleted, Value: 1}, true},
		{BadgeRule{Condition: ConditionLessonsCompleted, Value: 10}, false},
		{BadgeRule{Condition: ConditionTrackCompleted, Value: 0}, false},
		{BadgeRule{Condition: "unknown", Value: 0}, false},
	}

	for _, tt := range tests {
		if got := Qualifies(tt.rule, m); got != tt.want {
			t.Errorf("Qualifies(%+v) = %v, want %v", tt.rule, got, tt.want)
		}
	}
}

func TestNewlyEarned(t *testing.T) {
	catalog := []BadgeRule{
		{ID: "first-lesson", Condition: ConditionLessonsCompleted, Value: 1},
		{ID: "xp-100", Condition: ConditionXPMilestone, Value: 100},
		{ID: "track", Condition: ConditionTrackCompleted, Value: 1},
		{ID: "streak-3", Condition: ConditionStreak, Value: 3},
		{ID: "xp-1000", Condition: ConditionXPMilestone, Value: 1000},
	}
	m := Metrics{TotalXP: 120, CurrentStreak: 3, LessonsCompleted: 2}

	got := NewlyEarned(catalog, map[string]bool{}, m)
	want := []string{"first-lesson", "xp-100", "streak-3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("first pass = %v, want %v", got, want)
	}

	earned := map[string]bool{}
	for _, id := range got {
		earned[id] = true
	}
	if again := NewlyEarned(catalog, earned, m); len(again) != 0 {
		t.Fatalf("second pass awarded %v", again)
	}
}
