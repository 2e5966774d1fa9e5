package seeders

import (
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/model"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BadgeSeeder handles seeding the badge catalog
type BadgeSeeder struct {
	db *gorm.DB
}

func NewBadgeSeeder(db *gorm.DB) *BadgeSeeder {
	return &BadgeSeeder{db: db}
}

func (s *BadgeSeeder) SeedBadges() error {
	log.Info("Seeding badges")

	badges := []model.Badge{
		{ID: "badge_first_steps", Name: "First Steps", Description: "Complete your first lesson", ConditionType: string(gamification.ConditionLessonsCompleted), ConditionValue: 1},
		{ID: "badge_fast_learner", Name: "Fast Learner", Description: "Complete 10 lessons", ConditionType: string(gamification.ConditionLessonsCompleted), ConditionValue: 10},
		{ID: "badge_xp_100", Name: "Rising Star", Description: "Earn 100 XP", ConditionType: string(gamification.ConditionXPMilestone), ConditionValue: 100},
		{ID: "badge_xp_1000", Name: "XP Champion", Description: "Earn 1000 XP", ConditionType: string(gamification.ConditionXPMilestone), ConditionValue: 1000},
		{ID: "badge_streak_3", Name: "On a Roll", Description: "Keep a 3 day streak", ConditionType: string(gamification.ConditionStreak), ConditionValue: 3},
		{ID: "badge_streak_7", Name: "Week Warrior", Description: "Keep a 7 day streak", ConditionType: string(gamification.ConditionStreak), ConditionValue: 7},
	}

	created := 0
	for i := range badges {
		badges[i].OrderIndex = i
		badges[i].IsActive = true

		ok, err := createIfMissingReport(s.db, &model.Badge{}, badges[i].ID, &badges[i])
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}

	log.WithField("created", created).Info("Badges seeded")
	return nil
}
