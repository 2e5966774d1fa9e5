package repositories

import (
	"time"

	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository owns lesson progress and the XP award that goes with it.
type ProgressRepository struct {
	BaseRepository
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

type Submission struct {
	UserID   string
	LessonID string
	Score    int
	Passed   bool
	XPReward int
	Now      time.Time
}

type SubmissionResult struct {
	Progress  model.LessonProgress
	Profile   model.Profile
	XPAwarded bool
}

// RecordSubmission upserts the progress row and, the first time the lesson is
// passed, credits the lesson XP and advances the streak. Everything happens in
// one transaction; the xp_awarded flip is a guarded UPDATE so that only one
// concurrent submission can win it.
func (ds *ProgressRepository) RecordSubmission(sub Submission) (*SubmissionResult, error) {
	var result SubmissionResult

	err := ds.db.Transaction(func(tx *gorm.DB) error {
		seed := model.LessonProgress{
			ID:       newID(),
			UserID:   sub.UserID,
			LessonID: sub.LessonID,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&seed).Error
		if err != nil {
			return err
		}

		var progress model.LessonProgress
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND lesson_id = ?", sub.UserID, sub.LessonID).
			First(&progress).Error
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"score":      sub.Score,
			"completed":  sub.Passed,
			"attempts":   gorm.Expr("attempts + ?", 1),
			"updated_at": sub.Now,
		}
		if sub.Passed {
			updates["completed_at"] = sub.Now
		}
		if err := tx.Model(&model.LessonProgress{}).Where("id = ?", progress.ID).Updates(updates).Error; err != nil {
			return err
		}

		if sub.Passed {
			res := tx.Model(&model.LessonProgress{}).
				Where("id = ? AND xp_awarded = ?", progress.ID, false).
				Update("xp_awarded", true)
			if res.Error != nil {
				return res.Error
			}
			result.XPAwarded = res.RowsAffected == 1
		}

		if err := tx.Where("id = ?", progress.ID).First(&result.Progress).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Profile{ID: sub.UserID}).Error; err != nil {
			return err
		}

		var profile model.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", sub.UserID).First(&profile).Error; err != nil {
			return err
		}

		if result.XPAwarded {
			streak := gamification.ApplyStreak(gamification.StreakState{
				Current:      profile.CurrentStreak,
				Longest:      profile.LongestStreak,
				LastActivity: profile.LastActivityDate,
			}, sub.Now)

			profile.TotalXP += sub.XPReward
			profile.CurrentStreak = streak.Current
			profile.LongestStreak = streak.Longest
			profile.LastActivityDate = streak.LastActivity

			err := tx.Model(&model.Profile{}).Where("id = ?", sub.UserID).Updates(map[string]interface{}{
				"total_xp":           gorm.Expr("total_xp + ?", sub.XPReward),
				"current_streak":     streak.Current,
				"longest_streak":     streak.Longest,
				"last_activity_date": streak.LastActivity,
			}).Error
			if err != nil {
				return err
			}
		}

		result.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (ds *ProgressRepository) GetProgress(userID, lessonID string) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	if err := ds.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (ds *ProgressRepository) ListByUser(userID string) ([]model.LessonProgress, error) {
	var progress []model.LessonProgress
	err := ds.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&progress).Error
	return progress, err
}

// CompletedLessonIDs returns the set of lessons the user currently has completed.
func (ds *ProgressRepository) CompletedLessonIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := ds.db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (ds *ProgressRepository) CountCompleted(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// ResetUserProgress is the explicit admin reset: progress rows and earned
// badges are removed and the profile totals go back to zero.
func (ds *ProgressRepository) ResetUserProgress(userID string) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserBadge{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"total_xp":           0,
			"current_streak":     0,
			"longest_streak":     0,
			"last_activity_date": nil,
		}).Error
	})
}
