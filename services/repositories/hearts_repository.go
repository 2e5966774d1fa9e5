package repositories

import (
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HeartsRepository struct {
	BaseRepository
}

func NewHeartsRepository(db *gorm.DB) *HeartsRepository {
	return &HeartsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ConsumeHeart takes one heart from the user's quota for day (YYYY-MM-DD).
// The daily reset and the decrement are the same conditional UPDATE, so two
// concurrent requests can never both take the last heart. ok is false when
// the quota for day is already spent; usage is the row after the attempt.
func (ds *HeartsRepository) ConsumeHeart(userID, day string, maxHearts int, now time.Time) (usage *model.HeartsUsage, ok bool, err error) {
	usage = &model.HeartsUsage{}

	err = ds.db.Transaction(func(tx *gorm.DB) error {
		seed := model.HeartsUsage{
			UserID:          userID,
			HeartsRemaining: maxHearts,
			ResetDate:       day,
			UpdatedAt:       now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&seed).Error
		if err != nil {
			return err
		}

		res := tx.Model(&model.HeartsUsage{}).
			Where("user_id = ? AND (reset_date < ? OR hearts_remaining > 0)", userID, day).
			Updates(map[string]interface{}{
				"hearts_remaining":      gorm.Expr("CASE WHEN reset_date < ? THEN ? ELSE hearts_remaining - 1 END", day, maxHearts-1),
				"total_questions_asked": gorm.Expr("total_questions_asked + 1"),
				"reset_date":            day,
				"updated_at":            now,
			})
		if res.Error != nil {
			return res.Error
		}
		ok = res.RowsAffected == 1

		return tx.Where("user_id = ?", userID).First(usage).Error
	})
	if err != nil {
		return nil, false, err
	}

	return usage, ok, nil
}

func (ds *HeartsRepository) GetUsage(userID string) (*model.HeartsUsage, error) {
	var usage model.HeartsUsage
	if err := ds.db.Where("user_id = ?", userID).First(&usage).Error; err != nil {
		return nil, err
	}
	return &usage, nil
}
