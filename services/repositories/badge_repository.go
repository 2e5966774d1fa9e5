package repositories

import (
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	BaseRepository
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ListBadges returns the catalog in evaluation order.
func (ds *BadgeRepository) ListBadges(activeOnly bool) ([]model.Badge, error) {
	var badges []model.Badge
	query := ds.db.Model(&model.Badge{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("order_index ASC, id ASC").Find(&badges).Error
	return badges, err
}

func (ds *BadgeRepository) GetBadge(id string) (*model.Badge, error) {
	var badge model.Badge
	if err := ds.db.Where("id = ?", id).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (ds *BadgeRepository) CreateBadge(badge *model.Badge) error {
	if badge.ID == "" {
		badge.ID = newID()
	}
	return ds.db.Create(badge).Error
}

func (ds *BadgeRepository) UpdateBadge(badge *model.Badge) error {
	return ds.db.Save(badge).Error
}

func (ds *BadgeRepository) DeleteBadge(id string) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", id).Delete(&model.UserBadge{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Badge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (ds *BadgeRepository) ListUserBadges(userID string) ([]model.UserBadge, error) {
	var badges []model.UserBadge
	err := ds.db.Where("user_id = ?", userID).Order("earned_at ASC").Find(&badges).Error
	return badges, err
}

func (ds *BadgeRepository) EarnedBadgeIDs(userID string) (map[string]bool, error) {
	var ids []string
	if err := ds.db.Model(&model.UserBadge{}).Where("user_id = ?", userID).Pluck("badge_id", &ids).Error; err != nil {
		return nil, err
	}

	earned := make(map[string]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

// AwardBadges inserts a UserBadge per id and returns the ids that were not
// already held. The unique (user_id, badge_id) key makes repeats a no-op.
func (ds *BadgeRepository) AwardBadges(userID string, badgeIDs []string, at time.Time) ([]string, error) {
	var awarded []string

	err := ds.db.Transaction(func(tx *gorm.DB) error {
		for _, badgeID := range badgeIDs {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
				DoNothing: true,
			}).Create(&model.UserBadge{
				ID:       newID(),
				UserID:   userID,
				BadgeID:  badgeID,
				EarnedAt: at,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				awarded = append(awarded, badgeID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return awarded, nil
}

func (ds *BadgeRepository) CountUserBadges(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.UserBadge{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (ds *BadgeRepository) CountAwarded() (int64, error) {
	var count int64
	err := ds.db.Model(&model.UserBadge{}).Count(&count).Error
	return count, err
}

func (ds *BadgeRepository) SetIconURL(id, url string) error {
	return ds.db.Model(&model.Badge{}).Where("id = ?", id).Update("icon_url", url).Error
}
