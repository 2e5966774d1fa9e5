package repositories

import (
	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
)

// AnalyticRepository answers ranking and reporting queries across users.
type AnalyticRepository struct {
	BaseRepository
}

func NewAnalyticRepository(db *gorm.DB) *AnalyticRepository {
	return &AnalyticRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

type LeaderboardRow struct {
	UserID        string
	Username      string
	TotalXP       int
	CurrentStreak int
	LongestStreak int
}

// TopProfiles orders active users by total XP, then longest streak, then id.
func (ds *AnalyticRepository) TopProfiles(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := ds.db.Table("profiles").
		Select("profiles.id AS user_id, users.username, profiles.total_xp, profiles.current_streak, profiles.longest_streak").
		Joins("JOIN users ON users.id = profiles.id").
		Where("users.is_active = ?", true).
		Order("profiles.total_xp DESC, profiles.longest_streak DESC, profiles.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// UserRank is the 1-based position of userID under the TopProfiles ordering.
func (ds *AnalyticRepository) UserRank(userID string) (int, error) {
	var profile model.Profile
	if err := ds.db.Where("id = ?", userID).First(&profile).Error; err != nil {
		return 0, err
	}

	var ahead int64
	err := ds.db.Table("profiles").
		Joins("JOIN users ON users.id = profiles.id").
		Where("users.is_active = ?", true).
		Where("(profiles.total_xp > ? OR (profiles.total_xp = ? AND profiles.longest_streak > ?) OR (profiles.total_xp = ? AND profiles.longest_streak = ? AND profiles.id < ?))",
			profile.TotalXP,
			profile.TotalXP, profile.LongestStreak,
			profile.TotalXP, profile.LongestStreak, profile.ID).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}

	return int(ahead) + 1, nil
}

func (ds *AnalyticRepository) CountCompletedLessons() (int64, error) {
	var count int64
	err := ds.db.Model(&model.LessonProgress{}).Where("completed = ?", true).Count(&count).Error
	return count, err
}
