package repositories

import (
	"strings"
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles user and profile database operations
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// UserWithProfile is a user row joined with its gamification totals.
type UserWithProfile struct {
	model.User
	TotalXP       int
	CurrentStreak int
	LongestStreak int
}

// CreateUser inserts the user together with a zeroed profile.
func (ds *UserRepository) CreateUser(user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&model.Profile{ID: user.ID}).Error
	})
}

func (ds *UserRepository) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmailOrUsername(emailOrUsername string) (*model.User, error) {
	var user model.User
	value := strings.TrimSpace(emailOrUsername)
	if err := ds.db.Where("email = ? OR username = ?", strings.ToLower(value), value).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) IsEmailTaken(email string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

func (ds *UserRepository) IsUsernameTaken(username string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (ds *UserRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (ds *UserRepository) CountUsers() (int64, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (ds *UserRepository) UpdateLastLogin(userID string, at time.Time) error {
	return ds.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

// GetProfile returns the profile of userID, or gorm.ErrRecordNotFound.
func (ds *UserRepository) GetProfile(userID string) (*model.Profile, error) {
	var profile model.Profile
	if err := ds.db.Where("id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// MutateProfile locks the profile row, lets fn change it and saves the streak
// and XP columns in the same transaction.
func (ds *UserRepository) MutateProfile(userID string, fn func(p *model.Profile)) (*model.Profile, error) {
	var profile model.Profile

	err := ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Profile{ID: userID}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).First(&profile).Error; err != nil {
			return err
		}

		fn(&profile)

		return tx.Model(&model.Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"total_xp":           profile.TotalXP,
			"current_streak":     profile.CurrentStreak,
			"longest_streak":     profile.LongestStreak,
			"last_activity_date": profile.LastActivityDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (ds *UserRepository) AdminGetUsers(page, limit int, search string) ([]UserWithProfile, int64, error) {
	var (
		users []UserWithProfile
		total int64
	)

	filter := func(db *gorm.DB) *gorm.DB {
		if search = strings.TrimSpace(search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			db = db.Where("(LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ?)", like, like)
		}
		return db
	}

	if err := ds.db.Model(&model.User{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := ds.db.Table("users").
		Select("users.*, COALESCE(profiles.total_xp, 0) AS total_xp, COALESCE(profiles.current_streak, 0) AS current_streak, COALESCE(profiles.longest_streak, 0) AS longest_streak").
		Joins("LEFT JOIN profiles ON profiles.id = users.id").
		Scopes(filter).
		Order("users.created_at DESC").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Scan(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
