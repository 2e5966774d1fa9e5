package model

import "time"

type Badge struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Description    string    `json:"description" gorm:"type:text"`
	IconURL        string    `json:"icon_url"`
	ConditionType  string    `json:"condition_type" gorm:"not null"`
	ConditionValue int       `json:"condition_value" gorm:"not null"`
	OrderIndex     int       `json:"order_index" gorm:"not null;default:0"`
	IsActive       bool      `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserBadge struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeID  string    `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	EarnedAt time.Time `json:"earned_at"`

	Badge *Badge `json:"badge,omitempty" gorm:"foreignKey:BadgeID"`
}
