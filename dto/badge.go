package dto

import "time"

type BadgeResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	IconURL        string     `json:"icon_url,omitempty"`
	ConditionType  string     `json:"condition_type"`
	ConditionValue int        `json:"condition_value"`
	Earned         bool       `json:"earned"`
	EarnedAt       *time.Time `json:"earned_at,omitempty"`
}

type CheckBadgesResponse struct {
	NewBadgeIDs []string `json:"new_badge_ids"`
}

type BadgeRequest struct {
	Name           string `json:"name" validate:"required,max=120" example:"First Steps"`
	Description    string `json:"description"`
	ConditionType  string `json:"condition_type" validate:"required,badge_condition" example:"lessons_completed"`
	ConditionValue int    `json:"condition_value" validate:"min=0" example:"1"`
	OrderIndex     int    `json:"order_index" validate:"min=0"`
	IsActive       *bool  `json:"is_active"`
}

func (r BadgeRequest) Validate() error {
	return GetValidator().Struct(r)
}
