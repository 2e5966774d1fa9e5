package model

import "time"

// LessonProgress is the per user, per lesson completion record.
// XPAwarded only ever goes from false to true.
type LessonProgress struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	LessonID    string     `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	Score       int        `json:"score" gorm:"not null;default:0"`
	Attempts    int        `json:"attempts" gorm:"not null;default:0"`
	CompletedAt *time.Time `json:"completed_at"`
	XPAwarded   bool       `json:"xp_awarded" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HeartsUsage is the daily AI chat quota of one user. ResetDate is the
// YYYY-MM-DD day the remaining count belongs to.
type HeartsUsage struct {
	UserID              string    `json:"user_id" gorm:"primaryKey"`
	HeartsRemaining     int       `json:"hearts_remaining" gorm:"not null"`
	TotalQuestionsAsked int       `json:"total_questions_asked" gorm:"not null;default:0"`
	ResetDate           string    `json:"reset_date" gorm:"size:10;not null"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (HeartsUsage) TableName() string {
	return "hearts_usage"
}
