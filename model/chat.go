package model

import "time"

type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"not null;index"`
	UserID         string    `json:"user_id" gorm:"not null;index"`
	Message        string    `json:"message" gorm:"type:text;not null"`
	Response       string    `json:"response" gorm:"type:text;not null"`
	ModelUsed      string    `json:"model_used" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}
