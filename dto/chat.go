package dto

import "time"

type ChatRequest struct {
	Message        string `json:"message" example:"What is a business model canvas?"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Response        string `json:"response"`
	HeartsRemaining int    `json:"hearts_remaining"`
	TotalQuestions  int    `json:"total_questions"`
	ConversationID  string `json:"conversation_id"`
	ModelUsed       string `json:"model_used"`
}

type HeartsResponse struct {
	HeartsRemaining int    `json:"hearts_remaining"`
	TotalQuestions  int    `json:"total_questions"`
	ResetDate       string `json:"reset_date"`
	CanAskQuestions bool   `json:"can_ask_questions"`
}

type OutOfHeartsResponse struct {
	HeartsRemaining int    `json:"hearts_remaining"`
	TotalQuestions  int    `json:"total_questions"`
	ResetDate       string `json:"reset_date"`
}

type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	ModelUsed string    `json:"model_used"`
	CreatedAt time.Time `json:"created_at"`
}
