package dto

import "time"

// ==================== CATALOG RESPONSES ====================

type TrackResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
	ModuleCount int    `json:"module_count"`
}

type LessonSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	XPReward      int    `json:"xp_reward"`
	OrderIndex    int    `json:"order_index"`
	ExerciseCount int    `json:"exercise_count"`
	Completed     bool   `json:"completed"`
}

type ModuleResponse struct {
	ID          string          `json:"id"`
	TrackID     string          `json:"track_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	OrderIndex  int             `json:"order_index"`
	Lessons     []LessonSummary `json:"lessons"`
}

// ExerciseResponse is what learners see. It never carries the correct answer.
type ExerciseResponse struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Question   string   `json:"question"`
	Options    []string `json:"options,omitempty"`
	OrderIndex int      `json:"order_index"`
}

type LessonResponse struct {
	ID        string             `json:"id"`
	ModuleID  string             `json:"module_id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	XPReward  int                `json:"xp_reward"`
	MediaURL  string             `json:"media_url,omitempty"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// ==================== ADMIN CONTENT REQUESTS ====================

type TrackRequest struct {
	Slug        string `json:"slug" validate:"required,min=2,max=64" example:"entrepreneurship"`
	Title       string `json:"title" validate:"required,max=200" example:"Entrepreneurship"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
	IsActive    *bool  `json:"is_active"`
}

func (r TrackRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ModuleRequest struct {
	TrackID     string `json:"track_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
	IsActive    *bool  `json:"is_active"`
}

func (r ModuleRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LessonRequest struct {
	ModuleID   string `json:"module_id" validate:"required"`
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content"`
	XPReward   int    `json:"xp_reward" validate:"min=0,max=1000"`
	MediaURL   string `json:"media_url" validate:"omitempty,url"`
	OrderIndex int    `json:"order_index" validate:"min=0"`
	IsActive   *bool  `json:"is_active"`
}

func (r LessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ExerciseRequest struct {
	Type          string   `json:"type" validate:"required,exercise_type" example:"multiple_choice"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"omitempty,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Explanation   string   `json:"explanation"`
	OrderIndex    int      `json:"order_index" validate:"min=0"`
}

func (r ExerciseRequest) Validate() error {
	return GetValidator().Struct(r)
}

// AdminExerciseResponse includes the answer key.
type AdminExerciseResponse struct {
	ExerciseResponse
	LessonID      string    `json:"lesson_id"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportExercisesResponse struct {
	LessonID string           `json:"lesson_id"`
	Imported int              `json:"imported"`
	Skipped  []ImportRowError `json:"skipped"`
}
