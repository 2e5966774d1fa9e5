package dto

import "time"

// SubmitExercisesRequest carries the learner's answers keyed by exercise index.
// Score and Completed are accepted for compatibility but the server regrades.
type SubmitExercisesRequest struct {
	LessonID  string         `json:"lesson_id" validate:"required" example:"0190f1c2-7d3e-7b6a-9c1d-2e3f4a5b6c7d"`
	Answers   map[int]string `json:"answers" validate:"required"`
	Score     *int           `json:"score,omitempty"`
	Completed *bool          `json:"completed,omitempty"`
}

func (r SubmitExercisesRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SubmitExercisesResponse struct {
	Success       bool     `json:"success"`
	LessonID      string   `json:"lesson_id"`
	Score         int      `json:"score"`
	Passed        bool     `json:"passed"`
	Correct       int      `json:"correct"`
	Total         int      `json:"total"`
	Marks         []bool   `json:"marks"`
	Attempts      int      `json:"attempts"`
	XPAwarded     bool     `json:"xp_awarded"`
	XPGained      int      `json:"xp_gained"`
	TotalXP       int      `json:"total_xp"`
	CurrentStreak int      `json:"current_streak"`
	NewBadgeIDs   []string `json:"new_badge_ids"`
}

// ==================== EXERCISE SESSIONS ====================

type SessionAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

func (r SessionAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SessionResponse struct {
	ID        string                   `json:"id"`
	LessonID  string                   `json:"lesson_id"`
	State     string                   `json:"state"`
	Index     int                      `json:"index"`
	Total     int                      `json:"total"`
	Answers   map[int]string           `json:"answers"`
	Exercise  *ExerciseResponse        `json:"exercise,omitempty"`
	Result    *SubmitExercisesResponse `json:"result,omitempty"`
	StartedAt time.Time                `json:"started_at"`
}
