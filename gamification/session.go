package gamification

import (
	"errors"
	"strings"
	"time"
)

type SessionState string

const (
	StateAnswering  SessionState = "answering"
	StateSubmitting SessionState = "submitting"
	StateResults    SessionState = "results"
)

var (
	ErrNoExercises     = errors.New("lesson has no exercises")
	ErrAnswerRequired  = errors.New("an answer is required before moving on")
	ErrFirstExercise   = errors.New("already at the first exercise")
	ErrNotAnswering    = errors.New("session is not accepting answers")
	ErrNotSubmitting   = errors.New("session is not being submitted")
	ErrNotLastExercise = errors.New("submit is only allowed from the last exercise")
)

// Session walks a learner through the ordered exercises of one lesson.
//
//	Answering(i) --next--> Answering(i+1)        needs an answer for i
//	Answering(N-1) --next--> Submitting
//	Submitting --complete--> Results             terminal
//	Submitting --fail--> Answering(N-1)          answers kept for the retry
//	Answering(i) --prev--> Answering(i-1)        i > 0
//
// Answers are keyed by exercise index.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	LessonID  string         `json:"lesson_id"`
	Total     int            `json:"total"`
	State     SessionState   `json:"state"`
	Index     int            `json:"index"`
	Answers   map[int]string `json:"answers"`
	Result    *Outcome       `json:"result,omitempty"`
	StartedAt time.Time      `json:"started_at"`
}

// Outcome is what the results view shows once a session is persisted.
type Outcome struct {
	Score       int      `json:"score"`
	Passed      bool     `json:"passed"`
	XPAwarded   bool     `json:"xp_awarded"`
	XPGained    int      `json:"xp_gained"`
	NewBadgeIDs []string `json:"new_badge_ids,omitempty"`
}

func NewSession(id, userID, lessonID string, total int, now time.Time) (*Session, error) {
	if total <= 0 {
		return nil, ErrNoExercises
	}
	return &Session{
		ID:        id,
		UserID:    userID,
		LessonID:  lessonID,
		Total:     total,
		State:     StateAnswering,
		Answers:   make(map[int]string),
		StartedAt: now,
	}, nil
}

// Answer records the answer for the current exercise, replacing any earlier one.
func (s *Session) Answer(answer string) error {
	if s.State != StateAnswering {
		return ErrNotAnswering
	}
	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.Answers[s.Index] = answer
	return nil
}

func (s *Session) HasAnswer(i int) bool {
	return strings.TrimSpace(s.Answers[i]) != ""
}

func (s *Session) IsLast() bool {
	return s.Index == s.Total-1
}

// Next advances to the following exercise, or into Submitting from the last one.
func (s *Session) Next() error {
	if s.State != StateAnswering {
		return ErrNotAnswering
	}
	if !s.HasAnswer(s.Index) {
		return ErrAnswerRequired
	}
	if s.IsLast() {
		s.State = StateSubmitting
		return nil
	}
	s.Index++
	return nil
}

// Submit is Next restricted to the last exercise.
func (s *Session) Submit() error {
	if s.State == StateAnswering && !s.IsLast() {
		return ErrNotLastExercise
	}
	return s.Next()
}

func (s *Session) Prev() error {
	if s.State != StateAnswering {
		return ErrNotAnswering
	}
	if s.Index == 0 {
		return ErrFirstExercise
	}
	s.Index--
	return nil
}

func (s *Session) Complete(out Outcome) error {
	if s.State != StateSubmitting {
		return ErrNotSubmitting
	}
	s.State = StateResults
	s.Result = &out
	return nil
}

// Fail puts a session whose submission could not be saved back on the last
// exercise so the learner can submit again.
func (s *Session) Fail() error {
	if s.State != StateSubmitting {
		return ErrNotSubmitting
	}
	s.State = StateAnswering
	s.Index = s.Total - 1
	return nil
}
