package services

import (
	stdContext "context"
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const saveProgressFailed = "error saving your progress, try again"

// BadgeEvaluator awards badges after a learner's totals change.
type BadgeEvaluator interface {
	EvaluateBadges(userID string) ([]string, error)
}

// LeaderboardInvalidator is told when XP totals change.
type LeaderboardInvalidator interface {
	Invalidate(ctx stdContext.Context)
}

type ExerciseService struct {
	context.DefaultService

	content     *repositories.ContentRepository
	progress    *repositories.ProgressRepository
	sessions    SessionStore
	badges      BadgeEvaluator
	leaderboard LeaderboardInvalidator
	now         func() time.Time
}

const EXERCISE_SVC = "exercise_svc"

func (svc ExerciseService) Id() string {
	return EXERCISE_SVC
}

func (svc *ExerciseService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *ExerciseService) Start() error {
	db := svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.content = repositories.NewContentRepository(db)
	svc.progress = repositories.NewProgressRepository(db)
	svc.sessions = NewRedisSessionStore(svc.Service(REDIS_SVC).(*RedisService))
	svc.badges = svc.Service(BADGE_SVC).(*BadgeService)
	svc.leaderboard = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	return nil
}

func (svc *ExerciseService) loadLesson(lessonID string) (*model.Lesson, error) {
	lesson, err := svc.content.GetLessonWithExercises(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Lesson not found")
		}
		return nil, HandleDBError(err)
	}
	if !lesson.IsActive {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}
	if len(lesson.Exercises) == 0 {
		return nil, shared.NewBadRequestError(gamification.ErrNoExercises, "Lesson has no exercises")
	}
	return lesson, nil
}

// SubmitExercises grades the answers against the stored answer key and
// records the attempt. A client supplied score is ignored.
func (svc *ExerciseService) SubmitExercises(ctx stdContext.Context, userID string, req *dto.SubmitExercisesRequest) (*dto.SubmitExercisesResponse, error) {
	lesson, err := svc.loadLesson(req.LessonID)
	if err != nil {
		return nil, err
	}

	if req.Score != nil {
		log.WithFields(log.Fields{"user_id": userID, "lesson_id": lesson.ID, "client_score": *req.Score}).
			Debug("Ignoring client supplied score")
	}

	return svc.submit(ctx, userID, lesson, req.Answers)
}

func (svc *ExerciseService) submit(ctx stdContext.Context, userID string, lesson *model.Lesson, answers map[int]string) (*dto.SubmitExercisesResponse, error) {
	gradables := make([]gamification.Gradable, len(lesson.Exercises))
	for i, e := range lesson.Exercises {
		gradables[i] = gamification.Gradable{
			Type:          gamification.ExerciseType(e.Type),
			CorrectAnswer: e.CorrectAnswer,
		}
	}
	grade := gamification.Grade(gradables, answers)

	result, err := svc.progress.RecordSubmission(repositories.Submission{
		UserID:   userID,
		LessonID: lesson.ID,
		Score:    grade.Score,
		Passed:   grade.Passed,
		XPReward: lesson.XPReward,
		Now:      svc.now().UTC(),
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "lesson_id": lesson.ID}).Error("Failed to record submission")
		return nil, shared.NewInternalError(err, saveProgressFailed)
	}

	xpGained := 0
	if result.XPAwarded {
		xpGained = lesson.XPReward
	}
	recordSubmission(grade.Passed, xpGained)

	resp := &dto.SubmitExercisesResponse{
		Success:       true,
		LessonID:      lesson.ID,
		Score:         grade.Score,
		Passed:        grade.Passed,
		Correct:       grade.Correct,
		Total:         grade.Total,
		Marks:         grade.Marks,
		Attempts:      result.Progress.Attempts,
		XPAwarded:     result.XPAwarded,
		XPGained:      xpGained,
		TotalXP:       result.Profile.TotalXP,
		CurrentStreak: result.Profile.CurrentStreak,
		NewBadgeIDs:   []string{},
	}

	if result.XPAwarded {
		if svc.badges != nil {
			awarded, err := svc.badges.EvaluateBadges(userID)
			if err != nil {
				log.WithError(err).WithField("user_id", userID).Warn("Badge evaluation failed after XP award")
			} else {
				resp.NewBadgeIDs = awarded
			}
		}
		if svc.leaderboard != nil {
			svc.leaderboard.Invalidate(ctx)
		}
	}

	return resp, nil
}

// ==================== SESSIONS ====================

func (svc *ExerciseService) StartSession(ctx stdContext.Context, userID, lessonID string) (*dto.SessionResponse, error) {
	lesson, err := svc.loadLesson(lessonID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to start session")
	}

	session, err := gamification.NewSession(id.String(), userID, lesson.ID, len(lesson.Exercises), svc.now().UTC())
	if err != nil {
		return nil, shared.NewBadRequestError(err, err.Error())
	}

	if err := svc.sessions.Save(ctx, session); err != nil {
		return nil, shared.NewInternalError(err, "Failed to start session")
	}

	return toSessionResponse(session, lesson), nil
}

func (svc *ExerciseService) GetSession(ctx stdContext.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, lesson, err := svc.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session, lesson), nil
}

func (svc *ExerciseService) AnswerSession(ctx stdContext.Context, userID, sessionID, answer string) (*dto.SessionResponse, error) {
	return svc.step(ctx, userID, sessionID, func(s *gamification.Session) error {
		return s.Answer(answer)
	})
}

// NextExercise moves forward. Leaving the last exercise submits the session.
func (svc *ExerciseService) NextExercise(ctx stdContext.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, lesson, err := svc.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Next(); err != nil {
		return nil, sessionError(err)
	}
	if session.State == gamification.StateSubmitting {
		return svc.finish(ctx, userID, session, lesson)
	}

	if err := svc.sessions.Save(ctx, session); err != nil {
		return nil, shared.NewInternalError(err, "Failed to save session")
	}
	return toSessionResponse(session, lesson), nil
}

func (svc *ExerciseService) PrevExercise(ctx stdContext.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	return svc.step(ctx, userID, sessionID, (*gamification.Session).Prev)
}

// SubmitSession grades and records a session from its last exercise. When
// recording fails the session goes back to the last exercise with every
// answer kept, so submitting again is the retry.
func (svc *ExerciseService) SubmitSession(ctx stdContext.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, lesson, err := svc.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.State != gamification.StateSubmitting {
		if err := session.Submit(); err != nil {
			return nil, sessionError(err)
		}
	}

	return svc.finish(ctx, userID, session, lesson)
}

func (svc *ExerciseService) finish(ctx stdContext.Context, userID string, session *gamification.Session, lesson *model.Lesson) (*dto.SessionResponse, error) {
	result, submitErr := svc.submit(ctx, userID, lesson, session.Answers)
	if submitErr != nil {
		_ = session.Fail()
		if err := svc.sessions.Save(ctx, session); err != nil {
			log.WithError(err).WithField("session_id", session.ID).Error("Failed to save session after failed submit")
		}
		return nil, submitErr
	}

	_ = session.Complete(gamification.Outcome{
		Score:       result.Score,
		Passed:      result.Passed,
		XPAwarded:   result.XPAwarded,
		XPGained:    result.XPGained,
		NewBadgeIDs: result.NewBadgeIDs,
	})
	if err := svc.sessions.Save(ctx, session); err != nil {
		log.WithError(err).WithField("session_id", session.ID).Warn("Failed to save completed session")
	}

	resp := toSessionResponse(session, lesson)
	resp.Result = result
	return resp, nil
}

func (svc *ExerciseService) step(ctx stdContext.Context, userID, sessionID string, fn func(*gamification.Session) error) (*dto.SessionResponse, error) {
	session, lesson, err := svc.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, sessionError(err)
	}

	if err := svc.sessions.Save(ctx, session); err != nil {
		return nil, shared.NewInternalError(err, "Failed to save session")
	}

	return toSessionResponse(session, lesson), nil
}

// loadSession returns the session only to its owner; anyone else gets 404.
func (svc *ExerciseService) loadSession(ctx stdContext.Context, userID, sessionID string) (*gamification.Session, *model.Lesson, error) {
	session, err := svc.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil, shared.NewNotFoundError(err, "Session not found")
		}
		return nil, nil, shared.NewInternalError(err, "Failed to load session")
	}
	if session.UserID != userID {
		return nil, nil, shared.NewNotFoundError(ErrSessionNotFound, "Session not found")
	}

	lesson, err := svc.loadLesson(session.LessonID)
	if err != nil {
		return nil, nil, err
	}
	return session, lesson, nil
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, gamification.ErrNotAnswering), errors.Is(err, gamification.ErrNotSubmitting):
		return shared.NewConflictError(err, err.Error())
	default:
		return shared.NewBadRequestError(err, err.Error())
	}
}

func toSessionResponse(s *gamification.Session, lesson *model.Lesson) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:        s.ID,
		LessonID:  s.LessonID,
		State:     string(s.State),
		Index:     s.Index,
		Total:     s.Total,
		Answers:   s.Answers,
		StartedAt: s.StartedAt,
	}

	if s.State == gamification.StateAnswering && s.Index < len(lesson.Exercises) {
		exercise := toExerciseResponse(&lesson.Exercises[s.Index])
		resp.Exercise = &exercise
	}

	if s.Result != nil {
		resp.Result = &dto.SubmitExercisesResponse{
			Success:     true,
			LessonID:    s.LessonID,
			Score:       s.Result.Score,
			Passed:      s.Result.Passed,
			XPAwarded:   s.Result.XPAwarded,
			XPGained:    s.Result.XPGained,
			NewBadgeIDs: s.Result.NewBadgeIDs,
		}
	}

	return resp
}
