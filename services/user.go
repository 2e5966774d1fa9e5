package services

import (
	stdContext "context"
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	adminDefaultPageSize = 20
	adminMaxPageSize     = 100
)

type UserService struct {
	context.DefaultService

	users       *repositories.UserRepository
	progress    *repositories.ProgressRepository
	badges      *repositories.BadgeRepository
	analytics   *repositories.AnalyticRepository
	chats       *repositories.ChatRepository
	leaderboard LeaderboardInvalidator
	now         func() time.Time
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	db := svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.users = repositories.NewUserRepository(db)
	svc.progress = repositories.NewProgressRepository(db)
	svc.badges = repositories.NewBadgeRepository(db)
	svc.analytics = repositories.NewAnalyticRepository(db)
	svc.chats = repositories.NewChatRepository(db)
	svc.leaderboard = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	return nil
}

func (svc *UserService) GetUserProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.users.GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, HandleDBError(err)
	}

	profile, err := svc.users.GetProfile(userID)
	if err != nil {
		return nil, HandleDBError(err)
	}

	completed, err := svc.progress.CountCompleted(userID)
	if err != nil {
		return nil, HandleDBError(err)
	}

	badges, err := svc.badges.CountUserBadges(userID)
	if err != nil {
		return nil, HandleDBError(err)
	}

	return &dto.UserProfileResponse{
		User:             toUserInfo(user),
		TotalXP:          profile.TotalXP,
		Level:            gamification.Level(profile.TotalXP),
		XPToNextLevel:    gamification.XPToNextLevel(profile.TotalXP),
		CurrentStreak:    profile.CurrentStreak,
		LongestStreak:    profile.LongestStreak,
		LastActivityDate: profile.LastActivityDate,
		LessonsCompleted: completed,
		BadgesEarned:     badges,
	}, nil
}

func (svc *UserService) GetUserProgress(userID string) (*dto.UserProgressResponse, error) {
	rows, err := svc.progress.ListByUser(userID)
	if err != nil {
		return nil, HandleDBError(err)
	}

	resp := &dto.UserProgressResponse{
		Lessons: make([]dto.LessonProgressResponse, 0, len(rows)),
	}
	for _, p := range rows {
		if p.Completed {
			resp.CompletedCount++
		}
		resp.Lessons = append(resp.Lessons, dto.LessonProgressResponse{
			LessonID:    p.LessonID,
			Completed:   p.Completed,
			Score:       p.Score,
			Attempts:    p.Attempts,
			CompletedAt: p.CompletedAt,
			XPAwarded:   p.XPAwarded,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return resp, nil
}

// ==================== ADMIN ====================

func (svc *UserService) AdminGetUsers(page, limit int, search string) (*dto.AdminUserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = adminDefaultPageSize
	}
	if limit > adminMaxPageSize {
		limit = adminMaxPageSize
	}

	users, total, err := svc.users.AdminGetUsers(page, limit, search)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to get users")
	}

	userInfos := make([]dto.AdminUserInfo, len(users))
	for i, user := range users {
		userInfos[i] = dto.AdminUserInfo{
			ID:            user.ID,
			Email:         user.Email,
			Username:      user.Username,
			Role:          user.Role,
			IsActive:      user.IsActive,
			TotalXP:       user.TotalXP,
			CurrentStreak: user.CurrentStreak,
			LastLogin:     user.LastLogin,
			CreatedAt:     user.CreatedAt,
		}
	}

	return &dto.AdminUserListResponse{
		Users:      userInfos,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

// AdminResetProgress wipes a learner's progress, badges and totals.
func (svc *UserService) AdminResetProgress(ctx stdContext.Context, userID string) error {
	if _, err := svc.users.GetUser(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(err, "User not found")
		}
		return HandleDBError(err)
	}

	if err := svc.progress.ResetUserProgress(userID); err != nil {
		return HandleDBError(err)
	}

	if svc.leaderboard != nil {
		svc.leaderboard.Invalidate(ctx)
	}

	log.WithField("user_id", userID).Info("User progress reset by admin")
	return nil
}

func (svc *UserService) GetAdminStats() (*dto.AdminStatsResponse, error) {
	stats := &dto.AdminStatsResponse{}
	var err error

	if stats.TotalUsers, err = svc.users.CountUsers(); err != nil {
		return nil, HandleDBError(err)
	}
	if stats.CompletedLessons, err = svc.analytics.CountCompletedLessons(); err != nil {
		return nil, HandleDBError(err)
	}

	midnight := gamification.CalendarDay(svc.now().UTC())
	if stats.QuestionsAskedToday, err = svc.chats.CountMessagesSince(midnight); err != nil {
		return nil, HandleDBError(err)
	}
	if stats.ChatMessages, err = svc.chats.CountMessages(); err != nil {
		return nil, HandleDBError(err)
	}
	if stats.BadgesAwarded, err = svc.badges.CountAwarded(); err != nil {
		return nil, HandleDBError(err)
	}

	return stats, nil
}
