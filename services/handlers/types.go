package handlers

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type UserServiceInterface interface {
	GetUserProfile(userID string) (*dto.UserProfileResponse, error)
	GetUserProgress(userID string) (*dto.UserProgressResponse, error)
	AdminGetUsers(page, limit int, search string) (*dto.AdminUserListResponse, error)
	AdminResetProgress(ctx context.Context, userID string) error
	GetAdminStats() (*dto.AdminStatsResponse, error)
}

type ContentServiceInterface interface {
	ListTracks() ([]dto.TrackResponse, error)
	ListModules(trackID, userID string) ([]dto.ModuleResponse, error)
	GetLesson(lessonID string) (*dto.LessonResponse, error)

	AdminListTracks() ([]dto.TrackResponse, error)
	CreateTrack(req *dto.TrackRequest) (*dto.TrackResponse, error)
	UpdateTrack(id string, req *dto.TrackRequest) (*dto.TrackResponse, error)
	DeleteTrack(id string) error
	CreateModule(req *dto.ModuleRequest) (*dto.ModuleResponse, error)
	UpdateModule(id string, req *dto.ModuleRequest) (*dto.ModuleResponse, error)
	DeleteModule(id string) error
	CreateLesson(req *dto.LessonRequest) (*dto.LessonResponse, error)
	UpdateLesson(id string, req *dto.LessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(id string) error
	AdminListExercises(lessonID string) ([]dto.AdminExerciseResponse, error)
	CreateExercise(lessonID string, req *dto.ExerciseRequest) (*dto.AdminExerciseResponse, error)
	UpdateExercise(id string, req *dto.ExerciseRequest) (*dto.AdminExerciseResponse, error)
	DeleteExercise(id string) error
	ImportExercises(lessonID string, r io.Reader) (*dto.ImportExercisesResponse, error)
}

type ExerciseServiceInterface interface {
	SubmitExercises(ctx context.Context, userID string, req *dto.SubmitExercisesRequest) (*dto.SubmitExercisesResponse, error)
	StartSession(ctx context.Context, userID, lessonID string) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	AnswerSession(ctx context.Context, userID, sessionID, answer string) (*dto.SessionResponse, error)
	NextExercise(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	PrevExercise(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	SubmitSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
}

type TutorServiceInterface interface {
	Chat(ctx context.Context, userID string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHearts(userID string) *dto.HeartsResponse
	ListConversations(userID string) ([]dto.ConversationResponse, error)
	ListMessages(userID, conversationID string) ([]dto.ChatMessageResponse, error)
}

type BadgeServiceInterface interface {
	CheckBadges(userID string) (*dto.CheckBadgesResponse, error)
	ListBadges(userID string) ([]dto.BadgeResponse, error)
	AdminListBadges() ([]dto.BadgeResponse, error)
	CreateBadge(req *dto.BadgeRequest) (*dto.BadgeResponse, error)
	UpdateBadge(id string, req *dto.BadgeRequest) (*dto.BadgeResponse, error)
	DeleteBadge(id string) error
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(ctx context.Context, limit int, userID string) (*dto.LeaderboardResponse, error)
}

type MediaServiceInterface interface {
	UploadBadgeIcon(ctx context.Context, badgeID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	UploadLessonMedia(ctx context.Context, lessonID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
}

// parseRequest decodes the JSON body into req and runs its validation tags.
func parseRequest(c *fiber.Ctx, req dto.Validator) error {
	if err := c.BodyParser(req); err != nil {
		return shared.NewValidationError(err, []dto.ValidationError{{Field: "body", Message: "Invalid JSON body"}})
	}
	if err := req.Validate(); err != nil {
		return shared.NewValidationError(err, dto.FormatValidationErrors(err))
	}
	return nil
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals(shared.UserID).(string)
	return id
}
