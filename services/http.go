package services

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/docs"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/handlers"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"
)

const uploadBodyLimit = 25 * 1024 * 1024

type HttpService struct {
	context.DefaultService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	authSvc := svc.Service(AUTH_SVC).(*AuthService)
	userSvc := svc.Service(USER_SVC).(*UserService)
	contentSvc := svc.Service(CONTENT_SVC).(*ContentService)
	exerciseSvc := svc.Service(EXERCISE_SVC).(*ExerciseService)
	tutorSvc := svc.Service(TUTOR_SVC).(*TutorService)
	badgeSvc := svc.Service(BADGE_SVC).(*BadgeService)
	leaderboardSvc := svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	mediaSvc := svc.Service(MEDIA_SVC).(*MediaService)
	rateLimitSvc := svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	monitoringSvc := svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.app = fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  shared.JSONMarshal,
		JSONDecoder:  shared.JSONUnmarshal,
		ErrorHandler: shared.ErrorHandler,
		BodyLimit:    uploadBodyLimit,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	svc.app.Use(recover.New())
	if os.Getenv("LOG_LEVEL") == "TRACE" {
		svc.app.Use(logger.New())
	}
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins: envOr("CORS_ALLOW_ORIGINS", "*"),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	svc.app.Use(MonitoringMiddleware(monitoringSvc))
	// In-process flood guard in front of the Redis backed limits.
	svc.app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/ping"
		},
	}))

	docs.SwaggerInfo.BasePath = ""
	svc.app.Get("/swagger/*", swagger.HandlerDefault)
	svc.app.Get("/ping", svc.ping)

	authHandler := handlers.NewAuthHandler(authSvc)
	userHandler := handlers.NewUserHandler(userSvc)
	contentHandler := handlers.NewContentHandler(contentSvc)
	exerciseHandler := handlers.NewExerciseHandler(exerciseSvc)
	chatHandler := handlers.NewChatHandler(tutorSvc)
	badgeHandler := handlers.NewBadgeHandler(badgeSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardSvc)
	adminHandler := handlers.NewAdminHandler(userSvc, contentSvc, badgeSvc)
	mediaHandler := handlers.NewMediaHandler(mediaSvc)

	v1 := svc.app.Group("/api/v1", rateLimitSvc.IPRateLimit())
	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth")
	auth.Post("/register", rateLimitSvc.RateLimit("register"), authHandler.Register)
	auth.Post("/login", rateLimitSvc.RateLimit("login"), authHandler.Login)

	optional := authSvc.OptionalAuth()
	required := authSvc.RequiredAuth()

	v1.Get("/tracks", contentHandler.ListTracks)
	v1.Get("/tracks/:trackId/modules", optional, contentHandler.ListModules)
	v1.Get("/lessons/:lessonId", contentHandler.GetLesson)
	v1.Get("/leaderboard", optional, leaderboardHandler.GetLeaderboard)

	user := v1.Group("/user", required)
	user.Get("/profile", userHandler.GetUserProfile)
	user.Get("/progress", userHandler.GetUserProgress)

	v1.Post("/exercises/submit", required, rateLimitSvc.RateLimit("exercise_submit"), exerciseHandler.SubmitExercises)
	v1.Post("/lessons/:lessonId/session", required, exerciseHandler.StartSession)

	sessions := v1.Group("/sessions", required)
	sessions.Get("/:sessionId", exerciseHandler.GetSession)
	sessions.Put("/:sessionId/answer", exerciseHandler.AnswerSession)
	sessions.Post("/:sessionId/next", exerciseHandler.NextExercise)
	sessions.Post("/:sessionId/prev", exerciseHandler.PrevExercise)
	sessions.Post("/:sessionId/submit", rateLimitSvc.RateLimit("exercise_submit"), exerciseHandler.SubmitSession)

	ai := v1.Group("/ai", required)
	ai.Post("/chat", rateLimitSvc.RateLimit("ai_chat"), chatHandler.Chat)
	ai.Get("/hearts", chatHandler.GetHearts)
	ai.Get("/conversations", chatHandler.ListConversations)
	ai.Get("/conversations/:conversationId/messages", chatHandler.ListMessages)

	badges := v1.Group("/badges", required)
	badges.Get("/", badgeHandler.ListBadges)
	badges.Post("/check", badgeHandler.CheckBadges)

	admin := v1.Group("/admin", required, authSvc.RequireRole(model.RoleAdmin))
	admin.Get("/stats", adminHandler.GetStats)
	admin.Get("/users", adminHandler.AdminGetUsers)
	admin.Post("/users/:userId/reset-progress", adminHandler.AdminResetProgress)

	admin.Get("/tracks", adminHandler.ListTracks)
	admin.Post("/tracks", adminHandler.CreateTrack)
	admin.Put("/tracks/:trackId", adminHandler.UpdateTrack)
	admin.Delete("/tracks/:trackId", adminHandler.DeleteTrack)

	admin.Post("/modules", adminHandler.CreateModule)
	admin.Put("/modules/:moduleId", adminHandler.UpdateModule)
	admin.Delete("/modules/:moduleId", adminHandler.DeleteModule)

	admin.Post("/lessons", adminHandler.CreateLesson)
	admin.Put("/lessons/:lessonId", adminHandler.UpdateLesson)
	admin.Delete("/lessons/:lessonId", adminHandler.DeleteLesson)
	admin.Get("/lessons/:lessonId/exercises", adminHandler.ListExercises)
	admin.Post("/lessons/:lessonId/exercises", adminHandler.CreateExercise)
	admin.Post("/lessons/:lessonId/exercises/import", rateLimitSvc.RateLimit("admin_upload"), adminHandler.ImportExercises)
	admin.Post("/lessons/:lessonId/media", rateLimitSvc.RateLimit("admin_upload"), mediaHandler.UploadLessonMedia)

	admin.Put("/exercises/:exerciseId", adminHandler.UpdateExercise)
	admin.Delete("/exercises/:exerciseId", adminHandler.DeleteExercise)

	admin.Get("/badges", adminHandler.ListBadges)
	admin.Post("/badges", adminHandler.CreateBadge)
	admin.Put("/badges/:badgeId", adminHandler.UpdateBadge)
	admin.Delete("/badges/:badgeId", adminHandler.DeleteBadge)
	admin.Post("/badges/:badgeId/icon", rateLimitSvc.RateLimit("admin_upload"), mediaHandler.UploadBadgeIcon)

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	log.Infof("HTTP server listening on :%d", svc.port)
	return svc.app.Listen(fmt.Sprintf(":%d", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}
