package main

import (
	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/services"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title bloolabb API
// @version 1.0
// @description Gamified entrepreneurship learning for students
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using environment")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.RedisService{},
		&services.MonitoringService{},

		&services.JWTService{},
		&services.EmailService{},
		&services.MinIOService{},
		&services.AuthService{},

		&services.ContentService{},
		&services.BadgeService{},
		&services.LeaderboardService{},
		&services.ExerciseService{},
		&services.TutorService{},
		&services.UserService{},
		&services.MediaService{},

		&services.RateLimitService{},
		&services.SchedulerService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
		return
	}
}
