package services

import (
	stdContext "context"
	"errors"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/middleware"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = bcrypt.DefaultCost

var errInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	context.DefaultService

	users  *repositories.UserRepository
	jwtSvc *JWTService
	email  EmailSender
	now    func() time.Time
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.users = repositories.NewUserRepository(svc.Service(POSTGRES_SVC).(*PostgresService).Db())
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.email = svc.Service(EMAIL_SVC).(*EmailService)
	return nil
}

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return middleware.RequiredAuth(svc.jwtSvc)
}

func (svc *AuthService) OptionalAuth() fiber.Handler {
	return middleware.OptionalAuth(svc.jwtSvc)
}

func (svc *AuthService) RequireRole(roles ...string) fiber.Handler {
	return middleware.RequireRole(roles...)
}

func (svc *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	taken, err := svc.users.IsEmailTaken(email)
	if err != nil {
		return nil, HandleDBError(err)
	}
	if taken {
		return nil, shared.NewConflictError(nil, "Email already registered")
	}

	taken, err = svc.users.IsUsernameTaken(username)
	if err != nil {
		return nil, HandleDBError(err)
	}
	if taken {
		return nil, shared.NewConflictError(nil, "Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to process password")
	}

	user := &model.User{
		Email:    email,
		Username: username,
		Password: string(hashed),
		Role:     model.RoleUser,
		IsActive: true,
	}
	if err := svc.users.CreateUser(user); err != nil {
		return nil, HandleDBError(err)
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate token")
	}

	if svc.email != nil {
		go func() {
			if err := svc.email.SendWelcomeEmail(stdContext.Background(), user.Email, user.Username); err != nil {
				log.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
			}
		}()
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")

	return &dto.RegisterResponse{
		User:   toUserInfo(user),
		Tokens: *tokens,
	}, nil
}

// Login verifies the credentials and counts the login as the day's activity
// for the streak.
func (svc *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := svc.users.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(errInvalidCredentials, "Invalid credentials")
		}
		return nil, HandleDBError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(errInvalidCredentials, "Invalid credentials")
	}

	if !user.IsActive {
		return nil, shared.NewForbiddenError(nil, "Account is disabled")
	}

	now := svc.now().UTC()
	profile, err := svc.users.MutateProfile(user.ID, func(p *model.Profile) {
		next := gamification.ApplyStreak(gamification.StreakState{
			Current:      p.CurrentStreak,
			Longest:      p.LongestStreak,
			LastActivity: p.LastActivityDate,
		}, now)
		p.CurrentStreak = next.Current
		p.LongestStreak = next.Longest
		p.LastActivityDate = next.LastActivity
	})
	if err != nil {
		return nil, HandleDBError(err)
	}

	if err := svc.users.UpdateLastLogin(user.ID, now); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate token")
	}

	return &dto.LoginResponse{
		User:          toUserInfo(user),
		Tokens:        *tokens,
		CurrentStreak: profile.CurrentStreak,
		LongestStreak: profile.LongestStreak,
	}, nil
}

func toUserInfo(user *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
