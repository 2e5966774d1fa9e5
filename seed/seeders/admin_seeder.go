package seeders

import (
	"errors"
	"strings"

	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSeeder handles seeding admin users
type AdminSeeder struct {
	users *repositories.UserRepository
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{users: repositories.NewUserRepository(db)}
}

// SeedAdmin creates an admin account unless that email is already registered.
func (s *AdminSeeder) SeedAdmin(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	taken, err := s.users.IsEmailTaken(email)
	if err != nil {
		return err
	}
	if taken {
		log.WithField("email", email).Info("Admin user already exists, skipping")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	username := strings.SplitN(email, "@", 2)[0]
	admin := &model.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := s.users.CreateUser(admin); err != nil {
		return err
	}

	log.WithField("email", admin.Email).Info("Created admin user")
	return nil
}
