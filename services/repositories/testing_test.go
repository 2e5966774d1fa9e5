package repositories

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Track{},
		&model.Module{},
		&model.Lesson{},
		&model.Exercise{},
		&model.LessonProgress{},
		&model.HeartsUsage{},
		&model.Conversation{},
		&model.ChatMessage{},
		&model.Badge{},
		&model.UserBadge{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "hash",
		IsActive: true,
	}
	if err := NewUserRepository(db).CreateUser(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
