package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := OpenSqlite(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "hash",
		IsActive: true,
	}
	if err := repositories.NewUserRepository(db).CreateUser(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// seedLesson creates a track, module and lesson with the given exercises.
func seedLesson(t *testing.T, db *gorm.DB, lessonID string, xp int, exercises ...model.Exercise) *model.Lesson {
	t.Helper()

	track := model.Track{ID: "t_" + lessonID, Slug: "track-" + lessonID, Title: "Track", IsActive: true}
	module := model.Module{ID: "m_" + lessonID, TrackID: track.ID, Title: "Module", IsActive: true}
	lesson := model.Lesson{ID: lessonID, ModuleID: module.ID, Title: "Lesson " + lessonID, XPReward: xp, IsActive: true}

	for _, v := range []interface{}{&track, &module, &lesson} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed content: %v", err)
		}
	}
	for i := range exercises {
		exercises[i].LessonID = lessonID
		if exercises[i].ID == "" {
			exercises[i].ID = fmt.Sprintf("%s_ex%d", lessonID, i)
		}
		exercises[i].OrderIndex = i
		if err := db.Create(&exercises[i]).Error; err != nil {
			t.Fatalf("seed exercise: %v", err)
		}
	}
	return &lesson
}
