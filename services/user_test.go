package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
)

func newTestUserService(t *testing.T) (*UserService, *countingInvalidator) {
	t.Helper()
	db := newTestDB(t)
	leaderboard := &countingInvalidator{}
	return &UserService{
		users:       repositories.NewUserRepository(db),
		progress:    repositories.NewProgressRepository(db),
		badges:      repositories.NewBadgeRepository(db),
		analytics:   repositories.NewAnalyticRepository(db),
		chats:       repositories.NewChatRepository(db),
		leaderboard: leaderboard,
		now:         fixedClock(time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)),
	}, leaderboard
}

func TestUserProfileAndReset(t *testing.T) {
	svc, leaderboard := newTestUserService(t)
	user := seedUser(t, svc.users.DB(), "profiler")
	now := svc.now()

	for _, lesson := range []string{"l1", "l2"} {
		_, err := svc.progress.RecordSubmission(repositories.Submission{
			UserID: user.ID, LessonID: lesson, Score: 90, Passed: true, XPReward: 70, Now: now,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.badges.CreateBadge(&model.Badge{ID: "b", Name: "B", ConditionType: "streak", ConditionValue: 1, IsActive: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.badges.AwardBadges(user.ID, []string{"b"}, now); err != nil {
		t.Fatal(err)
	}

	profile, err := svc.GetUserProfile(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.TotalXP != 140 || profile.Level != 2 || profile.XPToNextLevel != 60 {
		t.Fatalf("xp = %d level = %d next = %d", profile.TotalXP, profile.Level, profile.XPToNextLevel)
	}
	if profile.LessonsCompleted != 2 || profile.BadgesEarned != 1 || profile.CurrentStreak != 1 {
		t.Fatalf("profile = %+v", profile)
	}

	progress, err := svc.GetUserProgress(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if progress.CompletedCount != 2 || len(progress.Lessons) != 2 {
		t.Fatalf("progress = %+v", progress)
	}

	if err := svc.AdminResetProgress(context.Background(), user.ID); err != nil {
		t.Fatal(err)
	}
	if leaderboard.calls != 1 {
		t.Fatal("leaderboard not invalidated")
	}

	reset, err := svc.GetUserProfile(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reset.TotalXP != 0 || reset.LessonsCompleted != 0 || reset.BadgesEarned != 0 || reset.CurrentStreak != 0 {
		t.Fatalf("after reset = %+v", reset)
	}
}

func TestUserNotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.GetUserProfile("ghost")
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("profile err = %v", err)
	}

	err = svc.AdminResetProgress(context.Background(), "ghost")
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("reset err = %v", err)
	}
}

func TestAdminUsersAndStats(t *testing.T) {
	svc, _ := newTestUserService(t)
	db := svc.users.DB()
	for _, name := range []string{"anna", "annabel", "bruno"} {
		seedUser(t, db, name)
	}

	page, err := svc.AdminGetUsers(1, 500, "anna")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Users) != 2 || page.Pagination.Total != 2 || page.Pagination.Limit != adminMaxPageSize {
		t.Fatalf("page = %+v", page)
	}

	conversation, err := svc.chats.CreateConversation("u", "hello")
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range []time.Time{svc.now().Add(-30 * time.Hour), svc.now().Add(-time.Hour)} {
		if err := svc.chats.SaveMessage(&model.ChatMessage{ConversationID: conversation.ID, UserID: "u", Message: "q", Response: "a", ModelUsed: "m", CreatedAt: at}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.GetAdminStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalUsers != 3 || stats.ChatMessages != 2 || stats.QuestionsAskedToday != 1 || stats.BadgesAwarded != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}
