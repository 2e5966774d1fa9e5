package dto

import "time"

type UserProfileResponse struct {
	User             UserInfo   `json:"user"`
	TotalXP          int        `json:"total_xp"`
	Level            int        `json:"level"`
	XPToNextLevel    int        `json:"xp_to_next_level"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	LessonsCompleted int64      `json:"lessons_completed"`
	BadgesEarned     int64      `json:"badges_earned"`
}

type LessonProgressResponse struct {
	LessonID    string     `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	Score       int        `json:"score"`
	Attempts    int        `json:"attempts"`
	CompletedAt *time.Time `json:"completed_at"`
	XPAwarded   bool       `json:"xp_awarded"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type UserProgressResponse struct {
	Lessons        []LessonProgressResponse `json:"lessons"`
	CompletedCount int                      `json:"completed_count"`
}

// ==================== LEADERBOARD ====================

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	TotalXP       int    `json:"total_xp"`
	Level         int    `json:"level"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

type LeaderboardResponse struct {
	Entries     []LeaderboardEntry `json:"entries"`
	UserRank    *int               `json:"user_rank,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// ==================== ADMIN ====================

type AdminUserInfo struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"is_active"`
	TotalXP       int        `json:"total_xp"`
	CurrentStreak int        `json:"current_streak"`
	LastLogin     *time.Time `json:"last_login"`
	CreatedAt     time.Time  `json:"created_at"`
}

type AdminUserListResponse struct {
	Users      []AdminUserInfo    `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}

type AdminStatsResponse struct {
	TotalUsers          int64 `json:"total_users"`
	CompletedLessons    int64 `json:"completed_lessons"`
	QuestionsAskedToday int64 `json:"questions_asked_today"`
	ChatMessages        int64 `json:"chat_messages"`
	BadgesAwarded       int64 `json:"badges_awarded"`
}
