package services

import (
	stdContext "context"
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 60 * time.Second
	leaderboardMaxSize  = 100
	leaderboardDefault  = 20
)

// Cache is the subset of RedisService the read-through caches use.
type Cache interface {
	Set(ctx stdContext.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx stdContext.Context, key string, dest interface{}) (bool, error)
	Delete(ctx stdContext.Context, keys ...string) error
}

type LeaderboardService struct {
	context.DefaultService

	analytics *repositories.AnalyticRepository
	cache     Cache
	now       func() time.Time
}

const LEADERBOARD_SVC = "leaderboard_svc"

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *LeaderboardService) Start() error {
	svc.analytics = repositories.NewAnalyticRepository(svc.Service(POSTGRES_SVC).(*PostgresService).Db())
	svc.cache = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// GetLeaderboard returns the top limit learners and, when userID is set, the
// caller's own rank. The top list is served from cache when possible.
func (svc *LeaderboardService) GetLeaderboard(ctx stdContext.Context, limit int, userID string) (*dto.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = leaderboardDefault
	}
	if limit > leaderboardMaxSize {
		limit = leaderboardMaxSize
	}

	board, err := svc.cachedBoard(ctx)
	if err != nil {
		return nil, HandleDBError(err)
	}

	entries := board.Entries
	if len(entries) > limit {
		entries = entries[:limit]
	}

	resp := &dto.LeaderboardResponse{
		Entries:     entries,
		GeneratedAt: board.GeneratedAt,
	}

	if userID != "" {
		rank, err := svc.analytics.UserRank(userID)
		switch {
		case err == nil:
			resp.UserRank = &rank
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			log.WithError(err).WithField("user_id", userID).Warn("Failed to compute user rank")
		}
	}

	return resp, nil
}

func (svc *LeaderboardService) cachedBoard(ctx stdContext.Context) (*dto.LeaderboardResponse, error) {
	if svc.cache != nil {
		var cached dto.LeaderboardResponse
		found, err := svc.cache.GetJSON(ctx, leaderboardCacheKey, &cached)
		if err != nil {
			log.WithError(err).Warn("Leaderboard cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	return svc.Warm(ctx)
}

// Warm rebuilds the cached top list from the database.
func (svc *LeaderboardService) Warm(ctx stdContext.Context) (*dto.LeaderboardResponse, error) {
	rows, err := svc.analytics.TopProfiles(leaderboardMaxSize)
	if err != nil {
		return nil, err
	}

	board := &dto.LeaderboardResponse{
		Entries:     make([]dto.LeaderboardEntry, 0, len(rows)),
		GeneratedAt: svc.now().UTC(),
	}
	for i, row := range rows {
		board.Entries = append(board.Entries, dto.LeaderboardEntry{
			Rank:          i + 1,
			UserID:        row.UserID,
			Username:      row.Username,
			TotalXP:       row.TotalXP,
			Level:         gamification.Level(row.TotalXP),
			CurrentStreak: row.CurrentStreak,
			LongestStreak: row.LongestStreak,
		})
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, leaderboardCacheKey, board, leaderboardCacheTTL); err != nil {
			log.WithError(err).Warn("Leaderboard cache write failed")
		}
	}

	return board, nil
}

// Invalidate drops the cached top list after XP changes.
func (svc *LeaderboardService) Invalidate(ctx stdContext.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Delete(ctx, leaderboardCacheKey); err != nil {
		log.WithError(err).Warn("Leaderboard cache invalidation failed")
	}
}
