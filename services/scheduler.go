package services

import (
	stdContext "context"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

const (
	chatPurgeAt            = "03:00"
	leaderboardWarmupEvery = 10 * time.Minute
)

// SchedulerService runs the periodic maintenance jobs.
type SchedulerService struct {
	context.DefaultService

	scheduler   *gocron.Scheduler
	tutor       *TutorService
	leaderboard *LeaderboardService
}

const SCHEDULER_SVC = "scheduler_svc"

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *context.Context) error {
	svc.scheduler = gocron.NewScheduler(time.UTC)
	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.tutor = svc.Service(TUTOR_SVC).(*TutorService)
	svc.leaderboard = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)

	if _, err := svc.scheduler.Every(1).Day().At(chatPurgeAt).Do(svc.purgeChatHistory); err != nil {
		return err
	}
	if _, err := svc.scheduler.Every(leaderboardWarmupEvery).Do(svc.warmLeaderboard); err != nil {
		return err
	}

	svc.scheduler.StartAsync()
	log.Info("Scheduler started")
	return nil
}

func (svc *SchedulerService) Shutdown() {
	if svc.scheduler != nil {
		svc.scheduler.Stop()
	}
}

func (svc *SchedulerService) purgeChatHistory() {
	n, err := svc.tutor.PurgeExpiredMessages()
	if err != nil {
		log.WithError(err).Error("Chat history purge failed")
		return
	}
	log.WithField("deleted", n).Info("Chat history purge completed")
}

func (svc *SchedulerService) warmLeaderboard() {
	ctx, cancel := stdContext.WithTimeout(stdContext.Background(), 30*time.Second)
	defer cancel()

	if _, err := svc.leaderboard.Warm(ctx); err != nil {
		log.WithError(err).Warn("Leaderboard warmup failed")
	}
}
