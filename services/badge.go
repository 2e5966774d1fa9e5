package services

import (
	stdContext "context"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	log "github.com/sirupsen/logrus"
)

type BadgeService struct {
	context.DefaultService

	badges   *repositories.BadgeRepository
	users    *repositories.UserRepository
	progress *repositories.ProgressRepository
	email    EmailSender
	now      func() time.Time
}

const BADGE_SVC = "badge_svc"

func (svc BadgeService) Id() string {
	return BADGE_SVC
}

func (svc *BadgeService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *BadgeService) Start() error {
	db := svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.badges = repositories.NewBadgeRepository(db)
	svc.users = repositories.NewUserRepository(db)
	svc.progress = repositories.NewProgressRepository(db)
	svc.email = svc.Service(EMAIL_SVC).(*EmailService)
	return nil
}

// EvaluateBadges awards every active badge userID now qualifies for and
// returns the ids that were newly earned, in catalog order. Running it again
// without new progress awards nothing.
func (svc *BadgeService) EvaluateBadges(userID string) ([]string, error) {
	profile, err := svc.users.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	completed, err := svc.progress.CountCompleted(userID)
	if err != nil {
		return nil, err
	}

	catalog, err := svc.badges.ListBadges(true)
	if err != nil {
		return nil, err
	}

	earned, err := svc.badges.EarnedBadgeIDs(userID)
	if err != nil {
		return nil, err
	}

	rules := make([]gamification.BadgeRule, 0, len(catalog))
	names := make(map[string]string, len(catalog))
	for _, b := range catalog {
		rules = append(rules, gamification.BadgeRule{
			ID:        b.ID,
			Condition: gamification.ConditionType(b.ConditionType),
			Value:     b.ConditionValue,
		})
		names[b.ID] = b.Name
	}

	candidates := gamification.NewlyEarned(rules, earned, gamification.Metrics{
		TotalXP:          profile.TotalXP,
		CurrentStreak:    profile.CurrentStreak,
		LessonsCompleted: int(completed),
	})
	if len(candidates) == 0 {
		return []string{}, nil
	}

	awarded, err := svc.badges.AwardBadges(userID, candidates, svc.now().UTC())
	if err != nil {
		return nil, err
	}
	if awarded == nil {
		awarded = []string{}
	}

	recordBadgesAwarded(len(awarded))
	if len(awarded) > 0 {
		log.WithFields(log.Fields{"user_id": userID, "badges": awarded}).Info("Badges awarded")
		svc.notify(userID, awarded, names)
	}

	return awarded, nil
}

func (svc *BadgeService) notify(userID string, awarded []string, names map[string]string) {
	if svc.email == nil {
		return
	}

	badgeNames := make([]string, 0, len(awarded))
	for _, id := range awarded {
		badgeNames = append(badgeNames, names[id])
	}

	go func() {
		user, err := svc.users.GetUser(userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to load user for badge email")
			return
		}
		if err := svc.email.SendBadgeUnlockedEmail(stdContext.Background(), user.Email, user.Username, badgeNames); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to send badge email")
		}
	}()
}

func (svc *BadgeService) CheckBadges(userID string) (*dto.CheckBadgesResponse, error) {
	awarded, err := svc.EvaluateBadges(userID)
	if err != nil {
		return nil, HandleDBError(err)
	}
	return &dto.CheckBadgesResponse{NewBadgeIDs: awarded}, nil
}

// ListBadges returns the active catalog with the caller's earned flags.
func (svc *BadgeService) ListBadges(userID string) ([]dto.BadgeResponse, error) {
	catalog, err := svc.badges.ListBadges(true)
	if err != nil {
		return nil, HandleDBError(err)
	}

	earnedAt := map[string]time.Time{}
	if userID != "" {
		held, err := svc.badges.ListUserBadges(userID)
		if err != nil {
			return nil, HandleDBError(err)
		}
		for _, ub := range held {
			earnedAt[ub.BadgeID] = ub.EarnedAt
		}
	}

	resp := make([]dto.BadgeResponse, 0, len(catalog))
	for _, b := range catalog {
		item := toBadgeResponse(&b)
		if at, ok := earnedAt[b.ID]; ok {
			item.Earned = true
			item.EarnedAt = &at
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// ==================== ADMIN ====================

func (svc *BadgeService) AdminListBadges() ([]dto.BadgeResponse, error) {
	catalog, err := svc.badges.ListBadges(false)
	if err != nil {
		return nil, HandleDBError(err)
	}

	resp := make([]dto.BadgeResponse, 0, len(catalog))
	for _, b := range catalog {
		resp = append(resp, toBadgeResponse(&b))
	}
	return resp, nil
}

func (svc *BadgeService) CreateBadge(req *dto.BadgeRequest) (*dto.BadgeResponse, error) {
	badge := &model.Badge{IsActive: true}
	applyBadgeRequest(badge, req)

	if err := svc.badges.CreateBadge(badge); err != nil {
		return nil, HandleDBError(err)
	}

	resp := toBadgeResponse(badge)
	return &resp, nil
}

func (svc *BadgeService) UpdateBadge(id string, req *dto.BadgeRequest) (*dto.BadgeResponse, error) {
	badge, err := svc.badges.GetBadge(id)
	if err != nil {
		return nil, HandleDBError(err)
	}

	applyBadgeRequest(badge, req)
	if err := svc.badges.UpdateBadge(badge); err != nil {
		return nil, HandleDBError(err)
	}

	resp := toBadgeResponse(badge)
	return &resp, nil
}

func (svc *BadgeService) DeleteBadge(id string) error {
	return HandleDBError(svc.badges.DeleteBadge(id))
}

func (svc *BadgeService) SetBadgeIcon(id, url string) error {
	if _, err := svc.badges.GetBadge(id); err != nil {
		return HandleDBError(err)
	}
	return HandleDBError(svc.badges.SetIconURL(id, url))
}

func (svc *BadgeService) CountAwarded() (int64, error) {
	return svc.badges.CountAwarded()
}

func (svc *BadgeService) CountUserBadges(userID string) (int64, error) {
	return svc.badges.CountUserBadges(userID)
}

func applyBadgeRequest(badge *model.Badge, req *dto.BadgeRequest) {
	badge.Name = req.Name
	badge.Description = req.Description
	badge.ConditionType = req.ConditionType
	badge.ConditionValue = req.ConditionValue
	badge.OrderIndex = req.OrderIndex
	if req.IsActive != nil {
		badge.IsActive = *req.IsActive
	}
}

func toBadgeResponse(b *model.Badge) dto.BadgeResponse {
	return dto.BadgeResponse{
		ID:             b.ID,
		Name:           b.Name,
		Description:    b.Description,
		IconURL:        b.IconURL,
		ConditionType:  b.ConditionType,
		ConditionValue: b.ConditionValue,
	}
}
