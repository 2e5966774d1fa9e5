package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	appContext "github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const TUTOR_SVC = "tutor_svc"

const (
	tutorMaxTokens      = 500
	tutorTemperature    = 0.7
	tutorDefaultTimeout = 20 * time.Second
	conversationTitle   = 60
	conversationListMax = 50

	tutorSystemPrompt = `You are Bloo, the tutor of the bloolabb learning platform.
Answer questions about entrepreneurship, business and technology in plain language a teenager can follow.
Keep answers short, use an example when it helps, and end with one question that checks understanding.
Politely decline requests that are unrelated to learning.`

	fallbackReply = "I can't reach my notes right now, so here is a tip while I reconnect: " +
		"break the question into the smallest idea you don't understand yet, " +
		"look for it in the lesson text, and try explaining it in your own words. " +
		"Ask me again in a moment and I'll give you a fuller answer."
)

type TutorService struct {
	appContext.DefaultService

	hearts *repositories.HeartsRepository
	chats  *repositories.ChatRepository

	primary   ChatProvider
	secondary ChatProvider

	retentionDays int
	now           func() time.Time
}

func (svc TutorService) Id() string {
	return TUTOR_SVC
}

func (svc *TutorService) Configure(ctx *appContext.Context) error {
	timeout := tutorDefaultTimeout
	if secs, err := strconv.Atoi(envOr("AI_TIMEOUT_SECONDS", "")); err == nil && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	svc.primary = providerFromEnv("AI_PRIMARY", "gpt-4o-mini", timeout)
	svc.secondary = providerFromEnv("AI_SECONDARY", "llama-3.1-8b-instant", timeout)

	svc.retentionDays = 90
	if days, err := strconv.Atoi(envOr("CHAT_RETENTION_DAYS", "")); err == nil && days > 0 {
		svc.retentionDays = days
	}

	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *TutorService) Start() error {
	pg := svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.hearts = repositories.NewHeartsRepository(pg.Db())
	svc.chats = repositories.NewChatRepository(pg.Db())
	return nil
}

// Chat spends one heart and answers the learner's question.
//
// Validation happens before the quota is touched, and a spent quota is
// reported before any provider is called. Provider failures never reach the
// caller: primary, then secondary, then a canned reply.
func (svc *TutorService) Chat(ctx context.Context, userID string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	length := utf8.RuneCountInString(message)
	if length == 0 || length > shared.MaxChatMessageLength {
		return nil, shared.NewValidationError(nil, []dto.ValidationError{{
			Field:   "message",
			Message: "Message must be between 1 and " + strconv.Itoa(shared.MaxChatMessageLength) + " characters",
		}})
	}

	now := svc.now().UTC()
	usage, ok, err := svc.hearts.ConsumeHeart(userID, gamification.DayKey(now), shared.MaxHearts, now)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to consume heart")
		return nil, shared.NewInternalError(err, shared.ErrKeywordServerError)
	}
	if !ok {
		recordQuotaRejection()
		return nil, shared.NewTooManyRequestsError(shared.ErrKeywordOutOfHearts, &dto.OutOfHeartsResponse{
			HeartsRemaining: 0,
			TotalQuestions:  usage.TotalQuestionsAsked,
			ResetDate:       usage.ResetDate,
		})
	}

	reply, modelUsed := svc.ask(ctx, userID, message)

	conversationID := svc.saveExchange(userID, req.ConversationID, message, reply, modelUsed, now)

	return &dto.ChatResponse{
		Response:        reply,
		HeartsRemaining: usage.HeartsRemaining,
		TotalQuestions:  usage.TotalQuestionsAsked,
		ConversationID:  conversationID,
		ModelUsed:       modelUsed,
	}, nil
}

// ask returns the reply text and the name of whatever produced it.
func (svc *TutorService) ask(ctx context.Context, userID, message string) (string, string) {
	req := CompletionRequest{
		SystemPrompt: tutorSystemPrompt,
		UserMessage:  message,
		MaxTokens:    tutorMaxTokens,
		Temperature:  tutorTemperature,
	}

	tiers := []struct {
		source   string
		provider ChatProvider
	}{
		{"primary", svc.primary},
		{"secondary", svc.secondary},
	}

	for _, tier := range tiers {
		if tier.provider == nil {
			continue
		}
		reply, err := tier.provider.Complete(ctx, req)
		if err == nil {
			recordTutorReply(tier.source)
			return reply, tier.provider.Name()
		}
		log.WithError(err).WithFields(log.Fields{
			"user_id":  userID,
			"provider": tier.provider.Name(),
			"tier":     tier.source,
		}).Warn("Tutor provider failed")
	}

	recordTutorReply(shared.ModelUsedFallback)
	return fallbackReply, shared.ModelUsedFallback
}

// saveExchange stores the question and reply. Losing a transcript is not
// worth failing the request over, so errors are only logged.
func (svc *TutorService) saveExchange(userID, conversationID, message, reply, modelUsed string, now time.Time) string {
	logger := log.WithField("user_id", userID)

	var conversation *model.Conversation
	if conversationID != "" {
		existing, err := svc.chats.GetUserConversation(userID, conversationID)
		if err == nil {
			conversation = existing
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithError(err).Warn("Failed to load conversation, starting a new one")
		}
	}

	if conversation == nil {
		created, err := svc.chats.CreateConversation(userID, titleFrom(message))
		if err != nil {
			logger.WithError(err).Error("Failed to create conversation")
			return ""
		}
		conversation = created
	}

	err := svc.chats.SaveMessage(&model.ChatMessage{
		ConversationID: conversation.ID,
		UserID:         userID,
		Message:        message,
		Response:       reply,
		ModelUsed:      modelUsed,
		CreatedAt:      now,
	})
	if err != nil {
		logger.WithError(err).WithField("conversation_id", conversation.ID).Error("Failed to save chat message")
	}

	return conversation.ID
}

func titleFrom(message string) string {
	if utf8.RuneCountInString(message) <= conversationTitle {
		return message
	}
	return string([]rune(message)[:conversationTitle]) + "..."
}

// GetHearts reports the caller's quota. It never fails: when the usage row
// cannot be read the learner is shown a full day of hearts.
func (svc *TutorService) GetHearts(userID string) *dto.HeartsResponse {
	today := gamification.DayKey(svc.now().UTC())
	full := &dto.HeartsResponse{
		HeartsRemaining: shared.MaxHearts,
		ResetDate:       today,
		CanAskQuestions: true,
	}

	usage, err := svc.hearts.GetUsage(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to read hearts, reporting defaults")
		}
		return full
	}

	full.TotalQuestions = usage.TotalQuestionsAsked
	if usage.ResetDate < today {
		return full
	}

	return &dto.HeartsResponse{
		HeartsRemaining: usage.HeartsRemaining,
		TotalQuestions:  usage.TotalQuestionsAsked,
		ResetDate:       usage.ResetDate,
		CanAskQuestions: usage.HeartsRemaining > 0,
	}
}

func (svc *TutorService) ListConversations(userID string) ([]dto.ConversationResponse, error) {
	conversations, err := svc.chats.ListConversations(userID, conversationListMax)
	if err != nil {
		return nil, HandleDBError(err)
	}

	resp := make([]dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		resp = append(resp, dto.ConversationResponse{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return resp, nil
}

func (svc *TutorService) ListMessages(userID, conversationID string) ([]dto.ChatMessageResponse, error) {
	if _, err := svc.chats.GetUserConversation(userID, conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Conversation not found")
		}
		return nil, HandleDBError(err)
	}

	messages, err := svc.chats.ListMessages(conversationID)
	if err != nil {
		return nil, HandleDBError(err)
	}

	resp := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, dto.ChatMessageResponse{
			ID:        m.ID,
			Message:   m.Message,
			Response:  m.Response,
			ModelUsed: m.ModelUsed,
			CreatedAt: m.CreatedAt,
		})
	}
	return resp, nil
}

// PurgeExpiredMessages drops chat history older than the retention window.
func (svc *TutorService) PurgeExpiredMessages() (int64, error) {
	cutoff := svc.now().UTC().AddDate(0, 0, -svc.retentionDays)
	removed, err := svc.chats.PurgeMessagesBefore(cutoff)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"removed": removed, "cutoff": cutoff}).Info("Purged expired chat messages")
	return removed, nil
}

func (svc *TutorService) CountQuestionsSince(since time.Time) (int64, error) {
	return svc.chats.CountMessagesSince(since)
}
