package repositories

import (
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
)

type ChatRepository struct {
	BaseRepository
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetUserConversation returns the conversation only if userID owns it.
func (ds *ChatRepository) GetUserConversation(userID, conversationID string) (*model.Conversation, error) {
	var conversation model.Conversation
	err := ds.db.Where("id = ? AND user_id = ?", conversationID, userID).First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (ds *ChatRepository) CreateConversation(userID, title string) (*model.Conversation, error) {
	conversation := &model.Conversation{
		ID:     newID(),
		UserID: userID,
		Title:  title,
	}
	if err := ds.db.Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

// SaveMessage stores one question/answer pair and bumps the conversation.
func (ds *ChatRepository) SaveMessage(msg *model.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = newID()
	}

	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
}

func (ds *ChatRepository) ListConversations(userID string, limit int) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := ds.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&conversations).Error
	return conversations, err
}

func (ds *ChatRepository) ListMessages(conversationID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := ds.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (ds *ChatRepository) CountMessagesSince(since time.Time) (int64, error) {
	var count int64
	err := ds.db.Model(&model.ChatMessage{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (ds *ChatRepository) CountMessages() (int64, error) {
	var count int64
	err := ds.db.Model(&model.ChatMessage{}).Count(&count).Error
	return count, err
}

// PurgeMessagesBefore deletes messages older than cutoff and then any
// conversation left without messages that was last touched before cutoff.
func (ds *ChatRepository) PurgeMessagesBefore(cutoff time.Time) (int64, error) {
	var deleted int64

	err := ds.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("created_at < ?", cutoff).Delete(&model.ChatMessage{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		return tx.Where("updated_at < ? AND NOT EXISTS (SELECT 1 FROM chat_messages WHERE chat_messages.conversation_id = conversations.id)", cutoff).
			Delete(&model.Conversation{}).Error
	})

	return deleted, err
}
