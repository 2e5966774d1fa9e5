package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
)

func TestConversationOwnership(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)

	conv, err := repo.CreateConversation("owner", "hello")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetUserConversation("owner", conv.ID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := repo.GetUserConversation("intruder", conv.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("intruder lookup err = %v", err)
	}
}

func TestPurgeMessagesBefore(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	now := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	old, _ := repo.CreateConversation("u", "old")
	fresh, _ := repo.CreateConversation("u", "fresh")

	msgs := []*model.ChatMessage{
		{ConversationID: old.ID, UserID: "u", Message: "q1", Response: "a1", ModelUsed: "primary", CreatedAt: now.AddDate(0, 0, -100)},
		{ConversationID: fresh.ID, UserID: "u", Message: "q2", Response: "a2", ModelUsed: "fallback", CreatedAt: now.AddDate(0, 0, -100)},
		{ConversationID: fresh.ID, UserID: "u", Message: "q3", Response: "a3", ModelUsed: "secondary", CreatedAt: now.AddDate(0, 0, -1)},
	}
	for _, m := range msgs {
		if err := repo.SaveMessage(m); err != nil {
			t.Fatal(err)
		}
	}
	db.Model(&model.Conversation{}).Where("id = ?", old.ID).Update("updated_at", now.AddDate(0, 0, -100))

	deleted, err := repo.PurgeMessagesBefore(now.AddDate(0, 0, -90))
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	left, _ := repo.ListMessages(fresh.ID)
	if len(left) != 1 || left[0].Message != "q3" {
		t.Fatalf("left = %+v", left)
	}
	if _, err := repo.GetUserConversation("u", old.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("empty old conversation should be gone, err = %v", err)
	}
	if _, err := repo.GetUserConversation("u", fresh.ID); err != nil {
		t.Fatalf("fresh conversation removed: %v", err)
	}
}
