package services

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
)

type fakeProvider struct {
	name  string
	reply string
	err   error

	mu       sync.Mutex
	calls    int
	messages []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	p.mu.Lock()
	p.calls++
	p.messages = append(p.messages, req.UserMessage)
	p.mu.Unlock()
	return p.reply, p.err
}

func newTestTutor(t *testing.T, primary, secondary ChatProvider) (*TutorService, *repositories.HeartsRepository) {
	t.Helper()
	db := newTestDB(t)
	hearts := repositories.NewHeartsRepository(db)
	return &TutorService{
		hearts:        hearts,
		chats:         repositories.NewChatRepository(db),
		primary:       primary,
		secondary:     secondary,
		retentionDays: 90,
		now:           fixedClock(time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)),
	}, hearts
}

func TestChatUsesPrimaryProvider(t *testing.T) {
	primary := &fakeProvider{name: "gpt-4o-mini", reply: "A business model describes how you earn money."}
	secondary := &fakeProvider{name: "llama", reply: "unused"}
	svc, _ := newTestTutor(t, primary, secondary)

	resp, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "  What is a business model?  "})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ModelUsed != "gpt-4o-mini" || resp.Response != primary.reply {
		t.Fatalf("unexpected reply: %+v", resp)
	}
	if resp.HeartsRemaining != 4 || resp.TotalQuestions != 1 {
		t.Fatalf("hearts = %d, total = %d", resp.HeartsRemaining, resp.TotalQuestions)
	}
	if secondary.calls != 0 {
		t.Fatal("secondary called after primary succeeded")
	}
	if resp.ConversationID == "" {
		t.Fatal("conversation not created")
	}
}

func TestChatFallsBackThroughProviders(t *testing.T) {
	primary := &fakeProvider{name: "primary-model", err: errors.New("timeout")}
	secondary := &fakeProvider{name: "secondary-model", reply: "from secondary"}
	svc, _ := newTestTutor(t, primary, secondary)

	resp, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "  hi \n"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ModelUsed != "secondary-model" || resp.Response != "from secondary" {
		t.Fatalf("unexpected reply: %+v", resp)
	}
	if !reflect.DeepEqual(primary.messages, []string{"hi"}) || !reflect.DeepEqual(secondary.messages, []string{"hi"}) {
		t.Fatalf("forwarded messages: primary %q, secondary %q", primary.messages, secondary.messages)
	}

	secondary.err = errors.New("503")
	resp, err = svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "hi again"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ModelUsed != shared.ModelUsedFallback || resp.Response != fallbackReply {
		t.Fatalf("unexpected fallback: %+v", resp)
	}
	if resp.HeartsRemaining != 3 {
		t.Fatalf("fallback must still spend a heart, remaining = %d", resp.HeartsRemaining)
	}
}

func TestChatRejectsInvalidMessageWithoutSpendingHeart(t *testing.T) {
	primary := &fakeProvider{name: "p", reply: "ok"}
	svc, hearts := newTestTutor(t, primary, nil)

	for _, msg := range []string{"", "   \n\t", strings.Repeat("é", shared.MaxChatMessageLength+1)} {
		_, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: msg})
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != http.StatusBadRequest || appErr.Message != shared.ErrKeywordValidation {
			t.Fatalf("message %q: err = %v", msg, err)
		}
	}

	if primary.calls != 0 {
		t.Fatal("provider called for invalid message")
	}
	if _, err := hearts.GetUsage("u1"); err == nil {
		t.Fatal("usage row created for invalid message")
	}

	resp, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: strings.Repeat("é", shared.MaxChatMessageLength)})
	if err != nil {
		t.Fatalf("message at the limit rejected: %v", err)
	}
	if resp.HeartsRemaining != 4 {
		t.Fatalf("remaining = %d", resp.HeartsRemaining)
	}
}

func TestChatOutOfHearts(t *testing.T) {
	primary := &fakeProvider{name: "p", reply: "ok"}
	svc, _ := newTestTutor(t, primary, nil)

	for i := 0; i < shared.MaxHearts; i++ {
		if _, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "question"}); err != nil {
			t.Fatalf("question %d: %v", i+1, err)
		}
	}

	_, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "one more"})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusTooManyRequests || appErr.Message != shared.ErrKeywordOutOfHearts {
		t.Fatalf("err = %v", err)
	}
	data, ok := appErr.Data.(*dto.OutOfHeartsResponse)
	if !ok || data.HeartsRemaining != 0 || data.TotalQuestions != shared.MaxHearts || data.ResetDate != "2026-03-10" {
		t.Fatalf("data = %+v", appErr.Data)
	}
	if primary.calls != shared.MaxHearts {
		t.Fatalf("provider calls = %d, want %d", primary.calls, shared.MaxHearts)
	}

	svc.now = fixedClock(time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC))
	resp, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "new day"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.HeartsRemaining != shared.MaxHearts-1 || resp.TotalQuestions != shared.MaxHearts+1 {
		t.Fatalf("after reset: %+v", resp)
	}
}

func TestChatConcurrentRequestsNeverOverspend(t *testing.T) {
	svc, hearts := newTestTutor(t, &fakeProvider{name: "p", reply: "ok"}, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "race"}); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != shared.MaxHearts {
		t.Fatalf("accepted = %d, want %d", accepted, shared.MaxHearts)
	}
	usage, err := hearts.GetUsage("u1")
	if err != nil {
		t.Fatal(err)
	}
	if usage.HeartsRemaining != 0 {
		t.Fatalf("remaining = %d", usage.HeartsRemaining)
	}
}

func TestChatContinuesOwnedConversationOnly(t *testing.T) {
	svc, _ := newTestTutor(t, &fakeProvider{name: "p", reply: "ok"}, nil)
	ctx := context.Background()

	first, err := svc.Chat(ctx, "u1", &dto.ChatRequest{Message: "first"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Chat(ctx, "u1", &dto.ChatRequest{Message: "second", ConversationID: first.ConversationID})
	if err != nil {
		t.Fatal(err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatalf("conversation changed: %s != %s", second.ConversationID, first.ConversationID)
	}

	other, err := svc.Chat(ctx, "u2", &dto.ChatRequest{Message: "hijack", ConversationID: first.ConversationID})
	if err != nil {
		t.Fatal(err)
	}
	if other.ConversationID == first.ConversationID {
		t.Fatal("another user's conversation was reused")
	}

	messages, err := svc.ListMessages("u1", first.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}

	_, err = svc.ListMessages("u2", first.ConversationID)
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign conversation err = %v", err)
	}
}

func TestGetHearts(t *testing.T) {
	svc, _ := newTestTutor(t, &fakeProvider{name: "p", reply: "ok"}, nil)

	fresh := svc.GetHearts("nobody")
	if fresh.HeartsRemaining != shared.MaxHearts || !fresh.CanAskQuestions || fresh.ResetDate != "2026-03-10" {
		t.Fatalf("fresh = %+v", fresh)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "q"}); err != nil {
			t.Fatal(err)
		}
	}
	got := svc.GetHearts("u1")
	if got.HeartsRemaining != 3 || got.TotalQuestions != 2 || !got.CanAskQuestions {
		t.Fatalf("after two questions = %+v", got)
	}

	svc.now = fixedClock(time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC))
	got = svc.GetHearts("u1")
	if got.HeartsRemaining != shared.MaxHearts || got.TotalQuestions != 2 || got.ResetDate != "2026-03-12" {
		t.Fatalf("stale day = %+v", got)
	}
}

func TestGetHeartsDegradesOnStoreFailure(t *testing.T) {
	svc, _ := newTestTutor(t, nil, nil)

	sqlDB, err := svc.hearts.DB().DB()
	if err != nil {
		t.Fatal(err)
	}
	_ = sqlDB.Close()

	got := svc.GetHearts("u1")
	if got.HeartsRemaining != shared.MaxHearts || !got.CanAskQuestions {
		t.Fatalf("degraded = %+v", got)
	}
}

func TestPurgeExpiredMessages(t *testing.T) {
	svc, _ := newTestTutor(t, &fakeProvider{name: "p", reply: "ok"}, nil)

	if _, err := svc.Chat(context.Background(), "u1", &dto.ChatRequest{Message: "old"}); err != nil {
		t.Fatal(err)
	}

	svc.now = fixedClock(time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC).AddDate(0, 0, 91))
	removed, err := svc.PurgeExpiredMessages()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
}
