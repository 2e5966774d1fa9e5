package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memoryCounter) IncrementWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], window, nil
}

func newTestRateLimiter() (*RateLimitService, *memoryCounter) {
	counter := &memoryCounter{counts: map[string]int64{}}
	svc := &RateLimitService{
		counter: counter,
		now:     fixedClock(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)),
	}
	svc.initDefaultConfigs()
	return svc, counter
}

func TestIsAllowedFixedWindow(t *testing.T) {
	svc, counter := newTestRateLimiter()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		allowed, info, err := svc.IsAllowed(ctx, "1.2.3.4", "register")
		if err != nil {
			t.Fatal(err)
		}
		if !allowed || info.Remaining != 5-i {
			t.Fatalf("attempt %d: allowed=%v remaining=%d", i, allowed, info.Remaining)
		}
	}

	allowed, info, err := svc.IsAllowed(ctx, "1.2.3.4", "register")
	if err != nil {
		t.Fatal(err)
	}
	if allowed || info.BlockedUntil == nil || !info.BlockedUntil.Equal(svc.now().Add(15*time.Minute)) {
		t.Fatalf("sixth attempt: allowed=%v info=%+v", allowed, info)
	}

	if _, ok := counter.counts["rate_limit:register:1.2.3.4"]; !ok {
		t.Fatalf("unexpected keys %v", counter.counts)
	}

	allowed, info, err = svc.IsAllowed(ctx, "1.2.3.4", "unknown_endpoint")
	if err != nil || !allowed || info.Remaining != -1 {
		t.Fatalf("unknown endpoint: allowed=%v info=%+v err=%v", allowed, info, err)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	svc, counter := newTestRateLimiter()

	app := fiber.New(fiber.Config{ErrorHandler: shared.ErrorHandler})
	app.Post("/login", svc.RateLimit("login"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	send := func(ip string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	for i := 0; i < 10; i++ {
		resp := send("9.9.9.9")
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i+1, resp.StatusCode)
		}
		if got := resp.Header.Get("X-RateLimit-Remaining"); got != strconv.Itoa(9-i) {
			t.Fatalf("request %d: remaining header %q", i+1, got)
		}
	}

	resp := send("9.9.9.9")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") != "900" {
		t.Fatalf("Retry-After = %q", resp.Header.Get("Retry-After"))
	}

	if resp := send("8.8.8.8"); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("other client limited: %d", resp.StatusCode)
	}

	counter.err = errors.New("redis down")
	if resp := send("9.9.9.9"); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("limiter must fail open, got %d", resp.StatusCode)
	}
}

func TestRateLimitKeysAuthenticatedUsersByID(t *testing.T) {
	svc, counter := newTestRateLimiter()

	app := fiber.New()
	app.Post("/chat", func(c *fiber.Ctx) error {
		c.Locals(shared.UserID, "user-42")
		return c.Next()
	}, svc.RateLimit("ai_chat"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	if _, err := app.Test(httptest.NewRequest(http.MethodPost, "/chat", nil)); err != nil {
		t.Fatal(err)
	}
	if counter.counts["rate_limit:ai_chat:user-42"] != 1 {
		t.Fatalf("counts = %v", counter.counts)
	}
}
