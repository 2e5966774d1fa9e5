package repositories

import (
	"sync"
	"testing"
	"time"
)

func TestConsumeHeartDailyQuota(t *testing.T) {
	db := newTestDB(t)
	repo := NewHeartsRepository(db)
	now := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		usage, ok, err := repo.ConsumeHeart("u1", "2026-05-04", 5, now)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("request %d rejected", i)
		}
		if usage.HeartsRemaining != 5-i {
			t.Fatalf("request %d: remaining = %d, want %d", i, usage.HeartsRemaining, 5-i)
		}
		if usage.TotalQuestionsAsked != i {
			t.Fatalf("request %d: total = %d", i, usage.TotalQuestionsAsked)
		}
	}

	usage, ok, err := repo.ConsumeHeart("u1", "2026-05-04", 5, now)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("sixth request accepted")
	}
	if usage.HeartsRemaining != 0 || usage.TotalQuestionsAsked != 5 {
		t.Fatalf("rejected request changed usage: %+v", usage)
	}

	usage, ok, err = repo.ConsumeHeart("u1", "2026-05-05", 5, now.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || usage.HeartsRemaining != 4 || usage.ResetDate != "2026-05-05" {
		t.Fatalf("next day: ok=%v usage=%+v", ok, usage)
	}
	if usage.TotalQuestionsAsked != 6 {
		t.Fatalf("total = %d, want 6", usage.TotalQuestionsAsked)
	}
}

func TestConsumeHeartResetsAfterPartialDay(t *testing.T) {
	db := newTestDB(t)
	repo := NewHeartsRepository(db)
	now := time.Now()

	for i := 0; i < 2; i++ {
		if _, _, err := repo.ConsumeHeart("u2", "2026-05-01", 5, now); err != nil {
			t.Fatal(err)
		}
	}

	usage, ok, err := repo.ConsumeHeart("u2", "2026-05-03", 5, now)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || usage.HeartsRemaining != 4 {
		t.Fatalf("ok=%v remaining=%d, want reset to 5 then 4", ok, usage.HeartsRemaining)
	}
}

func TestConsumeHeartConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewHeartsRepository(db)
	now := time.Now()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.ConsumeHeart("u3", "2026-05-04", 5, now)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 5 {
		t.Fatalf("accepted = %d, want 5", accepted)
	}
	usage, err := repo.GetUsage("u3")
	if err != nil {
		t.Fatal(err)
	}
	if usage.HeartsRemaining != 0 {
		t.Fatalf("remaining = %d", usage.HeartsRemaining)
	}
}
