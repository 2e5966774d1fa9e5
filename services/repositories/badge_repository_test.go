package repositories

import (
	"reflect"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/model"
)

func TestAwardBadgesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)
	now := time.Now()

	got, err := repo.AwardBadges("u1", []string{"a", "b"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("first award = %v", got)
	}

	got, err = repo.AwardBadges("u1", []string{"a", "b", "c"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("second award = %v", got)
	}

	count, _ := repo.CountUserBadges("u1")
	if count != 3 {
		t.Fatalf("rows = %d, want 3", count)
	}

	earned, err := repo.EarnedBadgeIDs("u1")
	if err != nil {
		t.Fatal(err)
	}
	if !earned["a"] || !earned["b"] || !earned["c"] || len(earned) != 3 {
		t.Fatalf("earned = %v", earned)
	}
}

func TestListBadgesOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)

	for _, b := range []model.Badge{
		{ID: "z", Name: "Z", ConditionType: "streak", ConditionValue: 3, OrderIndex: 2, IsActive: true},
		{ID: "y", Name: "Y", ConditionType: "xp_milestone", ConditionValue: 100, OrderIndex: 1, IsActive: true},
		{ID: "x", Name: "X", ConditionType: "xp_milestone", ConditionValue: 1, OrderIndex: 3, IsActive: false},
	} {
		b := b
		if err := repo.CreateBadge(&b); err != nil {
			t.Fatal(err)
		}
	}

	active, err := repo.ListBadges(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 || active[0].ID != "y" || active[1].ID != "z" {
		t.Fatalf("active = %+v", active)
	}

	all, _ := repo.ListBadges(false)
	if len(all) != 3 {
		t.Fatalf("all = %d", len(all))
	}
}
