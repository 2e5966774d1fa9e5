package repositories

import (
	"testing"

	"github.com/bloolabb/bloolabb_api/model"
)

func TestLeaderboardOrderingAndRank(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalyticRepository(db)

	users := map[string]*model.User{}
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		users[name] = createUser(t, db, name)
	}

	set := func(name string, xp, longest int) {
		db.Model(&model.Profile{}).Where("id = ?", users[name].ID).Updates(map[string]interface{}{
			"total_xp":       xp,
			"longest_streak": longest,
		})
	}
	set("alice", 300, 2)
	set("bob", 500, 1)
	set("carol", 300, 9)
	set("dave", 10, 0)

	db.Model(&model.User{}).Where("id = ?", users["dave"].ID).Update("is_active", false)

	rows, err := repo.TopProfiles(10)
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	for _, r := range rows {
		order = append(order, r.Username)
	}
	want := []string{"bob", "carol", "alice"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	rank, err := repo.UserRank(users["alice"].ID)
	if err != nil {
		t.Fatal(err)
	}
	if rank != 3 {
		t.Fatalf("alice rank = %d, want 3", rank)
	}
}

func TestAdminGetUsersSearch(t *testing.T) {
	db := newTestDB(t)
	for _, name := range []string{"mentor1", "mentor2", "student"} {
		createUser(t, db, name)
	}

	users, total, err := NewUserRepository(db).AdminGetUsers(1, 10, "MENTOR")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("total = %d len = %d", total, len(users))
	}
}
