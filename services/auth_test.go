package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
)

func newTestJWT() *JWTService {
	return &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "test-secret"}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		users:  repositories.NewUserRepository(newTestDB(t)),
		jwtSvc: newTestJWT(),
		now:    fixedClock(time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC)),
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc := newTestJWT()

	pair, err := svc.GenerateTokenPair("user-1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if pair.TokenType != "Bearer" || pair.ExpiresIn != 3600 {
		t.Fatalf("pair = %+v", pair)
	}

	token, err := svc.ExtractTokenFromHeader("Bearer " + pair.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	userID, role, err := svc.VerifyJWTToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != "user-1" || role != "admin" {
		t.Fatalf("claims = %s/%s", userID, role)
	}

	other := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "another-secret"}
	if _, _, err := other.VerifyJWTToken(token); err == nil {
		t.Fatal("token accepted with the wrong key")
	}

	expired := &JWTService{AccessTokenDuration: -time.Minute, jwtSecretKey: "test-secret"}
	stale, err := expired.ToJWT("user-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.VerifyJWTToken(stale); err == nil {
		t.Fatal("expired token accepted")
	}

	for _, header := range []string{"", "Token abc", "Bearer"} {
		if _, err := svc.ExtractTokenFromHeader(header); err == nil {
			t.Fatalf("header %q accepted", header)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	reg, err := svc.Register(&dto.RegisterRequest{Email: " Learner@Example.com ", Username: "learner01", Password: "SecurePass123!"})
	if err != nil {
		t.Fatal(err)
	}
	if reg.User.Email != "learner@example.com" || reg.User.Role != "user" || reg.Tokens.AccessToken == "" {
		t.Fatalf("register = %+v", reg)
	}

	_, err = svc.Register(&dto.RegisterRequest{Email: "learner@example.com", Username: "other", Password: "SecurePass123!"})
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email err = %v", err)
	}
	_, err = svc.Register(&dto.RegisterRequest{Email: "new@example.com", Username: "learner01", Password: "SecurePass123!"})
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate username err = %v", err)
	}

	login, err := svc.Login(&dto.LoginRequest{EmailOrUsername: "learner01", Password: "SecurePass123!"})
	if err != nil {
		t.Fatal(err)
	}
	if login.User.ID != reg.User.ID || login.CurrentStreak != 1 || login.LongestStreak != 1 {
		t.Fatalf("login = %+v", login)
	}

	userID, _, err := svc.jwtSvc.VerifyJWTToken(login.Tokens.AccessToken)
	if err != nil || userID != reg.User.ID {
		t.Fatalf("token user = %q, err = %v", userID, err)
	}

	svc.now = fixedClock(time.Date(2026, 2, 2, 22, 0, 0, 0, time.UTC))
	next, err := svc.Login(&dto.LoginRequest{EmailOrUsername: "learner@example.com", Password: "SecurePass123!"})
	if err != nil {
		t.Fatal(err)
	}
	if next.CurrentStreak != 2 {
		t.Fatalf("streak after consecutive day = %d, want 2", next.CurrentStreak)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Username: "alpha", Password: "SecurePass123!"}); err != nil {
		t.Fatal(err)
	}

	for _, req := range []dto.LoginRequest{
		{EmailOrUsername: "alpha", Password: "wrong"},
		{EmailOrUsername: "nobody", Password: "SecurePass123!"},
	} {
		_, err := svc.Login(&req)
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != http.StatusUnauthorized {
			t.Fatalf("login %q err = %v", req.EmailOrUsername, err)
		}
	}

	err := svc.users.DB().Table("users").Where("username = ?", "alpha").Update("is_active", false).Error
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Login(&dto.LoginRequest{EmailOrUsername: "alpha", Password: "SecurePass123!"})
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusForbidden {
		t.Fatalf("inactive login err = %v", err)
	}
}
