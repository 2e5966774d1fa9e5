package middleware

import (
	"errors"

	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

var errMissingUser = errors.New("no authenticated user")

// TokenVerifier turns an Authorization header into a user id and role.
type TokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (userID string, role string, err error)
}

// RequiredAuth rejects requests without a valid bearer token and stores the
// caller's id and role in the request locals.
func RequiredAuth(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := tokens.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.NewUnauthorizedError(err, shared.ErrKeywordUnauthorized)
		}

		userID, role, err := tokens.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError(err, shared.ErrKeywordUnauthorized)
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		token, err := tokens.ExtractTokenFromHeader(header)
		if err != nil {
			return c.Next()
		}
		if userID, role, err := tokens.VerifyJWTToken(token); err == nil {
			c.Locals(shared.UserID, userID)
			c.Locals(shared.UserRole, role)
		}
		return c.Next()
	}
}

// RequireRole must run after RequiredAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(shared.UserID).(string); !ok {
			return shared.NewUnauthorizedError(errMissingUser, shared.ErrKeywordUnauthorized)
		}

		role, _ := c.Locals(shared.UserRole).(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return shared.NewForbiddenError(nil, "Insufficient permissions")
	}
}

// CurrentUserID returns the id stored by RequiredAuth or OptionalAuth.
func CurrentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(shared.UserID).(string)
	return userID, ok && userID != ""
}
