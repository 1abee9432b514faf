package http

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lockzilla/lockzilla/internal/common"
)

// Keys under which auth middleware stores request identity in c.Locals.
const (
	localUserID  = "userID"
	localSession = "session"
	localToken   = "token"
)

// extractToken extracts the authentication token from the request.
// Checks the Authorization header (Bearer token) first, then falls back
// to the session cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies("auth_token")
}

// requireSession admits only requests carrying a live session token and
// stores the resolved identity for downstream handlers.
func (s *HTTPServer) requireSession(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return fail(c, common.ErrorUnauthenticated)
	}

	session, err := s.users.Authenticate(c.Context(), token)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(localUserID, session.UserID)
	c.Locals(localSession, session)
	c.Locals(localToken, token)

	return c.Next()
}

// requireSessionOrAPIToken admits a live session token or a signed API
// token, in that order. Only the account id is guaranteed downstream.
func (s *HTTPServer) requireSessionOrAPIToken(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return fail(c, common.ErrorUnauthenticated)
	}

	if session, err := s.users.Authenticate(c.Context(), token); err == nil {
		c.Locals(localUserID, session.UserID)
		c.Locals(localSession, session)
		c.Locals(localToken, token)
		return c.Next()
	}

	userID, err := s.users.VerifyAccessToken(c.Context(), token)
	if err != nil {
		return fail(c, common.ErrorUnauthenticated)
	}

	c.Locals(localUserID, userID)
	c.Locals(localToken, token)

	return c.Next()
}
