package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lockzilla/lockzilla/internal/common"
	"github.com/lockzilla/lockzilla/internal/server/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type addRequest struct {
	Service string `json:"service"`
	Secret  string `json:"secret"`
}

type updateRequest struct {
	Secret string `json:"secret"`
}

type secretItem struct {
	Service string `json:"service"`
	Secret  string `json:"secret"`
}

func toItems(secrets []models.Secret) []secretItem {
	items := make([]secretItem, 0, len(secrets))
	for _, s := range secrets {
		items = append(items, secretItem{Service: s.Service, Secret: s.Secret})
	}
	return items
}

func (s *HTTPServer) register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(c, common.ErrorMissingParameter)
	}

	result, err := s.users.Register(c.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"username": result.User.Username,
		"notified": result.Notified,
	})
}

func (s *HTTPServer) login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(c, common.ErrorMissingParameter)
	}

	result, err := s.users.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    result.Token,
		Expires:  result.Session.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"token":      result.Token,
		"expires_at": result.Session.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *HTTPServer) logout(c fiber.Ctx) error {
	token, _ := c.Locals(localToken).(string)

	if err := s.users.Logout(c.Context(), token); err != nil {
		return fail(c, err)
	}

	c.ClearCookie("auth_token")

	return c.JSON(fiber.Map{"message": "logged out"})
}

func (s *HTTPServer) list(c fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)

	secrets, err := s.secrets.List(c.Context(), userID, c.Query("search"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"secrets": toItems(secrets)})
}

func (s *HTTPServer) add(c fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)

	var req addRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(c, common.ErrorMissingParameter)
	}

	verdict, err := s.secrets.Add(c.Context(), userID, req.Service, req.Secret)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"service": req.Service,
		"breach": fiber.Map{
			"status": verdict.Status.String(),
			"count":  verdict.Count,
		},
	})
}

func (s *HTTPServer) update(c fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)
	service := c.Params("service")

	var req updateRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(c, common.ErrorMissingParameter)
	}

	if err := s.secrets.Update(c.Context(), userID, service, req.Secret); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"service": service})
}

func (s *HTTPServer) delete(c fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)
	service := c.Params("service")

	if err := s.secrets.Delete(c.Context(), userID, service); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"service": service})
}

func (s *HTTPServer) getPassword(c fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)

	secrets, err := s.secrets.LookupByDomain(c.Context(), userID, c.Query("domain"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"secrets": toItems(secrets)})
}

func (s *HTTPServer) issueAPIToken(c fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)

	token, err := s.users.IssueAccessToken(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"access_token": token})
}
