// Package http exposes the vault over HTTP using Fiber. It is a thin
// adapter: handlers parse requests, call the service layer and translate
// domain errors into status codes.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lockzilla/lockzilla/internal/logging"
	"github.com/lockzilla/lockzilla/internal/server/breach"
	"github.com/lockzilla/lockzilla/internal/server/models"
	"github.com/lockzilla/lockzilla/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// UserProvider is the slice of the user service the transport layer needs.
type UserProvider interface {
	Register(ctx context.Context, username, password, email string) (*services.RegisterResult, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	IssueAccessToken(ctx context.Context, userID string) (string, error)
	VerifyAccessToken(ctx context.Context, token string) (string, error)
}

// SecretProvider is the slice of the secret service the transport layer needs.
type SecretProvider interface {
	List(ctx context.Context, ownerID string, searchTerm string) ([]models.Secret, error)
	Add(ctx context.Context, ownerID, service, secret string) (*breach.Result, error)
	Update(ctx context.Context, ownerID, service, secret string) error
	Delete(ctx context.Context, ownerID, service string) error
	LookupByDomain(ctx context.Context, ownerID, domain string) ([]models.Secret, error)
}

type HTTPServer struct {
	address string
	users   UserProvider
	secrets SecretProvider
	logger  logging.Logger
	app     *fiber.App
}

func NewHTTPServer(a string, l logging.Logger, us UserProvider, ss SecretProvider) (*HTTPServer, error) {
	s := &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		secrets: ss,
	}

	app := fiber.New(fiber.Config{AppName: "lockzilla"})

	// Route handlers run in registration order, so the auth middleware is
	// listed before the handler it guards.
	app.Post("/register", s.register)
	app.Post("/login", s.login)
	app.Post("/logout", s.requireSession, s.logout)

	app.Get("/", s.requireSession, s.list)
	app.Post("/add", s.requireSession, s.add)
	app.Post("/update/:service", s.requireSession, s.update)
	app.Post("/delete/:service", s.requireSession, s.delete)

	// The lookup endpoint additionally accepts signed API tokens so that
	// browser extensions and scripts can call it without a cookie jar.
	app.Get("/get_password", s.requireSessionOrAPIToken, s.getPassword)
	app.Post("/api/token", s.requireSession, s.issueAPIToken)

	s.app = app
	return s, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		return err
	}

	return nil
}
