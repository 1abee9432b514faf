// Package server initializes and runs the vault server. It opens the
// database, applies migrations, wires the services and starts the HTTP
// endpoint, handling graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lockzilla/lockzilla/internal/logging"
	"github.com/lockzilla/lockzilla/internal/server/breach"
	"github.com/lockzilla/lockzilla/internal/server/config"
	hs "github.com/lockzilla/lockzilla/internal/server/http"
	"github.com/lockzilla/lockzilla/internal/server/notify"
	"github.com/lockzilla/lockzilla/internal/server/repositories/repomanager"
	"github.com/lockzilla/lockzilla/internal/server/services"
)

// sessionPurgeInterval is how often expired session rows are swept.
// Expired sessions are also removed lazily on authentication, so the
// sweep only bounds table growth for abandoned sessions.
const sessionPurgeInterval = 1 * time.Hour

// mailSendTimeout caps one delivery attempt against the mail relay.
const mailSendTimeout = 10 * time.Second

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	secretService *services.SecretService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	var notifier notify.Notifier
	if cfg.MailAPIKey != "" {
		notifier = notify.NewMailer(cfg.MailAPIEndpoint, cfg.MailAPIKey, cfg.MailAPIHost, cfg.MailReplyTo, mailSendTimeout)
	}

	checker := breach.NewHTTPChecker(cfg.BreachAPIEndpoint, cfg.BreachCheckTimeout)

	us := services.NewUserService(db, rm, notifier, logger, cfg)
	ss := services.NewSecretService(db, rm, checker, logger, cfg)

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		userService:   us,
		secretService: ss,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.secretService)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startSessionPurger(ctx context.Context) {

	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredSessions(ctx)
			if err != nil {
				app.logger.Error(ctx, "session purge failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired sessions", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSessionPurger(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
