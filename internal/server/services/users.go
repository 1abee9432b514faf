// Package services contains the server-side business logic. Services are
// stateless between calls: every operation takes the caller identity
// explicitly and owns no mutable state beyond the database handle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lockzilla/lockzilla/internal/common"
	"github.com/lockzilla/lockzilla/internal/cryptox"
	"github.com/lockzilla/lockzilla/internal/dbx"
	"github.com/lockzilla/lockzilla/internal/logging"
	"github.com/lockzilla/lockzilla/internal/server/auth"
	"github.com/lockzilla/lockzilla/internal/server/config"
	"github.com/lockzilla/lockzilla/internal/server/models"
	"github.com/lockzilla/lockzilla/internal/server/notify"
	"github.com/lockzilla/lockzilla/internal/server/repositories/repomanager"
)

// sessionTokenBytes random bytes per session token; hex-encodes to 64 chars.
const sessionTokenBytes = 32

// RegisterResult reports a completed registration. Notified is false when
// the confirmation mail could not be delivered; the account exists either way.
type RegisterResult struct {
	User     *models.User
	Notified bool
}

// LoginResult carries the established session and the opaque token the
// caller must present on subsequent requests. The token is never persisted.
type LoginResult struct {
	Session *models.Session
	Token   string
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	notifier                    notify.Notifier
	logger                      logging.Logger
	jwtSecret                   []byte
	sessionValidityDuration     time.Duration
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, notifier notify.Notifier, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		notifier:                    notifier,
		logger:                      logger.With("module", "user_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		sessionValidityDuration:     cfg.SessionValidityDuration,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new account with an argon2id password hash and, once the
// insert has returned, mails the login password to the account's address.
// A failed delivery is reported through RegisterResult.Notified and never
// unwinds the committed account.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*RegisterResult, error) {

	if username == "" || password == "" || email == "" {
		return nil, common.ErrorMissingParameter
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateUsername) {
			return nil, err
		}
		s.logger.Error(ctx, "account creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	result := &RegisterResult{User: user, Notified: false}

	// The insert is committed at this point; delivery runs outside any
	// storage lock and its outcome never rolls the account back.
	if s.notifier != nil {
		if err := s.notifier.SendSecret(ctx, user.Email, password); err != nil {
			s.logger.Warn(ctx, "registration mail not delivered", "username", username, "error", err.Error())
		} else {
			result.Notified = true
		}
	}

	return result, nil
}

// Login verifies the credential pair and establishes a session. The failure
// is identical for an unknown username and a wrong password.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {

	if username == "" || password == "" {
		return nil, common.ErrorMissingParameter
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored hash unreadable", "username", username)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	token, err := common.MakeRandHexString(sessionTokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := time.Now()
	session := &models.Session{
		TokenHash: cryptox.HashToken(token),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: now.Add(s.sessionValidityDuration),
		CreatedAt: now,
	}

	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		s.logger.Error(ctx, "session creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &LoginResult{Session: session, Token: token}, nil
}

// Authenticate resolves a presented session token to its identity binding.
// Unknown and expired tokens both surface as ErrorUnauthenticated; expired
// rows are removed on the way out.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.Session, error) {

	if token == "" {
		return nil, common.ErrorUnauthenticated
	}

	tokenHash := cryptox.HashToken(token)

	var session *models.Session

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)

		found, err := repo.Find(ctx, tokenHash)
		if err != nil {
			return err
		}

		if found.Expired(time.Now()) {
			if err := repo.Delete(ctx, tokenHash); err != nil {
				return err
			}
			return common.ErrorUnauthenticated
		}

		session = found
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnauthenticated) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, common.ErrorInternal
	}

	return session, nil
}

// Logout tears down the session binding. Unknown tokens are a no-op so that
// logout is idempotent.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, cryptox.HashToken(token)); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// IssueAccessToken mints a short-lived JWT carrying only the opaque user id,
// for clients of the machine-readable lookup endpoint.
func (s *UserService) IssueAccessToken(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// VerifyAccessToken resolves a JWT back to the user id it was minted for.
func (s *UserService) VerifyAccessToken(ctx context.Context, token string) (string, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", common.ErrorUnauthenticated
	}
	return userID, nil
}

// PurgeExpiredSessions removes sessions past their expiry and reports the
// count. Meant to be run periodically by the application.
func (s *UserService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx, time.Now())
}
