package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lockzilla/lockzilla/internal/common"
	"github.com/lockzilla/lockzilla/internal/dbx"
	"github.com/lockzilla/lockzilla/internal/logging"
	"github.com/lockzilla/lockzilla/internal/server/breach"
	"github.com/lockzilla/lockzilla/internal/server/models"
	secretsrepo "github.com/lockzilla/lockzilla/internal/server/repositories/secrets"
	sessionsrepo "github.com/lockzilla/lockzilla/internal/server/repositories/sessions"
	usersrepo "github.com/lockzilla/lockzilla/internal/server/repositories/users"
)

// In-memory repository fakes shared by the service tests. They honor the
// same contracts as the Postgres implementations: duplicate usernames fail,
// puts upsert, updates never create, deletes are no-ops on absent keys.

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type memUsersRepo struct {
	mu     sync.Mutex
	byName map[string]*models.User
	seq    int
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byName: make(map[string]*models.User)}
}

func (r *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[user.Username]; ok {
		return nil, common.ErrorDuplicateUsername
	}
	r.seq++
	user.ID = fmt.Sprintf("u-%d", r.seq)
	user.CreatedAt = time.Now()
	clone := *user
	r.byName[user.Username] = &clone
	return user, nil
}

func (r *memUsersRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byName[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byName {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memSecretsRepo struct {
	mu   sync.Mutex
	rows map[string]map[string]string // owner id -> service -> secret
}

func newMemSecretsRepo() *memSecretsRepo {
	return &memSecretsRepo{rows: make(map[string]map[string]string)}
}

func (r *memSecretsRepo) List(ctx context.Context, ownerID string) ([]models.Secret, error) {
	return r.Search(ctx, ownerID, "")
}

func (r *memSecretsRepo) Search(ctx context.Context, ownerID string, term string) ([]models.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Secret
	for service, secret := range r.rows[ownerID] {
		if term != "" && !strings.Contains(strings.ToLower(service), strings.ToLower(term)) {
			continue
		}
		out = append(out, models.Secret{OwnerID: ownerID, Service: service, Secret: secret})
	}
	return out, nil
}

func (r *memSecretsRepo) Put(ctx context.Context, entry *models.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[entry.OwnerID] == nil {
		r.rows[entry.OwnerID] = make(map[string]string)
	}
	r.rows[entry.OwnerID][entry.Service] = entry.Secret
	return nil
}

func (r *memSecretsRepo) Update(ctx context.Context, entry *models.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[entry.OwnerID][entry.Service]; !ok {
		return nil
	}
	r.rows[entry.OwnerID][entry.Service] = entry.Secret
	return nil
}

func (r *memSecretsRepo) Delete(ctx context.Context, ownerID string, service string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows[ownerID], service)
	return nil
}

type memSessionsRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Session
}

func newMemSessionsRepo() *memSessionsRepo {
	return &memSessionsRepo{rows: make(map[string]*models.Session)}
}

func (r *memSessionsRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.rows[session.TokenHash] = &clone
	return nil
}

func (r *memSessionsRepo) Find(ctx context.Context, tokenHash string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[tokenHash]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memSessionsRepo) Delete(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, tokenHash)
	return nil
}

func (r *memSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for hash, s := range r.rows {
		if now.After(s.ExpiresAt) {
			delete(r.rows, hash)
			n++
		}
	}
	return n, nil
}

type memRepoManager struct {
	users    *memUsersRepo
	secrets  *memSecretsRepo
	sessions *memSessionsRepo
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users:    newMemUsersRepo(),
		secrets:  newMemSecretsRepo(),
		sessions: newMemSessionsRepo(),
	}
}

func (m *memRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository              { return m.users }
func (m *memRepoManager) Secrets(db dbx.DBTX) secretsrepo.Repository          { return m.secrets }
func (m *memRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository        { return m.sessions }

type sentMail struct {
	recipient string
	secret    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *fakeNotifier) SendSecret(ctx context.Context, recipient string, secret string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{recipient: recipient, secret: secret})
	return nil
}

type fakeChecker struct {
	res *breach.Result
	err error
}

func (c *fakeChecker) Check(ctx context.Context, secret string) (*breach.Result, error) {
	if c.err != nil {
		return &breach.Result{Status: breach.StatusInconclusive}, c.err
	}
	return c.res, nil
}
