package services

import (
	"context"
	"database/sql"

	"github.com/lockzilla/lockzilla/internal/common"
	"github.com/lockzilla/lockzilla/internal/logging"
	"github.com/lockzilla/lockzilla/internal/server/breach"
	"github.com/lockzilla/lockzilla/internal/server/config"
	"github.com/lockzilla/lockzilla/internal/server/models"
	"github.com/lockzilla/lockzilla/internal/server/repositories/repomanager"
)

type SecretService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	checker     breach.Checker
	logger      logging.Logger
	hardBlock   bool
}

func NewSecretService(db *sql.DB, m repomanager.RepositoryManager, checker breach.Checker, logger logging.Logger, cfg *config.Config) *SecretService {
	return &SecretService{
		db:          db,
		repomanager: m,
		checker:     checker,
		logger:      logger.With("module", "secret_service"),
		hardBlock:   cfg.BreachHardBlock,
	}
}

// List returns the owner's entries, filtered by a case-insensitive substring
// match on the service name when searchTerm is non-empty.
func (s *SecretService) List(ctx context.Context, ownerID string, searchTerm string) ([]models.Secret, error) {
	repo := s.repomanager.Secrets(s.db)

	if searchTerm == "" {
		return repo.List(ctx, ownerID)
	}
	return repo.Search(ctx, ownerID, searchTerm)
}

// Add stores a secret for the owner, replacing any existing entry for the
// same service. The breach check runs first and is advisory by default: its
// verdict is returned to the caller alongside the stored entry, and only an
// explicit hard-block configuration turns an exposed verdict into a
// rejection. An inconclusive check never blocks and is never reported clean.
func (s *SecretService) Add(ctx context.Context, ownerID, service, secret string) (*breach.Result, error) {

	if service == "" || secret == "" {
		return nil, common.ErrorMissingParameter
	}

	verdict := &breach.Result{Status: breach.StatusInconclusive}
	if s.checker != nil {
		res, err := s.checker.Check(ctx, secret)
		if err != nil {
			s.logger.Warn(ctx, "breach check inconclusive", "service", service, "error", err.Error())
		}
		verdict = res
	}

	if s.hardBlock && verdict.Status == breach.StatusExposed {
		return verdict, common.ErrorSecretExposed
	}

	entry := &models.Secret{OwnerID: ownerID, Service: service, Secret: secret}
	if err := s.repomanager.Secrets(s.db).Put(ctx, entry); err != nil {
		s.logger.Error(ctx, "secret store failed", "service", service, "error", err.Error())
		return verdict, common.ErrorInternal
	}

	return verdict, nil
}

// Update overwrites the stored secret for an existing (owner, service) key.
// A missing key is a silent no-op: nothing is created.
func (s *SecretService) Update(ctx context.Context, ownerID, service, secret string) error {

	if service == "" || secret == "" {
		return common.ErrorMissingParameter
	}

	entry := &models.Secret{OwnerID: ownerID, Service: service, Secret: secret}
	if err := s.repomanager.Secrets(s.db).Update(ctx, entry); err != nil {
		s.logger.Error(ctx, "secret update failed", "service", service, "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// Delete removes the entry for the key; absent keys are a no-op.
func (s *SecretService) Delete(ctx context.Context, ownerID, service string) error {

	if service == "" {
		return common.ErrorMissingParameter
	}

	if err := s.repomanager.Secrets(s.db).Delete(ctx, ownerID, service); err != nil {
		s.logger.Error(ctx, "secret delete failed", "service", service, "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// LookupByDomain serves the autofill API: entries whose service name contains
// domain. An empty domain is a missing parameter and an empty result set is
// an explicit not-found, never an empty success.
func (s *SecretService) LookupByDomain(ctx context.Context, ownerID, domain string) ([]models.Secret, error) {

	if domain == "" {
		return nil, common.ErrorMissingParameter
	}

	entries, err := s.repomanager.Secrets(s.db).Search(ctx, ownerID, domain)
	if err != nil {
		s.logger.Error(ctx, "secret lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if len(entries) == 0 {
		return nil, common.ErrorNotFound
	}

	return entries, nil
}
