package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/directory"
	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/repository"
	"github.com/mti-it/onboarding-service/internal/settings"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

// DirectoryClient is the slice of the LDAP client the service needs.
// Tests substitute a fake.
type DirectoryClient interface {
	CreateAccount(spec directory.AccountSpec, password string) (groupWarning error, err error)
	Search(query string, limit int) ([]directory.DirectoryUser, error)
}

// DirectoryClientFactory builds a client for the current settings. A fresh
// client per operation keeps a dropped connection from poisoning later calls.
type DirectoryClientFactory func(cfg settings.ActiveDirectorySettings) DirectoryClient

// AccountCreationResult reports the outcome of one directory account creation.
type AccountCreationResult struct {
	HireID  string                       `json:"hire_id"`
	Spec    directory.AccountSpec        `json:"spec"`
	Warning string                       `json:"warning,omitempty"`
	Status  domain.AccountCreationStatus `json:"account_creation_status"`
}

// DirectoryService translates hires into directory accounts.
type DirectoryService struct {
	hires       repository.HireRepository
	audits      repository.AuditRepository
	settings    *settings.Store
	newClient   DirectoryClientFactory
	logger      *zap.Logger
	workerLimit int
}

// DirectoryDependencies bundles requirements for the directory service.
type DirectoryDependencies struct {
	HireRepo      repository.HireRepository
	AuditRepo     repository.AuditRepository
	Settings      *settings.Store
	ClientFactory DirectoryClientFactory
	Logger        *zap.Logger
	WorkerLimit   int
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	factory := deps.ClientFactory
	if factory == nil {
		factory = func(cfg settings.ActiveDirectorySettings) DirectoryClient {
			return directory.NewClient(cfg, deps.Logger)
		}
	}
	return &DirectoryService{
		hires:       deps.HireRepo,
		audits:      deps.AuditRepo,
		settings:    deps.Settings,
		newClient:   factory,
		logger:      deps.Logger,
		workerLimit: deps.WorkerLimit,
	}
}

// SpecFor previews the directory-account specification for a hire.
func (s *DirectoryService) SpecFor(ctx context.Context, hireID string) (directory.AccountSpec, error) {
	hire, err := s.hires.GetByID(ctx, hireID)
	if err != nil {
		return directory.AccountSpec{}, err
	}
	return s.rules().SpecFor(hire), nil
}

// CreateAccount provisions the directory account for a hire.
// On success the hire's status moves to Active. If the local status update
// fails after the directory succeeded, the result still reports success with
// a warning: the directory account is not rolled back.
func (s *DirectoryService) CreateAccount(ctx context.Context, hireID, passwordOverride, performedBy string) (*AccountCreationResult, error) {
	cfg := s.settings.Get().ActiveDirectory
	if !cfg.Enabled {
		return nil, apperrors.NewValidationError("active directory integration is disabled", nil)
	}

	hire, err := s.hires.GetByID(ctx, hireID)
	if err != nil {
		return nil, err
	}

	spec := s.rules().SpecFor(hire)
	password := passwordOverride
	if password == "" {
		password = hire.Password
	}
	if password == "" {
		return nil, apperrors.NewValidationError(directory.ErrPasswordRequired.Error(), map[string]any{
			"password": "required",
		})
	}

	client := s.newClient(cfg)
	groupWarning, err := client.CreateAccount(spec, password)
	if err != nil {
		s.appendAudit(ctx, hireID, domain.AuditActionAccountCreated, domain.AuditError,
			fmt.Sprintf("directory account creation failed: %v", err), performedBy)
		var bindErr *directory.BindError
		if errors.As(err, &bindErr) {
			return nil, apperrors.NewUpstreamError("active_directory", bindErr.Error(), err)
		}
		return nil, apperrors.NewUpstreamError("active_directory", "directory account creation failed", err)
	}

	result := &AccountCreationResult{
		HireID: hireID,
		Spec:   spec,
		Status: domain.AccountStatusActive,
	}
	if groupWarning != nil {
		result.Warning = fmt.Sprintf("account created, group assignment failed: %v", groupWarning)
	}

	s.appendAudit(ctx, hireID, domain.AuditActionAccountCreated, domain.AuditSuccess,
		fmt.Sprintf("directory account %s created in %s", spec.Username, spec.OUPath), performedBy)

	// Best effort: the directory account exists even if this update fails.
	if err := s.hires.UpdateFields(ctx, hireID, map[string]any{
		"account_creation_status": string(domain.AccountStatusActive),
		"username":                spec.Username,
	}); err != nil {
		s.logger.Warn("directory account created but status update failed",
			zap.String("hire_id", hireID), zap.Error(err))
		s.appendAudit(ctx, hireID, domain.AuditActionAccountCreated, domain.AuditWarning,
			"directory account created but local status update failed", performedBy)
		result.Warning = "account created, local status update failed"
	}

	return result, nil
}

// BulkCreate provisions accounts for the selected hires through the worker
// pool, reporting a per-item breakdown. A non-empty passwordOverride applies
// to every item, replacing each hire's stored advisory password.
func (s *DirectoryService) BulkCreate(ctx context.Context, hireIDs []string, passwordOverride, performedBy string) BulkResult {
	return fanOut(ctx, hireIDs, s.workerLimit, func(ctx context.Context, id string) error {
		_, err := s.CreateAccount(ctx, id, passwordOverride, performedBy)
		return err
	})
}

// Search runs a free-text directory lookup. Failures degrade to an empty
// list plus an error string; the route never surfaces a 500 for this.
func (s *DirectoryService) Search(ctx context.Context, query string, limit int) ([]directory.DirectoryUser, string) {
	cfg := s.settings.Get().ActiveDirectory
	if !cfg.Enabled {
		return []directory.DirectoryUser{}, "active directory integration is disabled"
	}

	users, err := s.newClient(cfg).Search(query, limit)
	if err != nil {
		s.logger.Warn("directory search failed", zap.String("query", query), zap.Error(err))
		return []directory.DirectoryUser{}, err.Error()
	}
	if users == nil {
		users = []directory.DirectoryUser{}
	}
	return users, ""
}

func (s *DirectoryService) rules() directory.NamingRules {
	cfg := s.settings.Get().ActiveDirectory
	org := cfg.Organization
	if org == "" {
		org = "MTI"
	}
	return directory.NamingRules{Org: org, BaseDN: cfg.BaseDN}
}

func (s *DirectoryService) appendAudit(ctx context.Context, hireID, action string, status domain.AuditStatus, message, performedBy string) {
	entry := &domain.AuditEntry{
		HireID:      hireID,
		ActionType:  action,
		Status:      status,
		Message:     message,
		PerformedBy: performedBy,
	}
	if err := s.audits.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit entry",
			zap.String("hire_id", hireID), zap.Error(err))
	}
}
