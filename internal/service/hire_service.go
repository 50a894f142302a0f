package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/directory"
	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/persistence"
	"github.com/mti-it/onboarding-service/internal/repository"
	"github.com/mti-it/onboarding-service/internal/settings"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

// ListCache is the slice of the hire-list cache the service needs.
// Tests substitute a fake.
type ListCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, payload []byte)
	Invalidate(ctx context.Context)
}

// HireService coordinates the hire record lifecycle.
type HireService struct {
	hires       repository.HireRepository
	audits      repository.AuditRepository
	settings    *settings.Store
	cache       ListCache
	logger      *zap.Logger
	workerLimit int
}

// HireDependencies bundles requirements for the hire service.
type HireDependencies struct {
	HireRepo    repository.HireRepository
	AuditRepo   repository.AuditRepository
	Settings    *settings.Store
	Cache       ListCache
	Logger      *zap.Logger
	WorkerLimit int
}

// HireCreateInput describes the creation payload.
type HireCreateInput struct {
	Name                string
	Email               string
	Title               string
	Department          string
	PhoneNumber         string
	Microsoft365License string
	MailingList         []string
	OnSiteDate          time.Time
}

// NewHireService constructs the service. A nil cache is replaced with a
// disabled one so callers never have to nil-check.
func NewHireService(deps HireDependencies) *HireService {
	cache := deps.Cache
	if cache == nil {
		cache = persistence.NewHireListCache(nil, 0)
	}
	return &HireService{
		hires:       deps.HireRepo,
		audits:      deps.AuditRepo,
		settings:    deps.Settings,
		cache:       cache,
		logger:      deps.Logger,
		workerLimit: deps.WorkerLimit,
	}
}

// List returns all hire records, served from the Redis cache when warm.
func (s *HireService) List(ctx context.Context) ([]domain.Hire, error) {
	if payload, ok := s.cache.Get(ctx); ok {
		var cached []domain.Hire
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	}

	hires, err := s.hires.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(hires); err == nil {
		s.cache.Set(ctx, payload)
	}
	return hires, nil
}

// Get returns one hire record.
func (s *HireService) Get(ctx context.Context, id string) (*domain.Hire, error) {
	return s.hires.GetByID(ctx, id)
}

// Create validates required fields and inserts a new hire, generating the
// provisioning hand-off credentials.
func (s *HireService) Create(ctx context.Context, input HireCreateInput, performedBy string) (*domain.Hire, error) {
	missing := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		missing["name"] = "required"
	}
	if strings.TrimSpace(input.Email) == "" {
		missing["email"] = "required"
	}
	if strings.TrimSpace(input.Title) == "" {
		missing["title"] = "required"
	}
	if strings.TrimSpace(input.Department) == "" {
		missing["department"] = "required"
	}
	if input.OnSiteDate.IsZero() {
		missing["on_site_date"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", missing)
	}

	doc := s.settings.Get()
	license := input.Microsoft365License
	if license == "" {
		license = "None"
	}
	if !doc.LicenseTypeValid(license) {
		return nil, apperrors.NewValidationError("unknown license type", map[string]any{
			"microsoft_365_license": license,
		})
	}
	// Department membership is a soft invariant: the UI warns on unknown
	// departments, the server accepts them.
	if _, known := doc.DepartmentByName(input.Department); !known {
		s.logger.Warn("hire created with unconfigured department",
			zap.String("department", input.Department))
	}

	hire := &domain.Hire{
		Name:                  strings.TrimSpace(input.Name),
		Email:                 strings.TrimSpace(input.Email),
		Title:                 strings.TrimSpace(input.Title),
		Department:            strings.TrimSpace(input.Department),
		PhoneNumber:           strings.TrimSpace(input.PhoneNumber),
		AccountCreationStatus: domain.AccountStatusPending,
		LaptopReady:           domain.LaptopPending,
		Microsoft365License:   license,
		Username:              directory.Username(strings.TrimSpace(input.Email)),
		Password:              GenerateInitialPassword(input.Name),
		MailingList:           input.MailingList,
		OnSiteDate:            input.OnSiteDate,
	}
	if hire.MailingList == nil {
		hire.MailingList = []string{}
	}

	if err := s.hires.Create(ctx, hire); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	s.appendAudit(ctx, hire.ID, domain.AuditActionHireCreated, domain.AuditSuccess,
		"hire record created", performedBy)
	return hire, nil
}

// Update merges the given fields into the hire and persists it.
func (s *HireService) Update(ctx context.Context, id string, fields map[string]any, performedBy string) (*domain.Hire, error) {
	if err := s.validateFieldValues(fields); err != nil {
		return nil, err
	}

	if err := s.hires.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	s.appendAudit(ctx, id, domain.AuditActionHireUpdated, domain.AuditInfo,
		"hire record updated", performedBy)
	return s.hires.GetByID(ctx, id)
}

// Delete removes one hire. The audit trail goes with it (FK cascade).
func (s *HireService) Delete(ctx context.Context, id string) error {
	if err := s.hires.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// BulkDelete removes the selected hires through the worker pool and reports
// a per-item breakdown. An already-deleted id fails its own item only.
func (s *HireService) BulkDelete(ctx context.Context, ids []string) BulkResult {
	result := fanOut(ctx, ids, s.workerLimit, func(ctx context.Context, id string) error {
		return s.hires.Delete(ctx, id)
	})
	s.cache.Invalidate(ctx)
	return result
}

// BulkUpdate applies the same field assignments to every selected hire.
func (s *HireService) BulkUpdate(ctx context.Context, ids []string, fields map[string]any, performedBy string) (BulkResult, error) {
	if len(fields) == 0 {
		return BulkResult{}, apperrors.NewValidationError("no fields to update", nil)
	}
	if err := s.validateFieldValues(fields); err != nil {
		return BulkResult{}, err
	}

	result := fanOut(ctx, ids, s.workerLimit, func(ctx context.Context, id string) error {
		if err := s.hires.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		s.appendAudit(ctx, id, domain.AuditActionHireUpdated, domain.AuditInfo,
			"bulk update applied", performedBy)
		return nil
	})
	s.cache.Invalidate(ctx)
	return result, nil
}

// AttachSRFDocument records an uploaded SRF document against the hire.
func (s *HireService) AttachSRFDocument(ctx context.Context, id, path, name, performedBy string) (*domain.Hire, error) {
	now := time.Now()
	if err := s.hires.SetSRFDocument(ctx, id, path, name, now); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	s.appendAudit(ctx, id, domain.AuditActionSRFUploaded, domain.AuditSuccess,
		"SRF document uploaded: "+name, performedBy)
	return s.hires.GetByID(ctx, id)
}

// AuditTrail returns the hire's audit entries, newest first.
func (s *HireService) AuditTrail(ctx context.Context, hireID string) ([]domain.AuditEntry, error) {
	if _, err := s.hires.GetByID(ctx, hireID); err != nil {
		return nil, err
	}
	return s.audits.ListByHire(ctx, hireID)
}

func (s *HireService) validateFieldValues(fields map[string]any) error {
	doc := s.settings.Get()

	if raw, ok := fields["microsoft_365_license"]; ok {
		if license, ok := raw.(string); !ok || !doc.LicenseTypeValid(license) {
			return apperrors.NewValidationError("unknown license type", map[string]any{
				"microsoft_365_license": raw,
			})
		}
	}
	if raw, ok := fields["account_creation_status"]; ok {
		if status, ok := raw.(string); !ok || !doc.AccountStatusValid(status) {
			return apperrors.NewValidationError("unknown account status", map[string]any{
				"account_creation_status": raw,
			})
		}
	}
	if raw, ok := fields["on_site_date"]; ok {
		if date, ok := raw.(time.Time); !ok || date.IsZero() {
			return apperrors.NewValidationError("invalid on-site date, expected YYYY-MM-DD", map[string]any{
				"on_site_date": raw,
			})
		}
	}
	if raw, ok := fields["username"]; ok {
		if username, ok := raw.(string); !ok || len(username) > 20 {
			return apperrors.NewValidationError("username exceeds 20 characters", map[string]any{
				"username": raw,
			})
		}
	}
	return nil
}

func (s *HireService) appendAudit(ctx context.Context, hireID, action string, status domain.AuditStatus, message, performedBy string) {
	entry := &domain.AuditEntry{
		HireID:      hireID,
		ActionType:  action,
		Status:      status,
		Message:     message,
		PerformedBy: performedBy,
	}
	if err := s.audits.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit entry",
			zap.String("hire_id", hireID),
			zap.String("action", action),
			zap.Error(err))
	}
}
