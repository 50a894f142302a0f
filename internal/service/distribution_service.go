package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/graph"
	"github.com/mti-it/onboarding-service/internal/repository"
	"github.com/mti-it/onboarding-service/internal/settings"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

// GroupClient is the slice of the Graph client used for membership sync.
type GroupClient interface {
	AddGroupMember(ctx context.Context, groupAddress, memberEmail string) error
}

// GroupClientFactory builds a client for the current Graph settings.
type GroupClientFactory func(cfg settings.GraphSettings) GroupClient

// ListSyncOutcome is the per-list result of a distribution sync.
type ListSyncOutcome struct {
	ListID  string `json:"list_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SyncReport is the aggregate distribution sync response.
type SyncReport struct {
	HireID   string            `json:"hire_id"`
	Status   domain.SyncStatus `json:"status"`
	SyncedAt time.Time         `json:"synced_at"`
	Lists    []ListSyncOutcome `json:"lists"`
}

// DistributionService reconciles a hire's mailing-list selection against
// Exchange Online group membership.
type DistributionService struct {
	hires     repository.HireRepository
	audits    repository.AuditRepository
	settings  *settings.Store
	newClient GroupClientFactory
	logger    *zap.Logger
}

// DistributionDependencies bundles requirements for the sync service.
type DistributionDependencies struct {
	HireRepo      repository.HireRepository
	AuditRepo     repository.AuditRepository
	Settings      *settings.Store
	ClientFactory GroupClientFactory
	Logger        *zap.Logger
}

// NewDistributionService constructs the service. Without an explicit factory
// it builds a Graph client per sync from the current settings.
func NewDistributionService(deps DistributionDependencies) *DistributionService {
	if deps.ClientFactory == nil {
		deps.ClientFactory = func(cfg settings.GraphSettings) GroupClient {
			return graph.NewClient(cfg)
		}
	}
	return &DistributionService{
		hires:     deps.HireRepo,
		audits:    deps.AuditRepo,
		settings:  deps.Settings,
		newClient: deps.ClientFactory,
		logger:    deps.Logger,
	}
}

// Sync attempts to add the hire's email to every selected distribution group.
// Per-group failures are collected independently; the aggregate status is
// Synced only when every attempt succeeded, Partial on a mix, Failed when
// nothing succeeded. Re-running a sync is idempotent as long as the directory
// service treats an existing member as a no-op.
func (s *DistributionService) Sync(ctx context.Context, hireID, performedBy string) (*SyncReport, error) {
	doc := s.settings.Get()
	if !doc.Graph.Enabled {
		return nil, apperrors.NewValidationError("exchange online integration is not configured", nil)
	}

	hire, err := s.hires.GetByID(ctx, hireID)
	if err != nil {
		return nil, err
	}
	if len(hire.MailingList) == 0 {
		return nil, apperrors.NewValidationError("hire has no mailing lists selected", nil)
	}

	client := s.newClient(doc.Graph)
	outcomes := make([]ListSyncOutcome, 0, len(hire.MailingList))
	succeeded, failed := 0, 0

	for _, listID := range hire.MailingList {
		outcome := ListSyncOutcome{ListID: listID}
		list, known := doc.MailingListByID(listID)
		if !known {
			outcome.Error = "mailing list is not configured"
			failed++
			outcomes = append(outcomes, outcome)
			s.auditListOutcome(ctx, hireID, outcome, performedBy)
			continue
		}

		outcome.Name = list.Name
		outcome.Address = list.Address
		if err := client.AddGroupMember(ctx, list.Address, hire.Email); err != nil {
			outcome.Error = err.Error()
			failed++
		} else {
			outcome.Success = true
			succeeded++
		}
		outcomes = append(outcomes, outcome)
		s.auditListOutcome(ctx, hireID, outcome, performedBy)
	}

	status := domain.AggregateSyncStatus(succeeded, failed)
	now := time.Now()
	if err := s.hires.SetSyncResult(ctx, hireID, status, now); err != nil {
		s.logger.Warn("sync completed but status persistence failed",
			zap.String("hire_id", hireID), zap.Error(err))
	}

	summaryStatus := domain.AuditSuccess
	if status == domain.SyncStatusFailed {
		summaryStatus = domain.AuditError
	} else if status == domain.SyncStatusPartial {
		summaryStatus = domain.AuditWarning
	}
	s.appendAudit(ctx, hireID, domain.AuditActionDistributionSync, summaryStatus,
		fmt.Sprintf("distribution sync %s: %d succeeded, %d failed", status, succeeded, failed),
		performedBy)

	return &SyncReport{
		HireID:   hireID,
		Status:   status,
		SyncedAt: now,
		Lists:    outcomes,
	}, nil
}

func (s *DistributionService) auditListOutcome(ctx context.Context, hireID string, outcome ListSyncOutcome, performedBy string) {
	status := domain.AuditSuccess
	message := fmt.Sprintf("added to %s", outcome.Address)
	if !outcome.Success {
		status = domain.AuditError
		message = fmt.Sprintf("failed to add to %s: %s", outcome.ListID, outcome.Error)
	}
	s.appendAudit(ctx, hireID, domain.AuditActionDistributionSync, status, message, performedBy)
}

func (s *DistributionService) appendAudit(ctx context.Context, hireID, action string, status domain.AuditStatus, message, performedBy string) {
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
