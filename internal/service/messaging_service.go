package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/graph"
	"github.com/mti-it/onboarding-service/internal/mail"
	"github.com/mti-it/onboarding-service/internal/messaging"
	"github.com/mti-it/onboarding-service/internal/repository"
	"github.com/mti-it/onboarding-service/internal/settings"
	"github.com/mti-it/onboarding-service/internal/whatsapp"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

// MessageSender is the slice of the WhatsApp client used by this service.
type MessageSender interface {
	Recipient(hireNumber string) string
	Send(ctx context.Context, recipient, message string) error
}

// MailSender delivers an HTML message to a set of recipients.
type MailSender interface {
	SendMail(ctx context.Context, to []string, subject, htmlBody string) error
}

// WhatsAppFactory builds a proxy client for the current settings; settings
// are read at send time so a policy change applies to the next message.
type WhatsAppFactory func(cfg settings.WhatsAppSettings) MessageSender

// GraphMailFactory builds a Graph mail client for the current settings.
type GraphMailFactory func(cfg settings.GraphSettings) MailSender

// SMTPFactory builds the fallback SMTP sender.
type SMTPFactory func(cfg settings.SMTPSettings) *mail.SMTPSender

// SendOutcome reports one completed send.
type SendOutcome struct {
	HireID    string `json:"hire_id,omitempty"`
	Recipient string `json:"recipient"`
	Transport string `json:"transport"`
}

// MessagingService composes and sends WhatsApp and license-request messages.
// There is no retry or queueing; failures are reported to the caller.
type MessagingService struct {
	hires       repository.HireRepository
	audits      repository.AuditRepository
	settings    *settings.Store
	newWhatsApp WhatsAppFactory
	newGraph    GraphMailFactory
	newSMTP     SMTPFactory
	logger      *zap.Logger
}

// MessagingDependencies bundles requirements for the messaging service.
type MessagingDependencies struct {
	HireRepo        repository.HireRepository
	AuditRepo       repository.AuditRepository
	Settings        *settings.Store
	WhatsAppFactory WhatsAppFactory
	GraphFactory    GraphMailFactory
	SMTPFactory     SMTPFactory
	Logger          *zap.Logger
}

// NewMessagingService constructs the service with default client factories.
func NewMessagingService(deps MessagingDependencies) *MessagingService {
	if deps.WhatsAppFactory == nil {
		deps.WhatsAppFactory = func(cfg settings.WhatsAppSettings) MessageSender {
			return whatsapp.NewClient(cfg)
		}
	}
	if deps.GraphFactory == nil {
		deps.GraphFactory = func(cfg settings.GraphSettings) MailSender {
			return graph.NewClient(cfg)
		}
	}
	if deps.SMTPFactory == nil {
		deps.SMTPFactory = mail.NewSMTPSender
	}
	return &MessagingService{
		hires:       deps.HireRepo,
		audits:      deps.AuditRepo,
		settings:    deps.Settings,
		newWhatsApp: deps.WhatsAppFactory,
		newGraph:    deps.GraphFactory,
		newSMTP:     deps.SMTPFactory,
		logger:      deps.Logger,
	}
}

// SendWhatsApp renders the welcome template for the hire and posts it to the
// send proxy. The recipient policy is read from settings at send time.
func (s *MessagingService) SendWhatsApp(ctx context.Context, hireID, performedBy string) (*SendOutcome, error) {
	doc := s.settings.Get()
	hire, err := s.hires.GetByID(ctx, hireID)
	if err != nil {
		return nil, err
	}

	client := s.newWhatsApp(doc.WhatsApp)
	recipient := client.Recipient(hire.PhoneNumber)
	message := messaging.Render(doc.WhatsApp.Template, messaging.HireFields(hire))

	if err := client.Send(ctx, recipient, message); err != nil {
		s.appendAudit(ctx, hireID, domain.AuditActionWhatsAppSent, domain.AuditError,
			fmt.Sprintf("whatsapp send failed: %v", err), performedBy)
		return nil, apperrors.NewUpstreamError("whatsapp", "whatsapp send failed", err)
	}

	s.appendAudit(ctx, hireID, domain.AuditActionWhatsAppSent, domain.AuditSuccess,
		fmt.Sprintf("whatsapp message sent to %s", recipient), performedBy)
	return &SendOutcome{HireID: hireID, Recipient: recipient, Transport: "whatsapp"}, nil
}

// SendLicenseRequest mails the license-request notification covering the
// selected hires, preferring Graph and falling back to SMTP.
func (s *MessagingService) SendLicenseRequest(ctx context.Context, hireIDs []string, to []string, performedBy string) (*SendOutcome, error) {
	if len(hireIDs) == 0 {
		return nil, apperrors.NewValidationError("no hires selected", nil)
	}

	doc := s.settings.Get()
	if len(to) == 0 {
		if doc.Graph.LicenseTo == "" {
			return nil, apperrors.NewValidationError("no recipient configured for license requests", nil)
		}
		to = []string{doc.Graph.LicenseTo}
	}

	hires := make([]domain.Hire, 0, len(hireIDs))
	for _, id := range hireIDs {
		hire, err := s.hires.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		hires = append(hires, *hire)
	}

	subject, body := mail.BuildLicenseRequest(doc.Templates, hires)

	transport := "graph"
	var sendErr error
	switch {
	case doc.Graph.Enabled:
		sendErr = s.newGraph(doc.Graph).SendMail(ctx, to, subject, body)
	case doc.SMTP.Enabled:
		transport = "smtp"
		sendErr = s.newSMTP(doc.SMTP).Send(to, subject, body)
	default:
		return nil, apperrors.NewValidationError(mail.ErrNotConfigured.Error(), nil)
	}

	if sendErr != nil {
		for _, hire := range hires {
			s.appendAudit(ctx, hire.ID, domain.AuditActionLicenseMailSent, domain.AuditError,
				fmt.Sprintf("license request mail failed: %v", sendErr), performedBy)
		}
		return nil, apperrors.NewUpstreamError(transport, "license request mail failed", sendErr)
	}

	for _, hire := range hires {
		s.appendAudit(ctx, hire.ID, domain.AuditActionLicenseMailSent, domain.AuditSuccess,
			fmt.Sprintf("license request sent for %s", hire.Microsoft365License), performedBy)
	}
	return &SendOutcome{Recipient: to[0], Transport: transport}, nil
}

func (s *MessagingService) appendAudit(ctx context.Context, hireID, action string, status domain.AuditStatus, message, performedBy string) {
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
