package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/settings"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

type fakeMessageSender struct {
	recipientOverride string
	sendErr           error
	sentTo            string
	sentMessage       string
}

func (s *fakeMessageSender) Recipient(hireNumber string) string {
	if s.recipientOverride != "" {
		return s.recipientOverride
	}
	return hireNumber
}

func (s *fakeMessageSender) Send(_ context.Context, recipient, message string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sentTo = recipient
	s.sentMessage = message
	return nil
}

type fakeMailSender struct {
	sendErr error
	to      []string
	subject string
}

func (s *fakeMailSender) SendMail(_ context.Context, to []string, subject, _ string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.to = to
	s.subject = subject
	return nil
}

func newMessagingService(t *testing.T, hires *fakeHireRepo, audits *fakeAuditRepo, store *settings.Store, wa *fakeMessageSender, graph *fakeMailSender) *MessagingService {
	t.Helper()
	return NewMessagingService(MessagingDependencies{
		HireRepo:  hires,
		AuditRepo: audits,
		Settings:  store,
		WhatsAppFactory: func(settings.WhatsAppSettings) MessageSender {
			return wa
		},
		GraphFactory: func(settings.GraphSettings) MailSender {
			return graph
		},
		Logger: zap.NewNop(),
	})
}

func TestSendWhatsApp_RendersTemplateAndAudits(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{
		Name:        "Jane Doe",
		Department:  "Engineering",
		PhoneNumber: "+628111",
		Username:    "jane.doe",
		Password:    "J@n3123!",
	})
	store := newTestSettings(t, func(doc *settings.Document) {
		doc.WhatsApp.Template = "Hi {{name}}, login {{username}}"
	})
	wa := &fakeMessageSender{}
	audits := &fakeAuditRepo{}
	svc := newMessagingService(t, hires, audits, store, wa, &fakeMailSender{})

	outcome, err := svc.SendWhatsApp(context.Background(), hire.ID, "operator")
	require.NoError(t, err)

	assert.Equal(t, "+628111", outcome.Recipient)
	assert.Equal(t, "whatsapp", outcome.Transport)
	assert.Equal(t, "Hi Jane Doe, login jane.doe", wa.sentMessage)

	entries := audits.byAction(domain.AuditActionWhatsAppSent)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditSuccess, entries[0].Status)
}

func TestSendWhatsApp_FailureAuditsError(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{Name: "A", PhoneNumber: "+628111"})
	wa := &fakeMessageSender{sendErr: errors.New("proxy down")}
	audits := &fakeAuditRepo{}
	svc := newMessagingService(t, hires, audits, newTestSettings(t, nil), wa, &fakeMailSender{})

	_, err := svc.SendWhatsApp(context.Background(), hire.ID, "operator")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "UPSTREAM_ERROR", domainErr.Code)
	assert.Equal(t, "whatsapp", domainErr.Details["system"])

	entries := audits.byAction(domain.AuditActionWhatsAppSent)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditError, entries[0].Status)
}

func TestSendLicenseRequest_PrefersGraphAndDefaultsRecipient(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{Name: "A", Microsoft365License: "Microsoft 365 E3"})
	store := newTestSettings(t, func(doc *settings.Document) {
		doc.Graph.Enabled = true
		doc.Graph.LicenseTo = "licensing@mti.example.com"
	})
	graph := &fakeMailSender{}
	audits := &fakeAuditRepo{}
	svc := newMessagingService(t, hires, audits, store, &fakeMessageSender{}, graph)

	outcome, err := svc.SendLicenseRequest(context.Background(), []string{hire.ID}, nil, "operator")
	require.NoError(t, err)

	assert.Equal(t, "graph", outcome.Transport)
	assert.Equal(t, []string{"licensing@mti.example.com"}, graph.to)
	assert.Len(t, audits.byAction(domain.AuditActionLicenseMailSent), 1)
}

func TestSendLicenseRequest_NoTransportConfigured(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{Name: "A"})
	store := newTestSettings(t, func(doc *settings.Document) {
		doc.Graph.LicenseTo = "licensing@mti.example.com"
	})
	svc := newMessagingService(t, hires, &fakeAuditRepo{}, store, &fakeMessageSender{}, &fakeMailSender{})

	_, err := svc.SendLicenseRequest(context.Background(), []string{hire.ID}, nil, "operator")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestSendLicenseRequest_NoHiresRejected(t *testing.T) {
	svc := newMessagingService(t, newFakeHireRepo(), &fakeAuditRepo{}, newTestSettings(t, nil), &fakeMessageSender{}, &fakeMailSender{})

	_, err := svc.SendLicenseRequest(context.Background(), nil, nil, "operator")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}
