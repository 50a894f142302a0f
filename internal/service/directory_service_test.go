package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/directory"
	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/settings"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

type fakeDirectoryClient struct {
	mu           sync.Mutex
	createErr    error
	groupWarning error
	created      []directory.AccountSpec
	passwords    []string
	searchHits   []directory.DirectoryUser
	searchErr    error
}

func (c *fakeDirectoryClient) CreateAccount(spec directory.AccountSpec, password string) (error, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, spec)
	c.passwords = append(c.passwords, password)
	return c.groupWarning, nil
}

func (c *fakeDirectoryClient) Search(string, int) ([]directory.DirectoryUser, error) {
	return c.searchHits, c.searchErr
}

func directoryTestSettings(t *testing.T) *settings.Store {
	return newTestSettings(t, func(doc *settings.Document) {
		doc.ActiveDirectory.Enabled = true
		doc.ActiveDirectory.BaseDN = "DC=mti,DC=local"
	})
}

func newTestDirectoryService(t *testing.T, hires *fakeHireRepo, audits *fakeAuditRepo, store *settings.Store, client DirectoryClient) *DirectoryService {
	t.Helper()
	return NewDirectoryService(DirectoryDependencies{
		HireRepo:  hires,
		AuditRepo: audits,
		Settings:  store,
		ClientFactory: func(settings.ActiveDirectorySettings) DirectoryClient {
			return client
		},
		Logger:      zap.NewNop(),
		WorkerLimit: 2,
	})
}

func TestCreateAccount_Success(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{
		Name:       "Jane Doe",
		Email:      "jane.doe@mti.example.com",
		Department: "Copper Cathode Plant",
		Password:   "J@n3123!",
	})
	client := &fakeDirectoryClient{}
	audits := &fakeAuditRepo{}
	svc := newTestDirectoryService(t, hires, audits, directoryTestSettings(t), client)

	result, err := svc.CreateAccount(context.Background(), hire.ID, "", "admin")
	require.NoError(t, err)

	assert.Equal(t, domain.AccountStatusActive, result.Status)
	assert.Empty(t, result.Warning)
	require.Len(t, client.created, 1)
	assert.Equal(t, "jane.doe@mti.example", client.created[0].Username)
	assert.Equal(t, []string{"J@n3123!"}, client.passwords)

	stored, err := hires.GetByID(context.Background(), hire.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusActive, stored.AccountCreationStatus)
	assert.Equal(t, "jane.doe@mti.example", stored.Username)

	entries := audits.byAction(domain.AuditActionAccountCreated)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditSuccess, entries[0].Status)
}

func TestCreateAccount_PasswordOverrideWins(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{
		Name: "A", Email: "a@b.c", Department: "Finance", Password: "stored",
	})
	client := &fakeDirectoryClient{}
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, directoryTestSettings(t), client)

	_, err := svc.CreateAccount(context.Background(), hire.ID, "Manual1!", "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"Manual1!"}, client.passwords)
}

func TestCreateAccount_NoPasswordRejected(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{Name: "A", Email: "a@b.c", Department: "Finance"})
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, directoryTestSettings(t), &fakeDirectoryClient{})

	_, err := svc.CreateAccount(context.Background(), hire.ID, "", "admin")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCreateAccount_BindErrorBecomesUpstream(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{Name: "A", Email: "a@b.c", Department: "Finance", Password: "pw"})
	client := &fakeDirectoryClient{
		createErr: &directory.BindError{Kind: directory.BindInvalidCredentials, Err: errors.New("49")},
	}
	audits := &fakeAuditRepo{}
	svc := newTestDirectoryService(t, hires, audits, directoryTestSettings(t), client)

	_, err := svc.CreateAccount(context.Background(), hire.ID, "", "admin")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "UPSTREAM_ERROR", domainErr.Code)
	assert.Equal(t, "active_directory", domainErr.Details["system"])

	entries := audits.byAction(domain.AuditActionAccountCreated)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditError, entries[0].Status)

	stored, _ := hires.GetByID(context.Background(), hire.ID)
	assert.Equal(t, domain.AccountCreationStatus(""), stored.AccountCreationStatus)
}

func TestCreateAccount_GroupWarningStillSucceeds(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{Name: "A", Email: "a@b.c", Department: "Finance", Password: "pw"})
	client := &fakeDirectoryClient{groupWarning: errors.New("group ACL MTI Finance not found")}
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, directoryTestSettings(t), client)

	result, err := svc.CreateAccount(context.Background(), hire.ID, "", "admin")
	require.NoError(t, err)
	assert.Contains(t, result.Warning, "group assignment failed")
	assert.Equal(t, domain.AccountStatusActive, result.Status)
}

func TestCreateAccount_DisabledIntegrationRejected(t *testing.T) {
	hires := newFakeHireRepo()
	hire := hires.add(&domain.Hire{Name: "A", Email: "a@b.c", Department: "Finance", Password: "pw"})
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, newTestSettings(t, nil), &fakeDirectoryClient{})

	_, err := svc.CreateAccount(context.Background(), hire.ID, "", "admin")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestBulkCreate_ReportsPerItemOutcomes(t *testing.T) {
	hires := newFakeHireRepo()
	a := hires.add(&domain.Hire{Name: "A", Email: "a@b.c", Department: "Finance", Password: "pw"})
	b := hires.add(&domain.Hire{Name: "B", Email: "b@b.c", Department: "Finance"}) // no password
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, directoryTestSettings(t), &fakeDirectoryClient{})

	result := svc.BulkCreate(context.Background(), []string{a.ID, b.ID, "missing"}, "", "admin")

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
	assert.False(t, result.Items[2].Success)
}

func TestBulkCreate_PasswordOverrideAppliesToEveryItem(t *testing.T) {
	hires := newFakeHireRepo()
	a := hires.add(&domain.Hire{Name: "A", Email: "a@b.c", Department: "Finance"}) // no stored password
	b := hires.add(&domain.Hire{Name: "B", Email: "b@b.c", Department: "Finance"})
	client := &fakeDirectoryClient{}
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, directoryTestSettings(t), client)

	result := svc.BulkCreate(context.Background(), []string{a.ID, b.ID}, "Winter2026!", "admin")

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, client.passwords, 2)
	for _, password := range client.passwords {
		assert.Equal(t, "Winter2026!", password)
	}
}

func TestSearch_DegradesToEmptyListWithError(t *testing.T) {
	hires := newFakeHireRepo()
	client := &fakeDirectoryClient{searchErr: errors.New("server unreachable")}
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, directoryTestSettings(t), client)

	users, errMsg := svc.Search(context.Background(), "doe", 10)
	assert.Empty(t, users)
	assert.Equal(t, "server unreachable", errMsg)
}

func TestSearch_ReturnsHits(t *testing.T) {
	hires := newFakeHireRepo()
	client := &fakeDirectoryClient{searchHits: []directory.DirectoryUser{
		{Name: "Jane Doe [MTI]", Username: "jane.doe@mti.example"},
	}}
	svc := newTestDirectoryService(t, hires, &fakeAuditRepo{}, directoryTestSettings(t), client)

	users, errMsg := svc.Search(context.Background(), "jane", 10)
	assert.Empty(t, errMsg)
	require.Len(t, users, 1)
	assert.Equal(t, "jane.doe@mti.example", users[0].Username)
}
