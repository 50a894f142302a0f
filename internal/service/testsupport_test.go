package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/persistence"
	"github.com/mti-it/onboarding-service/internal/settings"
)

// fakeHireRepo is an in-memory HireRepository. Bulk operations run
// concurrently, so every method locks.
type fakeHireRepo struct {
	mu    sync.Mutex
	seq   int
	hires map[string]*domain.Hire
}

func newFakeHireRepo() *fakeHireRepo {
	return &fakeHireRepo{hires: map[string]*domain.Hire{}}
}

func (r *fakeHireRepo) add(hire *domain.Hire) *domain.Hire {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if hire.ID == "" {
		hire.ID = fmt.Sprintf("hire-%d", r.seq)
	}
	hire.CreatedAt = time.Now()
	hire.UpdatedAt = hire.CreatedAt
	copied := *hire
	r.hires[hire.ID] = &copied
	return hire
}

func (r *fakeHireRepo) Create(_ context.Context, hire *domain.Hire) error {
	r.add(hire)
	return nil
}

func (r *fakeHireRepo) Update(_ context.Context, hire *domain.Hire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hires[hire.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *hire
	r.hires[hire.ID] = &copied
	return nil
}

func (r *fakeHireRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	hire, ok := r.hires[id]
	if !ok {
		return pgx.ErrNoRows
	}
	for name, value := range fields {
		switch name {
		case "account_creation_status":
			hire.AccountCreationStatus = domain.AccountCreationStatus(value.(string))
		case "laptop_ready":
			hire.LaptopReady = domain.LaptopStatus(value.(string))
		case "username":
			hire.Username = value.(string)
		case "password":
			hire.Password = value.(string)
		case "microsoft_365_license":
			hire.Microsoft365License = value.(string)
		case "license_assigned":
			hire.LicenseAssigned = value.(bool)
		case "status_srf":
			hire.StatusSRF = value.(bool)
		case "mailing_list":
			hire.MailingList = value.([]string)
		case "name":
			hire.Name = value.(string)
		case "email":
			hire.Email = value.(string)
		case "title":
			hire.Title = value.(string)
		case "department":
			hire.Department = value.(string)
		case "phone_number":
			hire.PhoneNumber = value.(string)
		case "on_site_date":
			hire.OnSiteDate = value.(time.Time)
		}
	}
	hire.UpdatedAt = time.Now()
	return nil
}

func (r *fakeHireRepo) SetSyncResult(_ context.Context, id string, status domain.SyncStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	hire, ok := r.hires[id]
	if !ok {
		return pgx.ErrNoRows
	}
	hire.DLSyncStatus = &status
	hire.DLSyncDate = &at
	return nil
}

func (r *fakeHireRepo) SetSRFDocument(_ context.Context, id, path, name string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	hire, ok := r.hires[id]
	if !ok {
		return pgx.ErrNoRows
	}
	hire.SRFDocPath = &path
	hire.SRFDocName = &name
	hire.SRFDocUploaded = &at
	hire.StatusSRF = true
	return nil
}

func (r *fakeHireRepo) GetByID(_ context.Context, id string) (*domain.Hire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hire, ok := r.hires[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *hire
	return &copied, nil
}

func (r *fakeHireRepo) List(_ context.Context) ([]domain.Hire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Hire, 0, len(r.hires))
	for _, hire := range r.hires {
		out = append(out, *hire)
	}
	return out, nil
}

func (r *fakeHireRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hires[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.hires, id)
	return nil
}

// fakeAuditRepo records appended entries in order.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = fmt.Sprintf("audit-%d", len(r.entries)+1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByHire(_ context.Context, hireID string) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].HireID == hireID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) byAction(action string) []domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEntry, 0)
	for _, entry := range r.entries {
		if entry.ActionType == action {
			out = append(out, entry)
		}
	}
	return out
}

// newTestSettings builds a store over a throwaway file, applying mutate to
// the defaults.
func newTestSettings(t *testing.T, mutate func(*settings.Document)) *settings.Store {
	t.Helper()
	store, err := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	if mutate != nil {
		_, err = store.Update(store.Get().Version, mutate)
		require.NoError(t, err)
	}
	return store
}

// fakeListCache captures cache traffic so tests can assert warm hits and
// invalidation without a Redis server.
type fakeListCache struct {
	mu            sync.Mutex
	payload       []byte
	sets          int
	invalidations int
}

func (c *fakeListCache) Get(context.Context) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil {
		return nil, false
	}
	return c.payload, true
}

func (c *fakeListCache) Set(_ context.Context, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = payload
	c.sets++
}

func (c *fakeListCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = nil
	c.invalidations++
}

func (c *fakeListCache) invalidationCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

func newTestHireService(t *testing.T, hires *fakeHireRepo, audits *fakeAuditRepo, store *settings.Store) *HireService {
	t.Helper()
	return newTestHireServiceWithCache(t, hires, audits, store, persistence.NewHireListCache(nil, 0))
}

func newTestHireServiceWithCache(t *testing.T, hires *fakeHireRepo, audits *fakeAuditRepo, store *settings.Store, cache ListCache) *HireService {
	t.Helper()
	return NewHireService(HireDependencies{
		HireRepo:    hires,
		AuditRepo:   audits,
		Settings:    store,
		Cache:       cache,
		Logger:      zap.NewNop(),
		WorkerLimit: 2,
	})
}
