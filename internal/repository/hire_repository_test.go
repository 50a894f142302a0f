package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/mti-it/onboarding-service/internal/domain"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func hireRow(id string) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows([]string{
		"id", "name", "email", "title", "department", "phone_number",
		"account_creation_status", "laptop_ready", "license_assigned", "status_srf",
		"microsoft_365_license", "username", "password", "mailing_list",
		"dl_sync_status", "dl_sync_date", "srf_document_path", "srf_document_name",
		"srf_document_uploaded_at", "on_site_date", "created_at", "updated_at",
	}).AddRow(
		id, "Jane Doe", "jane@mti.example.com", "Metallurgist", "Copper Cathode Plant", "+62-811",
		domain.AccountStatusPending, domain.LaptopPending, false, false,
		"None", "jane@mti.example.com", "J@n3123!", []string{"ml-all"},
		(*domain.SyncStatus)(nil), (*time.Time)(nil), (*string)(nil), (*string)(nil),
		(*time.Time)(nil), now, now, now,
	)
}

func TestHireRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM hires WHERE id=\\$1").
		WithArgs("hire-1").
		WillReturnRows(hireRow("hire-1"))

	hire, err := repo.GetByID(context.Background(), "hire-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if hire.ID != "hire-1" || hire.Name != "Jane Doe" {
		t.Fatalf("unexpected hire %+v", hire)
	}
	if len(hire.MailingList) != 1 || hire.MailingList[0] != "ml-all" {
		t.Fatalf("unexpected mailing list %v", hire.MailingList)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHireRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM hires WHERE id=\\$1").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestHireRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM hires WHERE id=$1`)).
		WithArgs("hire-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "hire-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHireRepository_Delete_MissingRowIsNoRows(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM hires WHERE id=$1`)).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestHireRepository_UpdateFields_SortsAssignments(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	// Field names are sorted, so placeholders are stable regardless of map
	// iteration order.
	query := regexp.QuoteMeta(
		"UPDATE hires SET laptop_ready=$1, username=$2, updated_at=NOW() WHERE id=$3")
	mock.ExpectExec(query).
		WithArgs("Ready", "jane.doe", "hire-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateFields(context.Background(), "hire-1", map[string]any{
		"username":     "jane.doe",
		"laptop_ready": "Ready",
	})
	if err != nil {
		t.Fatalf("UpdateFields returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHireRepository_UpdateFields_OnSiteDateIsUpdatable(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	corrected := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(
		"UPDATE hires SET on_site_date=$1, updated_at=NOW() WHERE id=$2")
	mock.ExpectExec(query).
		WithArgs(corrected, "hire-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateFields(context.Background(), "hire-1", map[string]any{
		"on_site_date": corrected,
	})
	if err != nil {
		t.Fatalf("UpdateFields returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHireRepository_UpdateFields_RejectsUnknownField(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	err := repo.UpdateFields(context.Background(), "hire-1", map[string]any{
		"id": "evil",
	})
	if err == nil {
		t.Fatal("expected error for non-updatable field")
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %s", domainErr.Code)
	}
	// Nothing must reach the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database calls: %v", err)
	}
}

func TestHireRepository_UpdateFields_EmptyMapIsNoOp(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	if err := repo.UpdateFields(context.Background(), "hire-1", nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestHireRepository_SetSyncResult(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHireRepository(mock)

	at := time.Now()
	mock.ExpectExec("UPDATE hires SET dl_sync_status=\\$1, dl_sync_date=\\$2, updated_at=NOW\\(\\)").
		WithArgs(domain.SyncStatusPartial, at, "hire-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetSyncResult(context.Background(), "hire-1", domain.SyncStatusPartial, at); err != nil {
		t.Fatalf("SetSyncResult returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
