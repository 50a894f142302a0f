package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mti-it/onboarding-service/internal/domain"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

const hireColumns = `id, name, email, title, department, phone_number,
               account_creation_status, laptop_ready, license_assigned, status_srf,
               microsoft_365_license, username, password, mailing_list,
               dl_sync_status, dl_sync_date, srf_document_path, srf_document_name,
               srf_document_uploaded_at, on_site_date, created_at, updated_at`

// Columns assignable through UpdateFields, keyed by API field name.
var hireUpdatableColumns = map[string]string{
	"name":                    "name",
	"email":                   "email",
	"title":                   "title",
	"department":              "department",
	"phone_number":            "phone_number",
	"account_creation_status": "account_creation_status",
	"laptop_ready":            "laptop_ready",
	"license_assigned":        "license_assigned",
	"status_srf":              "status_srf",
	"microsoft_365_license":   "microsoft_365_license",
	"username":                "username",
	"password":                "password",
	"mailing_list":            "mailing_list",
	"on_site_date":            "on_site_date",
}

// HireRepository encapsulates hire persistence.
type HireRepository interface {
	Create(ctx context.Context, hire *domain.Hire) error
	Update(ctx context.Context, hire *domain.Hire) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	SetSyncResult(ctx context.Context, id string, status domain.SyncStatus, at time.Time) error
	SetSRFDocument(ctx context.Context, id, path, name string, at time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Hire, error)
	List(ctx context.Context) ([]domain.Hire, error)
	Delete(ctx context.Context, id string) error
}

type hireRepository struct {
	pool Queryer
}

// NewHireRepository returns a Postgres-backed implementation.
func NewHireRepository(pool Queryer) HireRepository {
	return &hireRepository{pool: pool}
}

func (r *hireRepository) Create(ctx context.Context, hire *domain.Hire) error {
	const query = `
        INSERT INTO hires (name, email, title, department, phone_number,
            account_creation_status, laptop_ready, license_assigned, status_srf,
            microsoft_365_license, username, password, mailing_list, on_site_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		hire.Name,
		hire.Email,
		hire.Title,
		hire.Department,
		hire.PhoneNumber,
		hire.AccountCreationStatus,
		hire.LaptopReady,
		hire.LicenseAssigned,
		hire.StatusSRF,
		hire.Microsoft365License,
		hire.Username,
		hire.Password,
		hire.MailingList,
		hire.OnSiteDate,
	).Scan(&hire.ID, &hire.CreatedAt, &hire.UpdatedAt)
}

func (r *hireRepository) Update(ctx context.Context, hire *domain.Hire) error {
	const query = `
        UPDATE hires SET name=$1, email=$2, title=$3, department=$4, phone_number=$5,
            account_creation_status=$6, laptop_ready=$7, license_assigned=$8, status_srf=$9,
            microsoft_365_license=$10, username=$11, password=$12, mailing_list=$13,
            on_site_date=$14, updated_at=NOW()
        WHERE id=$15`
	cmd, err := r.pool.Exec(ctx, query,
		hire.Name,
		hire.Email,
		hire.Title,
		hire.Department,
		hire.PhoneNumber,
		hire.AccountCreationStatus,
		hire.LaptopReady,
		hire.LicenseAssigned,
		hire.StatusSRF,
		hire.Microsoft365License,
		hire.Username,
		hire.Password,
		hire.MailingList,
		hire.OnSiteDate,
		hire.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateFields applies a partial assignment of whitelisted columns.
// Unknown field names are rejected before touching the database.
func (r *hireRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := hireUpdatableColumns[name]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("field %q is not updatable", name), map[string]any{
				"field": name,
			})
		}
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+1)
	for _, name := range names {
		args = append(args, fields[name])
		assignments = append(assignments, fmt.Sprintf("%s=$%d", hireUpdatableColumns[name], len(args)))
	}
	assignments = append(assignments, "updated_at=NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE hires SET %s WHERE id=$%d", strings.Join(assignments, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hireRepository) SetSyncResult(ctx context.Context, id string, status domain.SyncStatus, at time.Time) error {
	const query = `
        UPDATE hires SET dl_sync_status=$1, dl_sync_date=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hireRepository) SetSRFDocument(ctx context.Context, id, path, name string, at time.Time) error {
	const query = `
        UPDATE hires SET srf_document_path=$1, srf_document_name=$2,
            srf_document_uploaded_at=$3, status_srf=TRUE, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, path, name, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hireRepository) GetByID(ctx context.Context, id string) (*domain.Hire, error) {
	query := `
        SELECT ` + hireColumns + `
        FROM hires WHERE id=$1`

	var hire domain.Hire
	if err := scanHire(r.pool.QueryRow(ctx, query, id), &hire); err != nil {
		return nil, err
	}
	return &hire, nil
}

func (r *hireRepository) List(ctx context.Context) ([]domain.Hire, error) {
	query := `
        SELECT ` + hireColumns + `
        FROM hires ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Hire
	for rows.Next() {
		var hire domain.Hire
		if err := scanHire(rows, &hire); err != nil {
			return nil, err
		}
		result = append(result, hire)
	}
	return result, rows.Err()
}

func (r *hireRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM hires WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanHire(row pgx.Row, hire *domain.Hire) error {
	return row.Scan(
		&hire.ID,
		&hire.Name,
		&hire.Email,
		&hire.Title,
		&hire.Department,
		&hire.PhoneNumber,
		&hire.AccountCreationStatus,
		&hire.LaptopReady,
		&hire.LicenseAssigned,
		&hire.StatusSRF,
		&hire.Microsoft365License,
		&hire.Username,
		&hire.Password,
		&hire.MailingList,
		&hire.DLSyncStatus,
		&hire.DLSyncDate,
		&hire.SRFDocPath,
		&hire.SRFDocName,
		&hire.SRFDocUploaded,
		&hire.OnSiteDate,
		&hire.CreatedAt,
		&hire.UpdatedAt,
	)
}
