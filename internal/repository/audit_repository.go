package repository

import (
	"context"

	"github.com/mti-it/onboarding-service/internal/domain"
)

// AuditRepository appends and reads audit entries. Entries are immutable;
// there is deliberately no update or delete.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByHire(ctx context.Context, hireID string) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool Queryer
}

// NewAuditRepository returns a Postgres-backed implementation.
func NewAuditRepository(pool Queryer) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_entries (hire_id, action_type, status, message, performed_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.HireID,
		entry.ActionType,
		entry.Status,
		entry.Message,
		entry.PerformedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByHire(ctx context.Context, hireID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, hire_id, action_type, status, message, performed_by, created_at
        FROM audit_entries WHERE hire_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, hireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.HireID,
			&entry.ActionType,
			&entry.Status,
			&entry.Message,
			&entry.PerformedBy,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
