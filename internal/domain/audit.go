package domain

import "time"

// AuditStatus classifies the outcome recorded by an audit entry.
type AuditStatus string

const (
	AuditSuccess AuditStatus = "SUCCESS"
	AuditError   AuditStatus = "ERROR"
	AuditWarning AuditStatus = "WARNING"
	AuditInfo    AuditStatus = "INFO"
)

// Audit action types written by the services.
const (
	AuditActionHireCreated      = "hire_created"
	AuditActionHireUpdated      = "hire_updated"
	AuditActionHireDeleted      = "hire_deleted"
	AuditActionAccountCreated   = "ad_account_created"
	AuditActionDistributionSync = "distribution_sync"
	AuditActionWhatsAppSent     = "whatsapp_sent"
	AuditActionLicenseMailSent  = "license_mail_sent"
	AuditActionSRFUploaded      = "srf_document_uploaded"
)

// AuditEntry is an immutable record of an action taken against a hire.
// Entries are appended by the services and never updated or deleted.
type AuditEntry struct {
	ID          string
	HireID      string
	ActionType  string
	Status      AuditStatus
	Message     string
	PerformedBy string
	CreatedAt   time.Time
}
