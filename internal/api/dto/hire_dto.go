package dto

import (
	"time"

	"github.com/mti-it/onboarding-service/internal/domain"
)

// CreateHireRequest payload.
type CreateHireRequest struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Title               string   `json:"title"`
	Department          string   `json:"department"`
	PhoneNumber         string   `json:"phone_number"`
	Microsoft365License string   `json:"microsoft_365_license"`
	MailingList         []string `json:"mailing_list"`
	OnSiteDate          string   `json:"on_site_date"` // YYYY-MM-DD
}

// BulkUpdateRequest applies the same field assignments to every selected id.
type BulkUpdateRequest struct {
	IDs    []string       `json:"ids"`
	Fields map[string]any `json:"fields"`
}

// BulkDeleteRequest payload.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// HireResponse is the full hire record plus the derived progress value.
type HireResponse struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	Email                 string             `json:"email"`
	Title                 string             `json:"title"`
	Department            string             `json:"department"`
	PhoneNumber           string             `json:"phone_number"`
	AccountCreationStatus string             `json:"account_creation_status"`
	LaptopReady           string             `json:"laptop_ready"`
	LicenseAssigned       bool               `json:"license_assigned"`
	StatusSRF             bool               `json:"status_srf"`
	Microsoft365License   string             `json:"microsoft_365_license"`
	Username              string             `json:"username"`
	Password              string             `json:"password"`
	MailingList           []string           `json:"mailing_list"`
	DLSyncStatus          *domain.SyncStatus `json:"distribution_list_sync_status"`
	DLSyncDate            *time.Time         `json:"distribution_list_sync_date"`
	SRFDocumentPath       *string            `json:"srf_document_path"`
	SRFDocumentName       *string            `json:"srf_document_name"`
	SRFDocumentUploadedAt *time.Time         `json:"srf_document_uploaded_at"`
	OnSiteDate            string             `json:"on_site_date"`
	ProgressPercentage    int                `json:"progress_percentage"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// AuditEntryResponse is one immutable audit row.
type AuditEntryResponse struct {
	ID          string    `json:"id"`
	ActionType  string    `json:"action_type"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// FromHire maps a domain hire to its response shape.
func FromHire(h *domain.Hire) HireResponse {
	mailing := h.MailingList
	if mailing == nil {
		mailing = []string{}
	}
	return HireResponse{
		ID:                    h.ID,
		Name:                  h.Name,
		Email:                 h.Email,
		Title:                 h.Title,
		Department:            h.Department,
		PhoneNumber:           h.PhoneNumber,
		AccountCreationStatus: string(h.AccountCreationStatus),
		LaptopReady:           string(h.LaptopReady),
		LicenseAssigned:       h.LicenseAssigned,
		StatusSRF:             h.StatusSRF,
		Microsoft365License:   h.Microsoft365License,
		Username:              h.Username,
		Password:              h.Password,
		MailingList:           mailing,
		DLSyncStatus:          h.DLSyncStatus,
		DLSyncDate:            h.DLSyncDate,
		SRFDocumentPath:       h.SRFDocPath,
		SRFDocumentName:       h.SRFDocName,
		SRFDocumentUploadedAt: h.SRFDocUploaded,
		OnSiteDate:            h.OnSiteDate.Format("2006-01-02"),
		ProgressPercentage:    h.Progress(),
		CreatedAt:             h.CreatedAt,
		UpdatedAt:             h.UpdatedAt,
	}
}

// FromAuditEntry maps one audit row.
func FromAuditEntry(e *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:          e.ID,
		ActionType:  e.ActionType,
		Status:      string(e.Status),
		Message:     e.Message,
		PerformedBy: e.PerformedBy,
		Timestamp:   e.CreatedAt,
	}
}
