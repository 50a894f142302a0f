package dto

import "github.com/mti-it/onboarding-service/internal/settings"

// Every settings write carries the document version the caller last read.
// The store rejects stale versions so concurrent editors cannot silently
// overwrite each other.

// AccountStatusesRequest payload.
type AccountStatusesRequest struct {
	Version         int      `json:"version"`
	AccountStatuses []string `json:"account_statuses"`
}

// DepartmentsRequest payload.
type DepartmentsRequest struct {
	Version     int                   `json:"version"`
	Departments []settings.Department `json:"departments"`
}

// MailingListsRequest payload.
type MailingListsRequest struct {
	Version      int                    `json:"version"`
	MailingLists []settings.MailingList `json:"mailing_lists"`
}

// LicenseTypesRequest payload.
type LicenseTypesRequest struct {
	Version      int                    `json:"version"`
	LicenseTypes []settings.LicenseType `json:"license_types"`
}

// ActiveDirectoryRequest payload.
type ActiveDirectoryRequest struct {
	Version         int                               `json:"version"`
	ActiveDirectory settings.ActiveDirectorySettings `json:"active_directory"`
}

// GraphRequest payload.
type GraphRequest struct {
	Version int                    `json:"version"`
	Graph   settings.GraphSettings `json:"graph"`
}

// SMTPRequest payload.
type SMTPRequest struct {
	Version int                   `json:"version"`
	SMTP    settings.SMTPSettings `json:"smtp"`
}

// WhatsAppRequest payload.
type WhatsAppRequest struct {
	Version  int                       `json:"version"`
	WhatsApp settings.WhatsAppSettings `json:"whatsapp"`
}

// HRISRequest payload.
type HRISRequest struct {
	Version int                           `json:"version"`
	HRIS    settings.HRISDatabaseSettings `json:"hris"`
}

// TemplatesRequest payload.
type TemplatesRequest struct {
	Version   int                `json:"version"`
	Templates settings.Templates `json:"templates"`
}
