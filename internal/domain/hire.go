package domain

import "time"

// AccountCreationStatus tracks the directory-account lifecycle for a hire.
// The allowed set is configurable through settings; these are the defaults.
type AccountCreationStatus string

const (
	AccountStatusPending   AccountCreationStatus = "Pending"
	AccountStatusActive    AccountCreationStatus = "Active"
	AccountStatusInactive  AccountCreationStatus = "Inactive"
	AccountStatusSuspended AccountCreationStatus = "Suspended"
)

// LaptopStatus tracks hardware preparation.
type LaptopStatus string

const (
	LaptopPending    LaptopStatus = "Pending"
	LaptopInProgress LaptopStatus = "In Progress"
	LaptopReady      LaptopStatus = "Ready"
	LaptopDone       LaptopStatus = "Done"
)

// SyncStatus is the aggregate distribution-list sync outcome.
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "Synced"
	SyncStatusPartial SyncStatus = "Partial"
	SyncStatusFailed  SyncStatus = "Failed"
)

// Hire is the central onboarding record.
type Hire struct {
	ID          string
	Name        string
	Email       string
	Title       string
	Department  string
	PhoneNumber string

	AccountCreationStatus AccountCreationStatus
	LaptopReady           LaptopStatus
	LicenseAssigned       bool
	StatusSRF             bool
	Microsoft365License   string

	// Generated provisioning hand-off credentials, advisory only.
	Username string
	Password string

	MailingList    []string
	DLSyncStatus   *SyncStatus
	DLSyncDate     *time.Time
	SRFDocPath     *string
	SRFDocName     *string
	SRFDocUploaded *time.Time

	OnSiteDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Progress weights for the onboarding checklist. Each item contributes up to
// 20 points; partial states score partial credit.
const progressItemWeight = 20

// Progress returns the completion percentage for the hire's checklist.
// It is a pure function of the status fields and is recomputed on every read,
// never stored.
func (h *Hire) Progress() int {
	score := 0

	if h.AccountCreationStatus == AccountStatusActive {
		score += progressItemWeight
	}
	if h.LicenseAssigned {
		score += progressItemWeight
	}
	if h.StatusSRF {
		score += progressItemWeight
	}

	switch h.LaptopReady {
	case LaptopDone:
		score += progressItemWeight
	case LaptopReady:
		score += 15
	case LaptopInProgress:
		score += 10
	}

	if h.DLSyncStatus != nil {
		switch *h.DLSyncStatus {
		case SyncStatusSynced:
			score += progressItemWeight
		case SyncStatusPartial:
			score += progressItemWeight / 2
		}
	}

	return score
}

// AggregateSyncStatus derives the stored sync status from per-list outcomes.
// All successes yield Synced, a mix yields Partial, zero successes (including
// zero attempts) yield Failed.
func AggregateSyncStatus(succeeded, failed int) SyncStatus {
	switch {
	case succeeded > 0 && failed == 0:
		return SyncStatusSynced
	case succeeded > 0:
		return SyncStatusPartial
	default:
		return SyncStatusFailed
	}
}
