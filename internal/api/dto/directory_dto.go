package dto

import "github.com/mti-it/onboarding-service/internal/directory"

// VerifyBindRequest checks a set of directory credentials without saving them.
type VerifyBindRequest struct {
	URL          string `json:"url"`
	BaseDN       string `json:"base_dn"`
	Domain       string `json:"domain"`
	BindUsername string `json:"bind_username"`
	BindPassword string `json:"bind_password"`
	BindFormat   string `json:"bind_format"`
}

// CreateAccountRequest provisions a directory account for one hire.
// Password overrides the hire's stored advisory password when set.
type CreateAccountRequest struct {
	HireID   string `json:"hire_id"`
	Password string `json:"password"`
}

// BulkCreateAccountsRequest fans account creation out over many hires.
type BulkCreateAccountsRequest struct {
	IDs      []string `json:"ids"`
	Password string   `json:"password"`
}

// AccountPreviewResponse shows the derived directory attributes for a hire
// before anything is written.
type AccountPreviewResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	OUPath      string `json:"ou_path"`
	GroupName   string `json:"group_name"`
	UPN         string `json:"user_principal_name"`
}

// DirectorySearchResponse degrades gracefully: on upstream failure Users is
// empty and Error carries the reason.
type DirectorySearchResponse struct {
	Users []directory.DirectoryUser `json:"users"`
	Error string                    `json:"error,omitempty"`
}
