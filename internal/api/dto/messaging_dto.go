package dto

// LicenseMailRequest selects hires and optional recipients for the
// license-request notification. When To is empty the configured default
// recipient is used.
type LicenseMailRequest struct {
	HireIDs []string `json:"hire_ids"`
	To      []string `json:"to"`
}
