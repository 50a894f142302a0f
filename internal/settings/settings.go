package settings

// MaskedSecret is the placeholder returned in place of stored secrets.
// A client submitting it back unchanged keeps the stored value.
const MaskedSecret = "••••••••"

// Department is a configured organizational unit.
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// MailingList is one entry of the distribution-list catalog.
type MailingList struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Mandatory bool   `json:"mandatory"`
}

// LicenseType names an assignable Microsoft 365 license.
type LicenseType struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// ActiveDirectorySettings configures the LDAP integration.
type ActiveDirectorySettings struct {
	Enabled      bool   `json:"enabled"`
	URL          string `json:"url"` // ldap:// or ldaps://
	BaseDN       string `json:"base_dn"`
	Domain       string `json:"domain"`
	Organization string `json:"organization"`
	BindUsername string `json:"bind_username"`
	BindPassword string `json:"bind_password"`
	BindFormat   string `json:"bind_format"` // "upn" or "dn"
}

// GraphSettings configures Microsoft Graph (mail + Exchange group membership).
type GraphSettings struct {
	Enabled      bool   `json:"enabled"`
	TenantID     string `json:"tenant_id"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Sender       string `json:"sender"`
	LicenseTo    string `json:"license_request_to"`
}

// SMTPSettings is the fallback mail transport when Graph is disabled.
type SMTPSettings struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

// WhatsAppSettings configures the send proxy.
type WhatsAppSettings struct {
	Enabled bool   `json:"enabled"`
	APIURL  string `json:"api_url"`
	Token   string `json:"token"`
	// RecipientPolicy selects where messages go: "hire" uses the hire's own
	// number, "test" always uses TestNumber.
	RecipientPolicy string `json:"recipient_policy"`
	TestNumber      string `json:"test_number"`
	Template        string `json:"template"`
}

// HRISDatabaseSettings describes the upstream HR database connection.
type HRISDatabaseSettings struct {
	Enabled  bool   `json:"enabled"`
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// Templates holds message templates with {{field}} placeholders.
type Templates struct {
	LicenseMailSubject string `json:"license_mail_subject"`
	LicenseMailIntro   string `json:"license_mail_intro"`
}

// Document is the singleton settings record. Version implements optimistic
// concurrency: updates must carry the version they read, and bump it.
type Document struct {
	Version         int                     `json:"version"`
	AccountStatuses []string                `json:"account_statuses"`
	Departments     []Department            `json:"departments"`
	MailingLists    []MailingList           `json:"mailing_lists"`
	LicenseTypes    []LicenseType           `json:"license_types"`
	ActiveDirectory ActiveDirectorySettings `json:"active_directory"`
	Graph           GraphSettings           `json:"graph"`
	SMTP            SMTPSettings            `json:"smtp"`
	WhatsApp        WhatsAppSettings        `json:"whatsapp"`
	HRISDatabase    HRISDatabaseSettings    `json:"hris_database"`
	Templates       Templates               `json:"templates"`
}

// Defaults returns the document used when no settings file exists yet.
func Defaults() Document {
	return Document{
		Version:         1,
		AccountStatuses: []string{"Pending", "Active", "Inactive", "Suspended"},
		Departments:     []Department{},
		MailingLists:    []MailingList{},
		LicenseTypes: []LicenseType{
			{Name: "Microsoft 365 E3", SKU: "SPE_E3"},
			{Name: "Microsoft 365 F3", SKU: "SPB_F3"},
		},
		ActiveDirectory: ActiveDirectorySettings{
			Organization: "MTI",
			BindFormat:   "upn",
		},
		WhatsApp: WhatsAppSettings{
			RecipientPolicy: "hire",
			Template: "Welcome {{name}}! Your {{department}} onboarding has started. " +
				"Account: {{username}} / {{password}}. IT will reach out before your first day.",
		},
		Templates: Templates{
			LicenseMailSubject: "License request: {{count}} new hire(s)",
			LicenseMailIntro:   "Please assign the following Microsoft 365 licenses.",
		},
	}
}

// DepartmentByName looks up a configured department.
func (d Document) DepartmentByName(name string) (Department, bool) {
	for _, dept := range d.Departments {
		if dept.Name == name {
			return dept, true
		}
	}
	return Department{}, false
}

// MailingListByID looks up a catalog entry.
func (d Document) MailingListByID(id string) (MailingList, bool) {
	for _, list := range d.MailingLists {
		if list.ID == id {
			return list, true
		}
	}
	return MailingList{}, false
}

// LicenseTypeValid reports whether a license name is "None" or configured.
func (d Document) LicenseTypeValid(name string) bool {
	if name == "" || name == "None" {
		return true
	}
	for _, lt := range d.LicenseTypes {
		if lt.Name == name {
			return true
		}
	}
	return false
}

// AccountStatusValid reports whether a status is in the configured set.
func (d Document) AccountStatusValid(status string) bool {
	for _, s := range d.AccountStatuses {
		if s == status {
			return true
		}
	}
	return false
}
