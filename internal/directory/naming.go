package directory

import (
	"fmt"
	"strings"

	"github.com/mti-it/onboarding-service/internal/domain"
)

const usernameMaxLen = 20

// Department-keyed overrides. These take precedence over the generic rules.
var ouOverrides = map[string]string{
	"Copper Cathode Plant": "CCP",
}

var groupOverrides = map[string]string{
	"Copper Cathode Plant":   "Copper Cathode",
	"Information Technology": "IT",
}

// NamingRules derives directory attribute values from hire records.
type NamingRules struct {
	Org    string // organization tag, e.g. "MTI"
	BaseDN string // e.g. "DC=mti,DC=local"
}

// AccountSpec is the directory-account specification built from a hire.
type AccountSpec struct {
	Username    string
	DisplayName string
	OUPath      string
	GroupName   string
	Email       string
	Title       string
	Department  string
}

// Username derives the account name from the hire email, capped at 20
// characters (the sAMAccountName limit).
func Username(email string) string {
	if len(email) > usernameMaxLen {
		return email[:usernameMaxLen]
	}
	return email
}

// OUPath returns the organizational-unit path for a department.
func (r NamingRules) OUPath(department string) string {
	ou := department
	if override, ok := ouOverrides[department]; ok {
		ou = override
	}
	return fmt.Sprintf("OU=%s,OU=%s,%s", ou, r.Org, r.BaseDN)
}

// GroupName returns the ACL security-group name for a department.
// The generic rule strips a trailing " Plant" suffix; two departments carry
// explicit overrides.
func (r NamingRules) GroupName(department string) string {
	name := strings.TrimSuffix(department, " Plant")
	if override, ok := groupOverrides[department]; ok {
		name = override
	}
	return fmt.Sprintf("ACL %s %s", r.Org, name)
}

// DisplayName tags the full name with the organization suffix.
func (r NamingRules) DisplayName(fullName string) string {
	return fmt.Sprintf("%s [%s]", fullName, r.Org)
}

// SpecFor builds the complete account specification for a hire.
func (r NamingRules) SpecFor(hire *domain.Hire) AccountSpec {
	return AccountSpec{
		Username:    Username(hire.Email),
		DisplayName: r.DisplayName(hire.Name),
		OUPath:      r.OUPath(hire.Department),
		GroupName:   r.GroupName(hire.Department),
		Email:       hire.Email,
		Title:       hire.Title,
		Department:  hire.Department,
	}
}
