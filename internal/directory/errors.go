package directory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// ErrPasswordRequired is returned when account creation is attempted without
// an initial password. The console offers a manual-entry fallback for this.
var ErrPasswordRequired = errors.New("an initial password is required to create the directory account")

// BindFailure classifies why a directory bind was rejected.
type BindFailure string

const (
	BindInvalidCredentials BindFailure = "invalid_credentials"
	BindAccountRestricted  BindFailure = "account_restricted"
	BindServerUnreachable  BindFailure = "server_unreachable"
	BindMalformedUsername  BindFailure = "malformed_username"
)

// BindError is a typed bind failure derived from the LDAP result code.
type BindError struct {
	Kind BindFailure
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("directory bind failed (%s): %v", e.Kind, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Active Directory reports the concrete reason for error 49 as a hex
// sub-code embedded in the diagnostic message ("data 533").
var restrictedSubcodes = []string{"data 530", "data 531", "data 533", "data 701", "data 775"}

func classifyBindError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case ldap.IsErrorWithCode(err, ldap.ErrorNetwork):
		return &BindError{Kind: BindServerUnreachable, Err: err}
	case ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidDNSyntax):
		return &BindError{Kind: BindMalformedUsername, Err: err}
	case ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials):
		msg := strings.ToLower(err.Error())
		for _, code := range restrictedSubcodes {
			if strings.Contains(msg, code) {
				return &BindError{Kind: BindAccountRestricted, Err: err}
			}
		}
		return &BindError{Kind: BindInvalidCredentials, Err: err}
	}
	return &BindError{Kind: BindServerUnreachable, Err: err}
}
