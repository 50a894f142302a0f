package domain

import "time"

// AccountRole enumerates operator roles for the admin API.
type AccountRole string

const (
	RoleAdmin    AccountRole = "ADMIN"
	RoleOperator AccountRole = "OPERATOR"
)

// Account is an operator login for the onboarding console.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         AccountRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
