package messaging

import (
	"strconv"
	"strings"

	"github.com/mti-it/onboarding-service/internal/domain"
)

// Render substitutes {{field}} placeholders in a stored template.
// Unknown placeholders are left in place so a typo is visible in the output
// rather than silently swallowed.
func Render(template string, fields map[string]string) string {
	out := template
	for key, value := range fields {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// HireFields exposes the hire attributes available to templates.
func HireFields(h *domain.Hire) map[string]string {
	return map[string]string{
		"name":       h.Name,
		"email":      h.Email,
		"title":      h.Title,
		"department": h.Department,
		"phone":      h.PhoneNumber,
		"username":   h.Username,
		"password":   h.Password,
		"license":    h.Microsoft365License,
		"progress":   strconv.Itoa(h.Progress()),
	}
}
