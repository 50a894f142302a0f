package mail

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/messaging"
	"github.com/mti-it/onboarding-service/internal/settings"
)

// BuildLicenseRequest renders the subject and HTML body for a license-request
// notification covering one or many hires.
func BuildLicenseRequest(tpl settings.Templates, hires []domain.Hire) (subject, body string) {
	subject = messaging.Render(tpl.LicenseMailSubject, map[string]string{
		"count": strconv.Itoa(len(hires)),
	})

	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(tpl.LicenseMailIntro))
	b.WriteString("</p>\n")
	b.WriteString(`<table border="1" cellpadding="6" cellspacing="0">` + "\n")
	b.WriteString("<tr><th>Name</th><th>Title</th><th>Department</th><th>Email</th><th>License</th><th>Join Date</th></tr>\n")
	for i := range hires {
		h := &hires[i]
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(h.Name),
			html.EscapeString(h.Title),
			html.EscapeString(h.Department),
			html.EscapeString(h.Email),
			html.EscapeString(h.Microsoft365License),
			h.OnSiteDate.Format("2006-01-02"),
		)
	}
	b.WriteString("</table>\n")
	return subject, b.String()
}
