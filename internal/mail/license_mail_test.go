package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mti-it/onboarding-service/internal/domain"
	"github.com/mti-it/onboarding-service/internal/settings"
)

func TestBuildLicenseRequest_SubjectCarriesCount(t *testing.T) {
	tpl := settings.Templates{LicenseMailSubject: "License request: {{count}} new hire(s)"}
	hires := []domain.Hire{{Name: "A"}, {Name: "B"}}

	subject, _ := BuildLicenseRequest(tpl, hires)
	assert.Equal(t, "License request: 2 new hire(s)", subject)
}

func TestBuildLicenseRequest_BodyListsEveryHire(t *testing.T) {
	tpl := settings.Defaults().Templates
	hires := []domain.Hire{
		{Name: "Jane Doe", Title: "Metallurgist", Department: "Copper Cathode Plant",
			Email: "jane@mti.example.com", Microsoft365License: "Microsoft 365 E3",
			OnSiteDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)},
		{Name: "John Roe", Title: "Operator", Department: "Engineering",
			Email: "john@mti.example.com", Microsoft365License: "Microsoft 365 F3",
			OnSiteDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
	}

	_, body := BuildLicenseRequest(tpl, hires)
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "John Roe")
	assert.Contains(t, body, "2026-09-14")
	assert.Contains(t, body, "Microsoft 365 F3")
}

func TestBuildLicenseRequest_EscapesHTML(t *testing.T) {
	tpl := settings.Templates{LicenseMailIntro: "Assign <licenses> & go"}
	hires := []domain.Hire{{Name: "<script>alert(1)</script>"}}

	_, body := BuildLicenseRequest(tpl, hires)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Assign &lt;licenses&gt; &amp; go")
}
