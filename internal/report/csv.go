package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/mti-it/onboarding-service/internal/domain"
)

var licenseReportHeader = []string{
	"SRF No.", "Name", "Title", "Department", "License Type", "Email", "Join Date",
}

// LicenseCSV renders the license report with a fixed column order. Fields
// containing commas or quotes come out quoted with doubled inner quotes, so
// rows round-trip through any standard CSV parser.
func LicenseCSV(hires []domain.Hire) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(licenseReportHeader); err != nil {
		return nil, err
	}
	for i := range hires {
		h := &hires[i]
		row := []string{
			strconv.Itoa(i + 1),
			h.Name,
			h.Title,
			h.Department,
			h.Microsoft365License,
			h.Email,
			h.OnSiteDate.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
