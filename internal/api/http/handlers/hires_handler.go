package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mti-it/onboarding-service/internal/api/dto"
	"github.com/mti-it/onboarding-service/internal/auth"
	"github.com/mti-it/onboarding-service/internal/config"
	"github.com/mti-it/onboarding-service/internal/report"
	"github.com/mti-it/onboarding-service/internal/service"
)

// HiresHandler exposes the hire-record lifecycle endpoints.
type HiresHandler struct {
	hires   *service.HireService
	uploads config.UploadConfig
}

// NewHiresHandler constructs handler.
func NewHiresHandler(hireService *service.HireService, uploads config.UploadConfig) *HiresHandler {
	return &HiresHandler{hires: hireService, uploads: uploads}
}

func performedBy(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Account != nil {
		return principal.Account.Username
	}
	return "system"
}

// List handles GET /api/hires.
func (h *HiresHandler) List(c *fiber.Ctx) error {
	hires, err := h.hires.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.HireResponse, 0, len(hires))
	for i := range hires {
		out = append(out, dto.FromHire(&hires[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/hires/:id.
func (h *HiresHandler) Get(c *fiber.Ctx) error {
	hire, err := h.hires.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromHire(hire)})
}

// Create handles POST /api/hires.
func (h *HiresHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateHireRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	var onSite time.Time
	if req.OnSiteDate != "" {
		parsed, err := time.Parse("2006-01-02", req.OnSiteDate)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "on_site_date must be YYYY-MM-DD")
		}
		onSite = parsed
	}

	hire, err := h.hires.Create(c.UserContext(), service.HireCreateInput{
		Name:                req.Name,
		Email:               req.Email,
		Title:               req.Title,
		Department:          req.Department,
		PhoneNumber:         req.PhoneNumber,
		Microsoft365License: req.Microsoft365License,
		MailingList:         req.MailingList,
		OnSiteDate:          onSite,
	}, performedBy(c))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromHire(hire)})
}

// Update handles PATCH /api/hires/:id with a partial field assignment.
func (h *HiresHandler) Update(c *fiber.Ctx) error {
	fields, err := parseFieldAssignments(c)
	if err != nil {
		return err
	}

	hire, err := h.hires.Update(c.UserContext(), c.Params("id"), fields, performedBy(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromHire(hire)})
}

// Delete handles DELETE /api/hires/:id.
func (h *HiresHandler) Delete(c *fiber.Ctx) error {
	if err := h.hires.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// BulkUpdate handles POST /api/hires/bulk-update. Always 200 with a
// per-item breakdown.
func (h *HiresHandler) BulkUpdate(c *fiber.Ctx) error {
	var req dto.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(http.StatusBadRequest, "ids required")
	}

	result, err := h.hires.BulkUpdate(c.UserContext(), req.IDs, normalizeFields(req.Fields), performedBy(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// BulkDelete handles POST /api/hires/bulk-delete. Always 200 with a
// per-item breakdown; an absent id fails its own item only.
func (h *HiresHandler) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(http.StatusBadRequest, "ids required")
	}

	result := h.hires.BulkDelete(c.UserContext(), req.IDs)
	return c.JSON(fiber.Map{"data": result})
}

// AuditTrail handles GET /api/hires/:id/audit.
func (h *HiresHandler) AuditTrail(c *fiber.Ctx) error {
	entries, err := h.hires.AuditTrail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.FromAuditEntry(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// UploadSRF handles POST /api/hires/:id/srf-document (multipart form,
// field "document").
func (h *HiresHandler) UploadSRF(c *fiber.Ctx) error {
	file, err := c.FormFile("document")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "document file required")
	}
	if h.uploads.MaxSizeBytes > 0 && file.Size > h.uploads.MaxSizeBytes {
		return fiber.NewError(http.StatusBadRequest,
			fmt.Sprintf("document exceeds %d bytes", h.uploads.MaxSizeBytes))
	}

	if err := os.MkdirAll(h.uploads.Dir, 0o755); err != nil {
		return err
	}
	// Stored under a generated name; the original filename is kept in the DB.
	stored := filepath.Join(h.uploads.Dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveFile(file, stored); err != nil {
		return err
	}

	hire, err := h.hires.AttachSRFDocument(c.UserContext(), c.Params("id"), stored, file.Filename, performedBy(c))
	if err != nil {
		os.Remove(stored)
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromHire(hire)})
}

// LicenseReport handles GET /api/hires/report/licenses.csv.
func (h *HiresHandler) LicenseReport(c *fiber.Ctx) error {
	hires, err := h.hires.List(c.UserContext())
	if err != nil {
		return err
	}

	payload, err := report.LicenseCSV(hires)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="licenses.csv"`)
	return c.Send(payload)
}

// parseFieldAssignments reads a partial-update body into a normalized map.
func parseFieldAssignments(c *fiber.Ctx) (map[string]any, error) {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(fields) == 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "no fields to update")
	}
	return normalizeFields(fields), nil
}

// normalizeFields converts decoded JSON values into the shapes the
// repository can bind: []any into []string for mailing_list, and the
// YYYY-MM-DD string into time.Time for on_site_date. An unparseable date
// passes through as-is and fails service-side validation.
func normalizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		if items, ok := value.([]any); ok {
			strs := make([]string, 0, len(items))
			for _, item := range items {
				strs = append(strs, fmt.Sprint(item))
			}
			out[name] = strs
			continue
		}
		if name == "on_site_date" {
			if raw, ok := value.(string); ok {
				if date, err := time.Parse("2006-01-02", raw); err == nil {
					out[name] = date
					continue
				}
			}
		}
		out[name] = value
	}
	return out
}
