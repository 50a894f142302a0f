package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mti-it/onboarding-service/internal/api/dto"
	"github.com/mti-it/onboarding-service/internal/settings"
	apperrors "github.com/mti-it/onboarding-service/pkg/util"
)

// SettingsHandler exposes the versioned settings document. Reads return the
// redacted view; writes carry the version the caller last read and fail with
// 409 when it is stale.
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.Redacted()})
}

func (h *SettingsHandler) update(c *fiber.Ctx, version int, mutate func(*settings.Document)) error {
	if _, err := h.store.Update(version, mutate); err != nil {
		if errors.Is(err, settings.ErrVersionConflict) {
			return apperrors.NewConflict("settings were changed by another user, reload and retry", map[string]any{
				"submitted_version": version,
			})
		}
		return err
	}
	// Echo the redacted view at the new version.
	return c.JSON(fiber.Map{"data": h.store.Redacted()})
}

// UpdateAccountStatuses handles PUT /api/settings/account-statuses.
func (h *SettingsHandler) UpdateAccountStatuses(c *fiber.Ctx) error {
	var req dto.AccountStatusesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.AccountStatuses) == 0 {
		return fiber.NewError(http.StatusBadRequest, "account_statuses must not be empty")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.AccountStatuses = req.AccountStatuses
	})
}

// UpdateDepartments handles PUT /api/settings/departments.
func (h *SettingsHandler) UpdateDepartments(c *fiber.Ctx) error {
	var req dto.DepartmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.Departments = req.Departments
	})
}

// UpdateMailingLists handles PUT /api/settings/mailing-lists.
func (h *SettingsHandler) UpdateMailingLists(c *fiber.Ctx) error {
	var req dto.MailingListsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.MailingLists = req.MailingLists
	})
}

// UpdateLicenseTypes handles PUT /api/settings/license-types.
func (h *SettingsHandler) UpdateLicenseTypes(c *fiber.Ctx) error {
	var req dto.LicenseTypesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.LicenseTypes = req.LicenseTypes
	})
}

// UpdateActiveDirectory handles PUT /api/settings/integrations/active-directory.
func (h *SettingsHandler) UpdateActiveDirectory(c *fiber.Ctx) error {
	var req dto.ActiveDirectoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.ActiveDirectory = req.ActiveDirectory
	})
}

// UpdateGraph handles PUT /api/settings/integrations/graph.
func (h *SettingsHandler) UpdateGraph(c *fiber.Ctx) error {
	var req dto.GraphRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.Graph = req.Graph
	})
}

// UpdateSMTP handles PUT /api/settings/integrations/smtp.
func (h *SettingsHandler) UpdateSMTP(c *fiber.Ctx) error {
	var req dto.SMTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.SMTP = req.SMTP
	})
}

// UpdateWhatsApp handles PUT /api/settings/integrations/whatsapp.
func (h *SettingsHandler) UpdateWhatsApp(c *fiber.Ctx) error {
	var req dto.WhatsAppRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	switch req.WhatsApp.RecipientPolicy {
	case "", "hire", "test":
	default:
		return fiber.NewError(http.StatusBadRequest, `recipient_policy must be "hire" or "test"`)
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.WhatsApp = req.WhatsApp
	})
}

// UpdateHRIS handles PUT /api/settings/integrations/hris.
func (h *SettingsHandler) UpdateHRIS(c *fiber.Ctx) error {
	var req dto.HRISRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.HRISDatabase = req.HRIS
	})
}

// UpdateTemplates handles PUT /api/settings/templates.
func (h *SettingsHandler) UpdateTemplates(c *fiber.Ctx) error {
	var req dto.TemplatesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return h.update(c, req.Version, func(doc *settings.Document) {
		doc.Templates = req.Templates
	})
}
