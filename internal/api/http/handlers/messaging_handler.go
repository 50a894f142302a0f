package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mti-it/onboarding-service/internal/api/dto"
	"github.com/mti-it/onboarding-service/internal/service"
)

// MessagingHandler exposes the Exchange sync, WhatsApp and license-mail
// endpoints.
type MessagingHandler struct {
	distribution *service.DistributionService
	messaging    *service.MessagingService
}

// NewMessagingHandler constructs handler.
func NewMessagingHandler(distribution *service.DistributionService, messaging *service.MessagingService) *MessagingHandler {
	return &MessagingHandler{distribution: distribution, messaging: messaging}
}

// SyncDistributionLists handles POST /api/exchange/hires/:id/sync.
// Composite outcome: always 200 with the per-list breakdown once the sync
// ran, even when every list failed.
func (h *MessagingHandler) SyncDistributionLists(c *fiber.Ctx) error {
	report, err := h.distribution.Sync(c.UserContext(), c.Params("id"), performedBy(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// SendWhatsApp handles POST /api/whatsapp/hires/:id/send.
func (h *MessagingHandler) SendWhatsApp(c *fiber.Ctx) error {
	outcome, err := h.messaging.SendWhatsApp(c.UserContext(), c.Params("id"), performedBy(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": outcome})
}

// SendLicenseRequest handles POST /api/mail/license-request.
func (h *MessagingHandler) SendLicenseRequest(c *fiber.Ctx) error {
	var req dto.LicenseMailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	outcome, err := h.messaging.SendLicenseRequest(c.UserContext(), req.HireIDs, req.To, performedBy(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": outcome})
}
