package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/api/dto"
	"github.com/mti-it/onboarding-service/internal/directory"
	"github.com/mti-it/onboarding-service/internal/service"
	"github.com/mti-it/onboarding-service/internal/settings"
)

// DirectoryHandler exposes the Active Directory provisioning endpoints.
type DirectoryHandler struct {
	directory *service.DirectoryService
	logger    *zap.Logger
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directoryService *service.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directory: directoryService, logger: logger}
}

// CreateAccount handles POST /api/active-directory/accounts.
func (h *DirectoryHandler) CreateAccount(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.HireID == "" {
		return fiber.NewError(http.StatusBadRequest, "hire_id required")
	}

	result, err := h.directory.CreateAccount(c.UserContext(), req.HireID, req.Password, performedBy(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": result})
}

// BulkCreateAccounts handles POST /api/active-directory/accounts/bulk.
// Always 200 with a per-item breakdown.
func (h *DirectoryHandler) BulkCreateAccounts(c *fiber.Ctx) error {
	var req dto.BulkCreateAccountsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(http.StatusBadRequest, "ids required")
	}

	result := h.directory.BulkCreate(c.UserContext(), req.IDs, req.Password, performedBy(c))
	return c.JSON(fiber.Map{"data": result})
}

// PreviewAccount handles GET /api/active-directory/accounts/:id/preview,
// returning the derived attributes without writing anything.
func (h *DirectoryHandler) PreviewAccount(c *fiber.Ctx) error {
	spec, err := h.directory.SpecFor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AccountPreviewResponse{
		Username:    spec.Username,
		DisplayName: spec.DisplayName,
		OUPath:      spec.OUPath,
		GroupName:   spec.GroupName,
		UPN:         spec.Email,
	}})
}

// Search handles GET /api/active-directory/search?q=&limit=. Upstream
// failures degrade to an empty result with the error string; this route
// never returns a 5xx for a directory problem.
func (h *DirectoryHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fiber.NewError(http.StatusBadRequest, "q required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "25"))

	users, errMsg := h.directory.Search(c.UserContext(), query, limit)
	return c.JSON(fiber.Map{"data": dto.DirectorySearchResponse{
		Users: users,
		Error: errMsg,
	}})
}

// VerifyBind handles POST /api/active-directory/verify-bind, checking a
// candidate credential without saving it to settings.
func (h *DirectoryHandler) VerifyBind(c *fiber.Ctx) error {
	var req dto.VerifyBindRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.URL == "" || req.BindUsername == "" {
		return fiber.NewError(http.StatusBadRequest, "url and bind_username required")
	}

	client := directory.NewClient(settings.ActiveDirectorySettings{
		Enabled:      true,
		URL:          req.URL,
		BaseDN:       req.BaseDN,
		Domain:       req.Domain,
		BindUsername: req.BindUsername,
		BindPassword: req.BindPassword,
		BindFormat:   req.BindFormat,
	}, h.logger)

	if err := client.VerifyBind(); err != nil {
		kind := "bind_failed"
		if bindErr, ok := err.(*directory.BindError); ok {
			kind = string(bindErr.Kind)
		}
		return c.JSON(fiber.Map{"data": fiber.Map{
			"ok":     false,
			"kind":   kind,
			"detail": err.Error(),
		}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ok": true}})
}
