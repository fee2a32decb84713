package controller

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"fiich/config"
	"fiich/models"
	"fiich/services"
	"fiich/utils"
)

type ShareController struct {
	Shares *services.ShareService
	Access *services.AccessService
	Logger *log.Logger
}

func NewShareController(shares *services.ShareService, access *services.AccessService, logger *log.Logger) *ShareController {
	return &ShareController{Shares: shares, Access: access, Logger: logger}
}

type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

// CreatePublicLink issues (or re-returns) the company's public share
// token and the URL to hand out.
func (sc *ShareController) CreatePublicLink(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := utils.ParseUint(c.Params("id"))

	share, err := sc.Shares.IssuePublicLink(c.Context(), companyID, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"share_token": share.ShareToken,
		"share_link":  fmt.Sprintf("%s/shared/%s", config.AppConfig.AppURL, share.ShareToken),
		"share":       share,
	})
}

// ListShares returns every grant for a company, owner-only.
func (sc *ShareController) ListShares(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := utils.ParseUint(c.Params("id"))

	shares, err := sc.Shares.ListShares(c.Context(), companyID, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"shares": shares})
}

// UpdatePermissions overwrites a share's permission set.
func (sc *ShareController) UpdatePermissions(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	shareID := utils.ParseUint(c.Params("id"))

	var req UpdatePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	perms, err := models.ParsePermissions(req.Permissions)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown permission", err)
	}

	share, err := sc.Shares.UpdatePermissions(c.Context(), shareID, user.ID, perms)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Permissions updated successfully",
		"share":   share,
	})
}

// RevokeShare deactivates a grant without deleting it.
func (sc *ShareController) RevokeShare(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	shareID := utils.ParseUint(c.Params("id"))

	share, err := sc.Shares.Revoke(c.Context(), shareID, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Share revoked successfully",
		"share":   share,
	})
}

// ResolveShared is the unauthenticated capability endpoint: whoever holds
// the token gets the share's view, nothing more.
func (sc *ShareController) ResolveShared(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Resource not found", nil)
	}

	access, err := sc.Access.ResolveForToken(c.Context(), token)
	if err != nil {
		return respondError(c, err)
	}

	view, err := sc.Access.CompanyView(c.Context(), access)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(view)
}
